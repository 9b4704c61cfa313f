// Package gf256 implements arithmetic over GF(2^8), the finite field
// shared by the rs and sss packages. Addition is XOR; multiplication,
// division, and exponentiation go through precomputed log/exp tables
// built once at first use from the primitive polynomial x^8 + x^4 + x^3 +
// x^2 + 1 (0x11D) with generator alpha = 2.
package gf256

import "sync"

const (
	// primitivePolynomial reduces GF(2^8) multiplication (x^8 + x^4 + x^3 + x^2 + 1).
	primitivePolynomial = 0x11D

	// fieldSize is the number of elements in the field.
	fieldSize = 256

	// generator is the primitive element alpha used to build the tables.
	generator = 2
)

var (
	// expTable holds alpha^i for i in [0, 2*fieldSize-3], duplicated past
	// fieldSize-1 so callers can index exp[a+b] without reducing mod 255
	// on every multiply.
	//
	//nolint:gochecknoglobals // precomputed table, immutable after initTables
	expTable [2*fieldSize - 2]byte

	// logTable holds the inverse mapping; logTable[0] is unused.
	//
	//nolint:gochecknoglobals // precomputed table, immutable after initTables
	logTable [fieldSize]byte

	tablesInit sync.Once
)

// initTables computes the exponentiation and logarithm tables once.
func initTables() {
	tablesInit.Do(func() {
		x := 1
		for i := 0; i < fieldSize-1; i++ {
			expTable[i] = byte(x)
			logTable[x] = byte(i)

			x <<= 1
			if x >= fieldSize {
				x ^= primitivePolynomial
			}
		}

		// Duplicate the cycle so exp[i] for i in [255, 509] repeats exp[i-255].
		for i := fieldSize - 1; i < len(expTable); i++ {
			expTable[i] = expTable[i-(fieldSize-1)]
		}
	})
}

// Add returns a XOR b. Addition and subtraction coincide in GF(2^n).
func Add(a, b byte) byte {
	return a ^ b
}

// Sub returns a XOR b.
func Sub(a, b byte) byte {
	return a ^ b
}

// Mul returns a*b in GF(2^8).
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	initTables()
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Div returns a/b in GF(2^8). Division by zero panics: it is a
// programmer error — runtime/user-caused conditions must be validated
// by the caller before reaching the field layer.
func Div(a, b byte) byte {
	if b == 0 {
		panic("gf256: division by zero")
	}
	if a == 0 {
		return 0
	}
	initTables()
	diff := int(logTable[a]) - int(logTable[b])
	if diff < 0 {
		diff += fieldSize - 1
	}
	return expTable[diff]
}

// Pow returns a^n in GF(2^8).
func Pow(a byte, n int) byte {
	if n == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	initTables()
	e := (int(logTable[a]) * n) % (fieldSize - 1)
	if e < 0 {
		e += fieldSize - 1
	}
	return expTable[e]
}

// Inv returns the multiplicative inverse of a. Panics on a == 0, a
// programmer error — callers (matrix pivoting, Lagrange weights) must
// never invoke Inv on zero.
func Inv(a byte) byte {
	if a == 0 {
		panic("gf256: inverse of zero")
	}
	initTables()
	return expTable[fieldSize-1-int(logTable[a])]
}

// Exp returns alpha^i for the shared generator (alpha=2).
func Exp(i int) byte {
	initTables()
	e := i % (fieldSize - 1)
	if e < 0 {
		e += fieldSize - 1
	}
	return expTable[e]
}

// Log returns the discrete log of a (base alpha). a must be nonzero.
func Log(a byte) int {
	if a == 0 {
		panic("gf256: log of zero")
	}
	initTables()
	return int(logTable[a])
}

// EvalPoly evaluates a polynomial with coefficients coeffs (coeffs[0] is
// the constant term) at point x using Horner's method.
func EvalPoly(coeffs []byte, x byte) byte {
	if len(coeffs) == 0 {
		return 0
	}
	result := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = Add(Mul(result, x), coeffs[i])
	}
	return result
}
