package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shardkit/shardkit/internal/output"
	"github.com/shardkit/shardkit/internal/secure"
	shardkiterr "github.com/shardkit/shardkit/pkg/errors"
	"github.com/shardkit/shardkit/sss"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	sssThreshold int
	sssShares    int
	sssOutDir    string
	sssOutFile   string
	sssMnemonic  bool
)

const shareMetaFileName = "metadata"

var sssCmd = &cobra.Command{
	Use:   "sss",
	Short: "Shamir Secret Sharing over GF(256)",
}

var sssSplitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a secret into threshold shares",
	Args:  cobra.NoArgs,
	RunE:  runSSSSplit,
}

var sssReconstructCmd = &cobra.Command{
	Use:   "reconstruct <shares-dir>",
	Short: "Reconstruct a secret from a directory of shares",
	Args:  cobra.ExactArgs(1),
	RunE:  runSSSReconstruct,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	sssCmd.AddCommand(sssSplitCmd, sssReconstructCmd)

	sssSplitCmd.Flags().IntVarP(&sssThreshold, "threshold", "k", 0, "shares required to reconstruct (default from config)")
	sssSplitCmd.Flags().IntVarP(&sssShares, "shares", "n", 0, "total shares to produce (default from config)")
	sssSplitCmd.Flags().StringVar(&sssOutDir, "out", "./shares", "output directory for shares and metadata")
	sssSplitCmd.Flags().BoolVar(&sssMnemonic, "mnemonic", false, "write shares as BIP-39 wordlist phrases instead of base64 records")

	sssReconstructCmd.Flags().StringVar(&sssOutFile, "out", "", "output file for the recovered secret (default: print to stdout)")
	sssReconstructCmd.Flags().BoolVar(&sssMnemonic, "mnemonic", false, "read shares as BIP-39 wordlist phrases instead of base64 records")
}

func runSSSSplit(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	k := sssThreshold
	if k == 0 {
		k = ctx.Cfg.SSS.Threshold
	}
	n := sssShares
	if n == 0 {
		n = ctx.Cfg.SSS.TotalShares
	}

	cfg, err := sss.NewSSSConfig(k, n, ctx.Cfg.SSS.SecretMaxSize)
	if err != nil {
		return err
	}

	secret, err := promptSecretFn("Enter secret to split: ")
	if err != nil {
		return err
	}
	defer secure.Wipe(secret)

	result, err := sss.Split(secret, cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(sssOutDir, 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", sssOutDir, err)
	}

	metaText, err := encodeShareMetadata(result.Metadata)
	if err != nil {
		return err
	}
	metaPath := filepath.Join(sssOutDir, shareMetaFileName)
	if err := os.WriteFile(metaPath, []byte(metaText), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", metaPath, err)
	}

	table := output.NewTable("index", "file")
	for _, share := range result.Shares {
		var path string
		if sssMnemonic {
			path = filepath.Join(sssOutDir, fmt.Sprintf("share-%03d.txt", share.Index))
			if err := os.WriteFile(path, []byte(encodeShareMnemonic(share)+"\n"), 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		} else {
			text, serErr := share.Serialize()
			if serErr != nil {
				return serErr
			}
			path = filepath.Join(sssOutDir, fmt.Sprintf("share-%03d.share", share.Index))
			if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
		table.AddRow(fmt.Sprintf("%d", share.Index), path)
	}

	if ctx.Fmt.IsJSON() {
		return ctx.Fmt.Print(map[string]any{
			"share_count": len(result.Shares),
			"config":      cfg.String(),
			"out_dir":     sssOutDir,
		})
	}
	_ = ctx.Fmt.Printf("Split secret into %d shares (%s) -> %s\n", len(result.Shares), cfg.String(), sssOutDir)
	return table.Render(ctx.Fmt.Writer())
}

// readShareMetadata loads the standalone metadata record written by
// split alongside its shares.
func readShareMetadata(dir string) (sss.ShareMetadata, error) {
	raw, err := os.ReadFile(filepath.Join(dir, shareMetaFileName)) //nolint:gosec // dir is an explicit CLI argument
	if err != nil {
		return sss.ShareMetadata{}, fmt.Errorf("reading %s metadata: %w", dir, err)
	}
	return decodeShareMetadata(string(raw))
}

func readShareFiles(dir string) ([]sss.SecretShare, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".share") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	shares := make([]sss.SecretShare, 0, len(names))
	for _, name := range names {
		raw, readErr := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // name enumerated from dir itself
		if readErr != nil {
			return nil, fmt.Errorf("reading %s: %w", name, readErr)
		}
		share, decErr := sss.DeserializeShare(string(raw))
		if decErr != nil {
			// Skip unreadable share files; threshold-many valid ones are
			// all Reconstruct needs.
			output.Warnf("skipping %s: %v", name, decErr)
			continue
		}
		shares = append(shares, share)
	}
	return shares, nil
}

func readMnemonicShareFiles(dir string, metadata sss.ShareMetadata) ([]sss.SecretShare, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	shares := make([]sss.SecretShare, 0, len(names))
	for _, name := range names {
		raw, readErr := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // name enumerated from dir itself
		if readErr != nil {
			return nil, fmt.Errorf("reading %s: %w", name, readErr)
		}
		index, data, _, decErr := decodeShareMnemonic(strings.TrimSpace(string(raw)), metadata.SecretSize)
		if decErr != nil {
			output.Warnf("skipping %s: %v", name, decErr)
			continue
		}
		shares = append(shares, sss.NewShare(index, data, metadata))
	}
	return shares, nil
}

func runSSSReconstruct(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)
	sharesDir := args[0]

	var shares []sss.SecretShare
	var err error
	if sssMnemonic {
		metadata, metaErr := readShareMetadata(sharesDir)
		if metaErr != nil {
			return metaErr
		}
		shares, err = readMnemonicShareFiles(sharesDir, metadata)
	} else {
		shares, err = readShareFiles(sharesDir)
	}
	if err != nil {
		return err
	}
	if len(shares) == 0 {
		return shardkiterr.Wrap(sss.ErrInsufficientShares, nil, "no share files found in %s", sharesDir)
	}

	secretBytes, err := sss.Reconstruct(shares)
	if err != nil {
		return err
	}
	defer secure.Wipe(secretBytes)

	if sssOutFile != "" {
		if err := os.WriteFile(sssOutFile, secretBytes, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", sssOutFile, err)
		}
		if ctx.Fmt.IsJSON() {
			return ctx.Fmt.Print(map[string]any{"bytes": len(secretBytes), "out_file": sssOutFile})
		}
		return ctx.Fmt.Printf("Reconstructed %d bytes -> %s\n", len(secretBytes), sssOutFile)
	}

	if ctx.Fmt.IsJSON() {
		return ctx.Fmt.Print(map[string]any{"secret": string(secretBytes)})
	}
	return ctx.Fmt.Println(string(secretBytes))
}
