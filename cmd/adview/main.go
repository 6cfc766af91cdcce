// Package main provides the adview CLI for fetching and displaying Specify ad content.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"adview/internal/config"
	"adview/internal/view"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "adview",
	Short:         "Fetch and display Specify ad content for a wallet",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newConfigCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "adview: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// renderFlags are the output flags shared by commands that display views.
type renderFlags struct {
	format       string
	wrap         int
	forceColor   bool
	forceNoColor bool
}

func (r *renderFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&r.format, "format", "text", "output format: text, table, plain, or json")
	flags.IntVar(&r.wrap, "wrap", 0, "wrap output at the given column width")
	flags.BoolVar(&r.forceColor, "color", false, "force-enable ANSI colors even when stdout is not a TTY")
	flags.BoolVar(&r.forceNoColor, "no-color", false, "disable ANSI colors regardless of terminal detection")
}

func (r *renderFlags) options(out io.Writer) view.Options {
	outFile, _ := out.(*os.File)
	return view.Options{
		Format:       r.format,
		Wrap:         r.wrap,
		ForceColor:   r.forceColor,
		ForceNoColor: r.forceNoColor,
		Out:          out,
		OutFile:      outFile,
	}
}

type configPayload struct {
	PublisherKey string `json:"publisher_key"`
	APIURL       string `json:"api_url"`
	AssetsURL    string `json:"assets_url"`
	Timeout      string `json:"timeout"`
	WalletFile   string `json:"wallet_file"`
}

func newConfigCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration with the publisher key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			payload := configPayload{
				PublisherKey: cfg.MaskedKey(),
				APIURL:       cfg.APIURL,
				AssetsURL:    cfg.AssetsURL,
				Timeout:      cfg.Timeout.String(),
				WalletFile:   cfg.WalletFile,
			}

			switch strings.ToLower(formatFlag) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			case "text":
				renderConfigText(cmd.OutOrStdout(), payload)
				return nil
			default:
				return fmt.Errorf("unsupported format: %s", formatFlag)
			}
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "text", "output format: text or json")
	return cmd
}

func renderConfigText(out io.Writer, payload configPayload) {
	const labelWidth = 13
	walletFile := payload.WalletFile
	if walletFile == "" {
		walletFile = "-"
	}
	writeKV(out, labelWidth, "Publisher Key", payload.PublisherKey)
	writeKV(out, labelWidth, "API URL", payload.APIURL)
	writeKV(out, labelWidth, "Assets URL", payload.AssetsURL)
	writeKV(out, labelWidth, "Timeout", payload.Timeout)
	writeKV(out, labelWidth, "Wallet File", walletFile)
}

func writeKV(out io.Writer, width int, label string, value string) {
	fmt.Fprintf(out, "%-*s: %s\n", width, label, value) //nolint:errcheck
}
