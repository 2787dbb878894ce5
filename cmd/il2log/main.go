// Command il2log parses IL-2 dedicated server event logs.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/il2log/il2log-go/pkg/il2log"
	"github.com/il2log/il2log-go/pkg/il2log/profile"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	verbose     bool
	profilePath string
)

var rootCmd = &cobra.Command{
	Use:   "il2log",
	Short: "Parse IL-2 dedicated server event logs",
	Long: `il2log turns the event log of an IL-2 Sturmovik dedicated server
(eventlog.lst) into structured events.

Use "parse" for finished logs, "tail" to follow a running server and
"sessions" to group events by mission and pilot.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "",
		"YAML profile with custom rules, disabled kinds and noise markers")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns the logger for library debug output. Without
// --verbose it discards everything.
func newLogger(w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// buildRegistry returns the registry selected by --profile, or the default
// registry if no profile is given.
func buildRegistry(path string, logger *slog.Logger) (*il2log.Registry, error) {
	if path == "" {
		return il2log.NewDefaultRegistry(il2log.WithRegistryLogger(logger)), nil
	}
	p, err := profile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	reg, err := p.Registry(il2log.WithRegistryLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	logger.Debug("loaded profile", "path", path, "rules", reg.Len())
	return reg, nil
}
