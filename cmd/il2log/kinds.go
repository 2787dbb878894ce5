package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/il2log/il2log-go/internal/parser"
	"github.com/il2log/il2log-go/pkg/il2log/event"
)

var showSamples bool

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the event kinds il2log recognizes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range event.KindNames() {
			if !showSamples {
				if _, err := fmt.Fprintln(out, name); err != nil {
					return err
				}
				continue
			}
			line, _ := parser.SampleLine(event.Kind(name))
			if _, err := fmt.Fprintf(out, "%s\t%s\n", name, line); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	kindsCmd.Flags().BoolVar(&showSamples, "samples", false,
		"Show an example log line for each kind")
	rootCmd.AddCommand(kindsCmd)
}

// parseKinds converts --types values to kinds. Each value may itself be a
// comma-separated list.
func parseKinds(values []string) ([]event.Kind, error) {
	var kinds []event.Kind
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			k, ok := event.ParseKind(name)
			if !ok {
				return nil, fmt.Errorf("unknown event kind %q (see: il2log kinds)", name)
			}
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}
