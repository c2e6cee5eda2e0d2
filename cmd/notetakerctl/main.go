// Command notetakerctl is the operator CLI for the meeting notetaker: offline
// transcript tools, calendar webhook triggering and schema migrations.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var outputFormat string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "notetakerctl",
		Short: "Operator tools for the meeting notetaker",
		Long: `notetakerctl works with transcripts offline, fires calendar webhooks at a
running server and manages the database schema. It can also mint access tokens for local testing.

Commands accept --output json or --output yaml for structured output.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputText, "Output format: text, json, yaml")

	root.AddCommand(newSegmentCmd())
	root.AddCommand(newParticipantsCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newTriggerCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// render writes v in the selected structured format. It returns false for the
// text format so the caller prints its own table.
func render(w io.Writer, v interface{}) (bool, error) {
	switch strings.ToLower(outputFormat) {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case outputYAML:
		// Round-trip through JSON so field names follow the json tags.
		raw, err := json.Marshal(v)
		if err != nil {
			return true, err
		}
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return true, err
		}
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return true, enc.Encode(generic)
	case outputText, "":
		return false, nil
	}
	return true, fmt.Errorf("unknown output format %q", outputFormat)
}

// readInput reads the named file, or stdin when the name is empty or "-"
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		return string(raw), err
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(raw), nil
}
