// Package cmd - model artifact commands
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"realestate-price/core/model"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect trained model artifacts",
}

var modelInspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Decode an artifact and print its metadata",
	Long: `Decode a model artifact without serving it.

Fails when the file cannot be read, is not a supported artifact, or was
trained on a different feature layout.`,
	Args: cobra.ExactArgs(1),
	RunE: runModelInspect,
}

var modelFormat string

func init() {
	modelCmd.AddCommand(modelInspectCmd)
	modelInspectCmd.Flags().StringVarP(&modelFormat, "format", "f", "text", "output format (text, json)")
}

func runModelInspect(cmd *cobra.Command, args []string) error {
	info, err := model.Inspect(args[0])
	if err != nil {
		return err
	}
	return writeModelInfo(cmd.OutOrStdout(), info, modelFormat)
}

func writeModelInfo(w io.Writer, info model.Info, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "text":
		fmt.Fprintf(w, "Path:      %s\n", info.Path)
		fmt.Fprintf(w, "Kind:      %s\n", info.Kind)
		if info.Objective != "" {
			fmt.Fprintf(w, "Objective: %s\n", info.Objective)
		}
		if info.Trees > 0 {
			fmt.Fprintf(w, "Trees:     %d\n", info.Trees)
		}
		if len(info.Features) > 0 {
			fmt.Fprintf(w, "Features:  %s\n", strings.Join(info.Features, ", "))
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (use text or json)", format)
	}
}
