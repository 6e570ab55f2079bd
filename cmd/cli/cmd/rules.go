// Package cmd - rule table commands
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"realestate-price/core/rules"
	"realestate-price/internal/config"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show or validate location and price tier rules",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print the effective rule tables",
	Long: `Print the feature rules and price tiers in priority order.

Without a path the file from config (or the built-in tables) is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := rules.Load(rulesPathArg(args))
		if err != nil {
			return err
		}
		writeRules(cmd.OutOrStdout(), set)
		return nil
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Validate an HCL rule file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := rules.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d feature rules, %d price tiers\n",
			args[0], len(set.Features), len(set.Tiers))
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
}

func rulesPathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.Get().Rules.Path
}

func writeRules(w io.Writer, set *rules.Set) {
	fmt.Fprintf(w, "Source: %s\n\n", set.Source)

	fmt.Fprintln(w, "Feature rules (model input):")
	for _, r := range set.Profiler().Rules() {
		fmt.Fprintf(w, "  %-16s factor=%-5g near_mrt=%-5v [%s]\n",
			r.Name, r.Profile.LocationFactor, r.Profile.IsNearMRT, strings.Join(r.Keywords, ", "))
	}
	fmt.Fprintln(w, "  (unmatched)       factor=1     near_mrt=false")

	estimator := set.Estimator()
	fmt.Fprintln(w, "\nPrice tiers (heuristic fallback):")
	for _, t := range estimator.Tiers() {
		fmt.Fprintf(w, "  %-16s %s/坪 [%s]\n", t.Name, t.Rate.String(), strings.Join(t.Keywords, ", "))
	}
	fallback := estimator.Default()
	fmt.Fprintf(w, "  %-16s %s/坪\n", fallback.Name, fallback.Rate.String())
}
