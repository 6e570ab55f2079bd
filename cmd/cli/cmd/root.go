// Package cmd provides the CLI commands for price-estimator.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"realestate-price/internal/config"
	"realestate-price/internal/logging"
)

// Version is the CLI release version
const Version = "1.0.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "price-estimator",
	Short: "Estimate listing prices for Taipei real estate",
	Long: `price-estimator predicts a listing price in 萬TWD from area (坪),
address and a few building attributes.

It uses the trained regression model when one is available and falls back
to a per-ping rate table otherwise.

Examples:
  price-estimator estimate --area 50 --address 大安區
  price-estimator estimate --area 30 --address 文山區 --format json
  price-estimator model inspect models/model_xgb.json
  price-estimator rules check configs/rules.hcl`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "price-estimator version %s\n", Version)
	},
}
