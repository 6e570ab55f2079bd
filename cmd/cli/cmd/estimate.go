// Package cmd - estimate command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"realestate-price/core/model"
	"realestate-price/core/rules"
	"realestate-price/core/types"
	"realestate-price/core/valuation"
	"realestate-price/internal/config"
	"realestate-price/internal/logging"
)

var (
	estArea           float64
	estAddress        string
	estRooms          int
	estBathrooms      int
	estAge            int
	estLocationFactor float64
	estNearMRT        bool
	estModelPath      string
	estRulesPath      string
	outputFormat      string
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the price of one listing",
	Long: `Estimate the price of one listing in 萬TWD.

Omitted rooms, bathrooms and age use the service defaults (3, 2, 10).
Omitted location factor and MRT proximity are derived from the address.

Examples:
  price-estimator estimate --area 50 --address 大安區
  price-estimator estimate --area 40 --address 中山區 --near-mrt --age 5
  price-estimator estimate --area 40 --address 中山區 --model "" --format json`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().Float64Var(&estArea, "area", 0, "floor area in 坪 [REQUIRED]")
	estimateCmd.Flags().StringVar(&estAddress, "address", "", "address or district [REQUIRED]")
	estimateCmd.Flags().IntVar(&estRooms, "rooms", types.DefaultNumRooms, "number of rooms")
	estimateCmd.Flags().IntVar(&estBathrooms, "bathrooms", types.DefaultNumBathrooms, "number of bathrooms")
	estimateCmd.Flags().IntVar(&estAge, "age", types.DefaultAge, "building age in years")
	estimateCmd.Flags().Float64Var(&estLocationFactor, "location-factor", 0, "location factor (derived from address when omitted)")
	estimateCmd.Flags().BoolVar(&estNearMRT, "near-mrt", false, "near an MRT station (derived from address when omitted)")
	estimateCmd.Flags().StringVar(&estModelPath, "model", "", "model artifact (default from config; empty for heuristic only)")
	estimateCmd.Flags().StringVar(&estRulesPath, "rules", "", "HCL rule file (default from config)")
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	estimateCmd.MarkFlagRequired("area")
	estimateCmd.MarkFlagRequired("address")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unsupported format: %s (use text or json)", outputFormat)
	}

	cfg := config.Get()
	flags := cmd.Flags()

	modelPath := cfg.Model.Path
	if flags.Changed("model") {
		modelPath = estModelPath
	}
	rulesPath := cfg.Rules.Path
	if flags.Changed("rules") {
		rulesPath = estRulesPath
	}

	service, err := buildService(cmd.Context(), modelPath, rulesPath, cfg.Model)
	if err != nil {
		return err
	}

	req := &types.PredictionRequest{Area: estArea, Address: estAddress}
	if flags.Changed("rooms") {
		req.NumRooms = &estRooms
	}
	if flags.Changed("bathrooms") {
		req.NumBathrooms = &estBathrooms
	}
	if flags.Changed("age") {
		req.Age = &estAge
	}
	if flags.Changed("location-factor") {
		req.LocationFactor = &estLocationFactor
	}
	if flags.Changed("near-mrt") {
		req.IsNearMRT = &estNearMRT
	}

	result, err := service.Estimate(cmd.Context(), req)
	if err != nil {
		return err
	}
	return writeEstimate(cmd.OutOrStdout(), result, outputFormat)
}

// buildService wires rule tables and the model handle the same way the server does
func buildService(ctx context.Context, modelPath, rulesPath string, mc config.ModelConfig) (*valuation.Service, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ruleSet, err := rules.Load(rulesPath)
	if err != nil {
		return nil, err
	}
	logging.Debug("Loaded rule tables", zap.String("source", ruleSet.Source))
	logger := logging.Logger

	handle := model.Load(ctx, modelPath, mc.LoadTimeout(), logger)
	return valuation.New(handle,
		valuation.WithProfiler(ruleSet.Profiler()),
		valuation.WithEstimator(ruleSet.Estimator()),
		valuation.WithLogger(logger)), nil
}

// estimateOutput is the JSON form of an estimate
type estimateOutput struct {
	PredictedPrice json.Number         `json:"predicted_price"`
	Unit           string              `json:"unit"`
	Source         string              `json:"source"`
	FallbackReason string              `json:"fallback_reason,omitempty"`
	Features       types.FeatureVector `json:"features"`
}

func writeEstimate(w io.Writer, result *types.PredictionResult, format string) error {
	price := result.PredictedPrice.StringFixed(types.PriceDecimals)

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(estimateOutput{
			PredictedPrice: json.Number(price),
			Unit:           types.MonetaryUnit,
			Source:         result.Source.String(),
			FallbackReason: result.FallbackReason,
			Features:       result.Features,
		})
	}

	f := result.Features
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "Predicted price: %s %s\n", price, types.MonetaryUnit)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	source := result.Source.String()
	if result.FallbackReason != "" {
		source = fmt.Sprintf("%s (%s)", source, result.FallbackReason)
	}
	fmt.Fprintf(w, "Source:          %s\n", source)
	fmt.Fprintf(w, "Area:            %g %s\n", f.Area, types.AreaUnit)
	fmt.Fprintf(w, "Rooms:           %d\n", f.NumRooms)
	fmt.Fprintf(w, "Bathrooms:       %d\n", f.NumBathrooms)
	fmt.Fprintf(w, "Age:             %d\n", f.Age)
	fmt.Fprintf(w, "Location factor: %g\n", f.LocationFactor)
	fmt.Fprintf(w, "Near MRT:        %v\n", f.IsNearMRT)
	return nil
}
