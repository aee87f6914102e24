package main

import (
	"encoding/json"
	"fmt"
	"os"

	"barakah-backend/internal/domain"
	"barakah-backend/internal/zakat"

	"github.com/spf13/cobra"
)

type snapshotFile struct {
	Assets     *domain.IndividualAssets    `json:"assets"`
	Deductions domain.IndividualDeductions `json:"deductions"`
}

var calculateCmd = &cobra.Command{
	Use:   "calculate <snapshot.json>",
	Short: "Assess a saved individual snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var snap snapshotFile
		if err := json.Unmarshal(raw, &snap); err != nil {
			return fmt.Errorf("parse snapshot: %w", err)
		}
		if snap.Assets == nil {
			snap.Assets = domain.NewIndividualAssets()
		}
		snap.Assets.Normalize()

		assessment, err := zakat.AssessIndividual(snap.Assets, snap.Deductions, flagGoldPrice, domain.CalendarType(flagCalendar))
		if err != nil {
			return err
		}
		return printJSON(cmd, assessment)
	},
}

var nisabCmd = &cobra.Command{
	Use:   "nisab",
	Short: "Show the nisab threshold for a gold price",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagGoldPrice <= 0 {
			return fmt.Errorf("--gold-price must be positive")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.2f (%dg of gold at %.2f/g)\n",
			zakat.NisabThreshold(flagGoldPrice), zakat.NisabGoldGrams, flagGoldPrice)
		return nil
	},
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(nisabCmd)
}
