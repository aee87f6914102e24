package main

import (
	"github.com/spf13/cobra"
)

var (
	flagGoldPrice float64
	flagCalendar  string
)

var rootCmd = &cobra.Command{
	Use:   "zakat-cli",
	Short: "Offline zakat assessment and line-item classification",
	Long:  "Runs the zakat calculation engine against a local snapshot file, without the API server or a database.",
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&flagGoldPrice, "gold-price", 0, "Gold price per gram in the base currency")
	rootCmd.PersistentFlags().StringVar(&flagCalendar, "calendar", "islamic", "Calendar type: islamic or western")
}

func Execute() error {
	return rootCmd.Execute()
}
