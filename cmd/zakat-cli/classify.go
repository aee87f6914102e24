package main

import (
	"fmt"
	"strings"

	"barakah-backend/internal/classifier"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <line item name>",
	Short: "Classify a business line item by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		res := classifier.Classify(name)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", res.Classification)
		if res.IslamicRuling != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "ruling: %s\n", res.IslamicRuling)
		}
		if res.ClarificationQuestion != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "question: %s\n", res.ClarificationQuestion)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
