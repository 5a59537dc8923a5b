package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbloom/internal/llm"
	"github.com/abhisek/wordbloom/internal/translation"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect translation-check usage and try the checker",
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		out := cmd.OutOrStdout()

		usage, err := d.events.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-32s  %6s  %6s  %10s  %10s  %8s  %10s\n",
			"Model", "Calls", "Failed", "Input", "Output", "Avg Ms", "Cost")
		fmt.Fprintln(out, strings.Repeat("─", 96))

		var totalCost float64
		var unknownModels []string
		for _, u := range usage {
			cost := "?"
			if c, ok := llm.EstimateCost(u); ok {
				totalCost += c
				cost = formatCost(c)
			} else {
				unknownModels = append(unknownModels, u.Model)
			}
			fmt.Fprintf(out, "%-32s  %6d  %6d  %10d  %10d  %8d  %10s\n",
				truncate(u.Model, 32), u.Calls, u.Failures, u.InputTokens, u.OutputTokens, u.AvgLatencyMs, cost)
		}

		fmt.Fprintln(out, strings.Repeat("─", 96))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(out, "%-32s  %6s  %6s  %10s  %10s  %8s  %10s\n", label, "", "", "", "", "", formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

var llmCheckCmd = &cobra.Command{
	Use:   "check <vietnamese> <translation>",
	Short: "Run one translation check and print the JSON result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		word, _ := cmd.Flags().GetString("word")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		ctx := cmd.Context()

		req := translation.Request{Vietnamese: args[0], UserTranslation: args[1], VocabularyWord: word}
		res := translation.CheckOrUnavailable(ctx, d.checker(ctx), req, d.logger)

		contains := translation.ContainsWord(args[1], word, nil)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"result":       res,
			"containsWord": contains,
			"passed":       translation.Verdict(res, contains, d.cfg.Translation.PassScore),
		})
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmCheckCmd.Flags().String("word", "", "Vocabulary word the translation must use")
	_ = llmCheckCmd.MarkFlagRequired("word")

	llmCmd.AddCommand(llmUsageCmd)
	llmCmd.AddCommand(llmCheckCmd)
}
