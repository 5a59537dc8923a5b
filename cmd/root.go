package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wordbloom",
	Short: "Vocabulary quizzes with spaced reviews",
	Long: "wordbloom: topic vocabulary quizzes that combine spelling, pronunciation and translation, " +
		"with one-day and one-week reviews and a mistakes drill.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Storage path (overrides storage.path and WORDBLOOM_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("config", "", "Path to a wordbloom.yaml config file")

	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(mistakesCmd)
	rootCmd.AddCommand(reviewsCmd)
	rootCmd.AddCommand(dismissCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
