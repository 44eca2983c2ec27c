package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahmadsufyan455/star-one/cmd"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "star-one",
		Short: "AI-powered negative-review analysis for Play Store apps",
		Long: `star-one fetches an app's most recent Google Play reviews, filters the
negative ones, and uses AI to surface recurring complaints, requested
features, overall sentiment, and product-idea suggestions.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		cmd.NewAnalyzeCmd(),
		cmd.NewServeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("star-one version %s\n", version)
		},
	}
}
