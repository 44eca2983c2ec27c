package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ahmadsufyan455/star-one/pkg/analyzer"
	"github.com/ahmadsufyan455/star-one/pkg/corpus"
	"github.com/ahmadsufyan455/star-one/pkg/formatter"
	"github.com/ahmadsufyan455/star-one/pkg/llm"
	"github.com/ahmadsufyan455/star-one/pkg/playstore"
	"github.com/ahmadsufyan455/star-one/pkg/report"
)

var (
	country      string
	lang         string
	provider     string
	modelName    string
	outputFormat string
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze APP_ID",
		Short: "Analyze an app's negative reviews with AI assistance",
		Long: `Fetch an app's newest Google Play reviews, filter the negative ones,
and extract recurring complaints, feature requests, and product ideas.

Examples:
  # Analyze an app by its Play Store package id
  star-one analyze com.example.app

  # Use a different store locale
  star-one analyze com.example.app --country de --lang de

  # Machine-readable output
  star-one analyze com.example.app -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVar(&country, "country", "us", "Store country code")
	cmd.Flags().StringVar(&lang, "lang", "en", "Store language code")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (gemini, claude, openai)")
	cmd.Flags().StringVar(&modelName, "model", "", "Model override for the chosen provider")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	appID := args[0]
	ctx := cmd.Context()

	generator, err := llm.CreateFromEnv(provider, modelName)
	if err != nil {
		return err
	}

	printAnalyzeHeader(appID)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Fetching app details..."
	s.Start()

	catalog := playstore.NewClient(nil)

	app, err := catalog.AppDetails(ctx, appID, country, lang)
	if err != nil {
		s.Stop()
		return fmt.Errorf("fetch app details: %w", err)
	}
	s.Stop()
	printSuccess(fmt.Sprintf("Found %s", app.Title))

	s.Suffix = " Fetching newest reviews..."
	s.Start()

	negatives, err := catalog.NegativeReviews(ctx, appID, country, lang)
	if err != nil {
		s.Stop()
		return fmt.Errorf("fetch reviews: %w", err)
	}
	s.Stop()

	c := corpus.Build(negatives)
	if c.Count == 0 {
		printError("No negative reviews with text found, nothing to analyze")
		return nil
	}
	printSuccess(fmt.Sprintf("Collected %d negative reviews", c.Count))

	s.Suffix = " Analyzing with AI..."
	s.Start()

	insights, err := analyzer.New(generator).Extract(ctx, c.Text)
	if err != nil {
		s.Stop()
		return fmt.Errorf("AI analysis failed: %w", err)
	}
	s.Stop()
	printSuccess("Analysis complete")

	return formatter.DisplayReport(report.Assemble(app, insights, negatives, time.Now()), outputFormat)
}

func printAnalyzeHeader(appID string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("🔍 Negative Review Analyzer")
	fmt.Printf("📦 App: %s\n", appID)
	fmt.Printf("🌍 Locale: %s/%s\n", country, lang)
	fmt.Println()
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Printf("✗ %s\n", msg)
}
