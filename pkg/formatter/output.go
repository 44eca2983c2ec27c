package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/ahmadsufyan455/star-one/pkg/model"
)

// DisplayReport formats and displays an analysis report
func DisplayReport(report *model.AnalysisReport, format string) error {
	switch format {
	case "json":
		return displayJSON(report)
	case "yaml":
		return displayYAML(report)
	case "human":
		fallthrough
	default:
		displayHuman(report)
	}
	return nil
}

func displayJSON(report *model.AnalysisReport) error {
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func displayYAML(report *model.AnalysisReport) error {
	output, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func displayHuman(report *model.AnalysisReport) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Println()
	white.Printf("📱 %s\n", report.AppName)
	fmt.Printf("   Updated %s · %s installs · %.1f★ (%d ratings)\n",
		report.LastUpdated, report.Installs, report.Score, report.Ratings)
	if report.Free {
		fmt.Printf("   Free")
	} else {
		fmt.Printf("   %s", report.Price)
	}
	if report.OffersIAP {
		fmt.Printf(" · offers in-app purchases")
	}
	fmt.Println()
	fmt.Println()

	cyan.Println("🗣  SENTIMENT:")
	fmt.Printf("   %s\n\n", report.SentimentSummary)

	if len(report.TopComplaints) > 0 {
		red.Println("⚠️  TOP COMPLAINTS:")
		for i, c := range report.TopComplaints {
			fmt.Printf("   %d. %s\n", i+1, c)
		}
		fmt.Println()
	}

	if len(report.FeatureRequests) > 0 {
		yellow.Println("💬 FEATURE REQUESTS:")
		for i, f := range report.FeatureRequests {
			fmt.Printf("   %d. %s\n", i+1, f)
		}
		fmt.Println()
	}

	if len(report.AppIdeas) > 0 {
		cyan.Println("💡 APP IDEAS:")
		for i, idea := range report.AppIdeas {
			if idea.Idea != nil {
				fmt.Printf("   %d. %s\n", i+1, color.CyanString(idea.Idea.Name))
				fmt.Printf("      Pain point: %s\n", idea.Idea.PainPoint)
				fmt.Printf("      Differentiation: %s\n", idea.Idea.Differentiation)
				fmt.Printf("      Value: %s\n", idea.Idea.ValueProposition)
			} else {
				fmt.Printf("   %d. %s\n", i+1, idea.Text)
			}
			fmt.Println()
		}
	}

	if len(report.BadReviews) > 0 {
		white.Println("📝 NEGATIVE REVIEW SAMPLE:")
		for _, r := range report.BadReviews {
			fmt.Printf("   %s %s · %s\n", stars(r.Score), r.UserName, r.Date)
			fmt.Printf("   %s\n\n", r.Text)
		}
	}

	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func stars(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 5 {
		score = 5
	}
	return strings.Repeat("★", score) + strings.Repeat("☆", 5-score)
}
