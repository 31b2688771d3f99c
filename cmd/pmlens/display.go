package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/pmlens/pmlens/internal/types"
)

// printRecommendation renders a mode recommendation to stdout.
func printRecommendation(rec *types.Recommendation, completeness float64, fileCount int) {
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Printf("\n%s\n", bold("Mode Recommendation"))
	fmt.Printf("  Files found:  %d\n", fileCount)
	fmt.Printf("  Completeness: %s\n", percent(completeness))
	fmt.Printf("  Mode:         %s\n", cyan(rec.RecommendedMode))
	fmt.Printf("  Confidence:   %s\n", confidenceLabel(rec.ConfidenceScore))
	if rec.Reasoning != "" {
		fmt.Printf("  Reasoning:    %s\n", rec.Reasoning)
	}

	if len(rec.AvailableDocuments) > 0 {
		fmt.Printf("\n  Available documents:\n")
		for _, doc := range rec.AvailableDocuments {
			quality := rec.FileQualityScores[doc]
			fmt.Printf("    - %s (quality %s)\n", doc, percent(quality))
		}
	}
	if len(rec.MissingDocuments) > 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("\n  Missing documents:\n")
		for _, doc := range rec.MissingDocuments {
			fmt.Printf("    - %s\n", yellow(doc))
		}
	}
	if len(rec.AlternativeModes) > 0 {
		fmt.Printf("\n  Alternatives:")
		for _, mode := range rec.AlternativeModes {
			fmt.Printf(" %s", mode)
		}
		fmt.Println()
	}
	fmt.Println()
}

// confidenceLabel colors a confidence score by strength.
func confidenceLabel(score float64) string {
	text := percent(score)
	switch {
	case score >= 0.8:
		return color.New(color.FgGreen).Sprint(text)
	case score >= 0.5:
		return color.New(color.FgYellow).Sprint(text)
	default:
		return color.New(color.FgRed).Sprint(text)
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
