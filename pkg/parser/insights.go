// Package parser recovers a structured insight object from model output.
// The output is not guaranteed to be pure JSON: it may be wrapped in a
// markdown fence or surrounded by prose, so extraction runs an ordered chain
// of strategies before parsing.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ahmadsufyan455/star-one/pkg/model"
)

// ErrNoJSON means no candidate JSON object could be located in the output.
var ErrNoJSON = errors.New("no JSON object in model output")

var fencedRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractJSON locates the JSON object span in raw model output. It tries a
// fenced ```json block first, then the first-to-last brace span, and fails
// with ErrNoJSON when neither matches.
func ExtractJSON(raw string) (string, error) {
	if m := fencedRe.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", ErrNoJSON
	}
	return raw[start : end+1], nil
}

// ParseInsights recovers an Insights object from raw model output. A
// partially populated object is a success: absent fields default to empty
// collections and a placeholder summary. Only a missing or malformed JSON
// object is an error.
func ParseInsights(raw string) (*model.Insights, error) {
	text, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var insights model.Insights
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}

	if insights.TopComplaints == nil {
		insights.TopComplaints = []string{}
	}
	if insights.FeatureRequests == nil {
		insights.FeatureRequests = []string{}
	}
	if insights.AppIdeas == nil {
		insights.AppIdeas = []model.Idea{}
	}
	if insights.SentimentSummary == "" {
		insights.SentimentSummary = "Analysis completed"
	}
	return &insights, nil
}
