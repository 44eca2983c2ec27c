// Package analyzer turns a review corpus into structured insights by way of
// the generation collaborator.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/ahmadsufyan455/star-one/pkg/llm"
	"github.com/ahmadsufyan455/star-one/pkg/model"
	"github.com/ahmadsufyan455/star-one/pkg/parser"
	"github.com/ahmadsufyan455/star-one/pkg/prompts"
)

var (
	// ErrGeneration means the generation collaborator could not be reached
	// or returned a failure.
	ErrGeneration = errors.New("generation unavailable")

	// ErrParse means the collaborator responded but no well-formed JSON
	// object could be recovered from its output.
	ErrParse = errors.New("unparseable model output")
)

// maxConcurrent caps in-flight generation calls to keep provider usage and
// memory bounded.
const maxConcurrent = 5

type Analyzer struct {
	llm llm.LLM
	sem *semaphore.Weighted
}

func New(l llm.LLM) *Analyzer {
	return &Analyzer{
		llm: l,
		sem: semaphore.NewWeighted(maxConcurrent),
	}
}

// Extract prompts the model with the corpus text and recovers a structured
// insight object from its output.
func (a *Analyzer) Extract(ctx context.Context, corpusText string) (*model.Insights, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	defer a.sem.Release(1)

	prompt := prompts.BuildReviewInsightPrompt(corpusText)

	raw, err := a.llm.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	insights, err := parser.ParseInsights(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return insights, nil
}
