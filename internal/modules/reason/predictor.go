// Package reason predicts why a user bought a book, using staged prompts
// against a text-generation model with deterministic offline fallbacks.
package reason

import (
	"context"
	"math/rand"
	"time"

	"github.com/tsundoku-app/core/internal/pkg/genai"
	"go.uber.org/zap"
)

const (
	predictMaxTokens   = 150
	predictTemperature = 0.7
)

// Predictor turns book metadata and user history into a purchase reason.
type Predictor struct {
	gen     genai.Generator
	logger  *zap.Logger
	retries int

	// randIntn is swapped out in tests for a deterministic fallback pick.
	randIntn func(n int) int
}

// NewPredictor builds a predictor on top of a text generator.
func NewPredictor(gen genai.Generator, logger *zap.Logger) *Predictor {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Predictor{
		gen:      gen,
		logger:   logger.Named("ReasonPredictor"),
		retries:  genai.DefaultRetries,
		randIntn: rng.Intn,
	}
}

// Predict guesses a purchase reason. userBookCount is how many books the
// user already has; the book being added counts as the next one.
// pastReasons is the user's purchase-reason history, newest first. The
// result is never empty: any generation failure falls back to a fixed
// stage-dependent phrase.
func (p *Predictor) Predict(ctx context.Context, userBookCount int, title, author, description string, pastReasons []string) string {
	stage := determineStage(userBookCount + 1)
	prompt := buildPrompt(title, author, description, pastReasons, stage)

	text := genai.GenerateWithRetry(ctx, p.gen, genai.Request{
		Prompt:      prompt,
		MaxTokens:   predictMaxTokens,
		Temperature: predictTemperature,
	}, p.retries, p.logger)
	if text != "" {
		return text
	}

	p.logger.Warn("prediction fell back to fixed reason",
		zap.String("stage", stage.String()),
		zap.String("title", title),
	)
	return p.fallbackReason(stage)
}

// fallbackReason never touches the network.
func (p *Predictor) fallbackReason(stage Stage) string {
	switch stage {
	case Stage1:
		return generalPatterns[p.randIntn(len(generalPatterns))]
	case Stage2:
		return stage2Fallback
	default:
		return stage3Fallback
	}
}
