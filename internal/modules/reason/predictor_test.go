package reason

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsundoku-app/core/internal/pkg/genai"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	text  string
	err   error
	calls int
	last  genai.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req genai.Request) (string, error) {
	f.calls++
	f.last = req
	return f.text, f.err
}

func newTestPredictor(gen genai.Generator) *Predictor {
	p := NewPredictor(gen, zap.NewNop())
	p.randIntn = func(n int) int { return 0 }
	return p
}

func TestDetermineStage(t *testing.T) {
	tests := []struct {
		bookNumber int
		want       Stage
	}{
		{1, Stage1},
		{2, Stage2},
		{3, Stage2},
		{4, Stage3},
		{100, Stage3},
		{0, Stage1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, determineStage(tt.bookNumber), "book number %d", tt.bookNumber)
	}
}

func TestBuildPromptSections(t *testing.T) {
	history := []string{"前作が面白かった", "", "積読を増やしたかった"}

	t.Run("stage1 excludes personal history", func(t *testing.T) {
		prompt := buildPrompt("Learning Go", "Jon Bodner", "Go入門", history, Stage1)
		assert.Contains(t, prompt, "【本の情報】")
		assert.Contains(t, prompt, "タイトル: Learning Go")
		assert.Contains(t, prompt, "著者: Jon Bodner")
		assert.Contains(t, prompt, "説明: Go入門")
		assert.Contains(t, prompt, "【一般的なパターン例（参考）】")
		assert.NotContains(t, prompt, "【このユーザーの過去の購入理由（参考）】")
	})

	t.Run("stage2 includes both blocks", func(t *testing.T) {
		prompt := buildPrompt("Learning Go", "", "", history, Stage2)
		assert.Contains(t, prompt, "【一般的なパターン例（参考）】")
		assert.Contains(t, prompt, "【このユーザーの過去の購入理由（参考）】")
		assert.Contains(t, prompt, "前作が面白かった")
		assert.NotContains(t, prompt, "著者:")
		assert.NotContains(t, prompt, "説明:")
	})

	t.Run("stage3 keeps general examples", func(t *testing.T) {
		prompt := buildPrompt("Learning Go", "", "", history, Stage3)
		assert.Contains(t, prompt, "【一般的なパターン例（参考）】")
		assert.Contains(t, prompt, "【このユーザーの過去の購入理由（参考）】")
	})

	t.Run("empty history omits personal block", func(t *testing.T) {
		prompt := buildPrompt("Learning Go", "", "", nil, Stage3)
		assert.NotContains(t, prompt, "【このユーザーの過去の購入理由（参考）】")
	})

	t.Run("closing instruction", func(t *testing.T) {
		prompt := buildPrompt("Learning Go", "", "", nil, Stage1)
		assert.True(t, strings.HasSuffix(prompt, "（50文字以内で）簡潔に推測してください。"))
	})
}

func TestRecentReasonsCapsAtFive(t *testing.T) {
	in := []string{"a", "", "b", "c", "d", "e", "f", "g"}
	got := recentReasons(in)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestPredictReturnsModelOutput(t *testing.T) {
	gen := &fakeGenerator{text: "技術書のレビューが良かったから"}
	p := newTestPredictor(gen)

	got := p.Predict(context.Background(), 0, "Learning Go", "Jon Bodner", "", nil)
	assert.Equal(t, "技術書のレビューが良かったから", got)
	require.Equal(t, 1, gen.calls)
	assert.Equal(t, predictMaxTokens, gen.last.MaxTokens)
	assert.InDelta(t, predictTemperature, gen.last.Temperature, 0.0001)
}

func TestPredictFallbacks(t *testing.T) {
	tests := []struct {
		name          string
		userBookCount int
		want          string
	}{
		{"stage1 random pattern", 0, generalPatterns[0]},
		{"stage2 fixed phrase", 1, stage2Fallback},
		{"stage2 upper bound", 2, stage2Fallback},
		{"stage3 fixed phrase", 3, stage3Fallback},
		{"stage3 large count", 42, stage3Fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{text: ""}
			p := newTestPredictor(gen)

			got := p.Predict(context.Background(), tt.userBookCount, "Learning Go", "", "", []string{"過去の理由"})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredictFallbackOnPersistentError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	p := newTestPredictor(gen)
	p.retries = 0

	got := p.Predict(context.Background(), 5, "Learning Go", "", "", nil)
	assert.Equal(t, stage3Fallback, got)
	assert.Equal(t, 1, gen.calls)
}
