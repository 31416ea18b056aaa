package reason

import "strings"

// Stage is the learning tier for a user, based on how many books they have
// registered. Early stages lean on generic examples, later stages on the
// user's own history.
type Stage int

const (
	Stage1 Stage = iota + 1 // first book: general examples only
	Stage2                  // books 2-3: general + personal history
	Stage3                  // book 4 and later: personal history dominant
)

func (s Stage) String() string {
	switch s {
	case Stage1:
		return "stage_1"
	case Stage2:
		return "stage_2"
	case Stage3:
		return "stage_3"
	}
	return "unknown"
}

type stageConfig struct {
	personalWeight int
	generalWeight  int
}

// stageTable is read-only after init. The weights only gate whether a prompt
// section is included (>0), they are never combined numerically.
var stageTable = map[Stage]stageConfig{
	Stage1: {personalWeight: 0, generalWeight: 100},
	Stage2: {personalWeight: 30, generalWeight: 70},
	Stage3: {personalWeight: 80, generalWeight: 20},
}

// generalPatterns are fixed example reasons shown to the model, and the
// fallback pool for first-time users.
var generalPatterns = []string{
	"仕事のスキルアップのため",
	"新しい知識を身につけたかった",
	"友人に勧められた",
	"趣味で読みたいと思った",
	"話題の本だったから",
	"レビューが良かったので購入した",
}

const (
	stage2Fallback = "新しい知識を身につけたかった"
	stage3Fallback = "過去の傾向から判断した理由"
)

// determineStage maps the ordinal position of the book being added to a
// stage. Position 1 is the user's first book.
func determineStage(bookNumber int) Stage {
	switch {
	case bookNumber <= 1:
		return Stage1
	case bookNumber <= 3:
		return Stage2
	default:
		return Stage3
	}
}

// maxPastReasons caps how much personal history goes into the prompt.
const maxPastReasons = 5

// buildPrompt composes the generation prompt for one prediction. The book
// metadata block is always present; the general examples and personal
// history blocks are gated by the stage weights.
func buildPrompt(title, author, description string, pastReasons []string, stage Stage) string {
	cfg := stageTable[stage]

	var b strings.Builder
	b.WriteString("以下の本について、ユーザーが購入した理由を日本語で1文で簡潔に推測してください。\n\n")

	b.WriteString("【本の情報】\n")
	b.WriteString("タイトル: " + title + "\n")
	if strings.TrimSpace(author) != "" {
		b.WriteString("著者: " + author + "\n")
	}
	if strings.TrimSpace(description) != "" {
		b.WriteString("説明: " + description + "\n")
	}
	b.WriteString("\n")

	if cfg.generalWeight > 0 {
		b.WriteString("【一般的なパターン例（参考）】\n")
		b.WriteString(strings.Join(generalPatterns, "\n"))
		b.WriteString("\n\n")
	}

	if cfg.personalWeight > 0 {
		if reasons := recentReasons(pastReasons); len(reasons) > 0 {
			b.WriteString("【このユーザーの過去の購入理由（参考）】\n")
			b.WriteString(strings.Join(reasons, "\n"))
			b.WriteString("\n\n")
		}
	}

	b.WriteString("\n上記の情報を参考に、このユーザーの購入理由を（50文字以内で）簡潔に推測してください。")
	return b.String()
}

// recentReasons keeps the first maxPastReasons non-empty entries. Callers
// pass history newest first.
func recentReasons(pastReasons []string) []string {
	out := make([]string, 0, maxPastReasons)
	for _, r := range pastReasons {
		if strings.TrimSpace(r) == "" {
			continue
		}
		out = append(out, r)
		if len(out) == maxPastReasons {
			break
		}
	}
	return out
}
