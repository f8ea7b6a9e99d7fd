package conversation

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/PabloGalante/soul-oracle/internal/domain"
)

// DefaultRevealDelay is the pause before each council reply appears.
const DefaultRevealDelay = 600 * time.Millisecond

// CouncilReply holds one reply per expert.
type CouncilReply struct {
	Emotion    string `json:"emotion"`
	Zodiac     string `json:"zodiac"`
	Numerology string `json:"numerology"`
}

// FallbackCouncilReply stands in for the council when the remote call fails.
var FallbackCouncilReply = CouncilReply{
	Emotion:    "通靈失敗",
	Zodiac:     "星象不明",
	Numerology: "天機不可洩漏",
}

// ParseCouncilReply decodes the council's structured reply. Anything that is
// not a JSON object with three non-blank string fields is ErrMalformedResponse.
func ParseCouncilReply(text string) (CouncilReply, error) {
	var raw struct {
		Emotion    *string `json:"emotion"`
		Zodiac     *string `json:"zodiac"`
		Numerology *string `json:"numerology"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return CouncilReply{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	fields := []struct {
		name string
		v    *string
	}{
		{"emotion", raw.Emotion},
		{"zodiac", raw.Zodiac},
		{"numerology", raw.Numerology},
	}
	for _, f := range fields {
		if f.v == nil || strings.TrimSpace(*f.v) == "" {
			return CouncilReply{}, fmt.Errorf("%w: missing field %q", domain.ErrMalformedResponse, f.name)
		}
	}

	return CouncilReply{
		Emotion:    *raw.Emotion,
		Zodiac:     *raw.Zodiac,
		Numerology: *raw.Numerology,
	}, nil
}

// stripCodeFence tolerates a ```json fenced block around the object.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Text returns the reply attributed to a sub-persona.
func (r CouncilReply) Text(id domain.PersonaID) string {
	switch id {
	case domain.PersonaEmotion:
		return r.Emotion
	case domain.PersonaZodiac:
		return r.Zodiac
	case domain.PersonaNumerology:
		return r.Numerology
	}
	return ""
}

// RevealStep is one council message and the pause to wait before showing it.
type RevealStep struct {
	Delay   time.Duration
	Message domain.ChatMessage
}

// RevealPlan is the ordered sequence of council arrivals:
// emotion, then zodiac, then numerology.
type RevealPlan []RevealStep

// NewRevealPlan builds the plan for a parsed council reply.
func NewRevealPlan(reply CouncilReply, delay time.Duration, now time.Time, newID func() domain.MessageID) RevealPlan {
	ids := domain.InsightPersonas()
	plan := make(RevealPlan, 0, len(ids))
	for _, id := range ids {
		plan = append(plan, RevealStep{
			Delay: delay,
			Message: domain.ChatMessage{
				ID:        newID(),
				Role:      domain.RoleAssistant,
				Text:      reply.Text(id),
				PersonaID: id,
				CreatedAt: now.UnixMilli(),
			},
		})
	}
	return plan
}

// Steps yields the plan one step at a time. It can be ranged over repeatedly.
func (p RevealPlan) Steps() iter.Seq[RevealStep] {
	return func(yield func(RevealStep) bool) {
		for _, s := range p {
			if !yield(s) {
				return
			}
		}
	}
}
