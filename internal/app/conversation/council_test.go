package conversation_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/PabloGalante/soul-oracle/internal/app/conversation"
	"github.com/PabloGalante/soul-oracle/internal/domain"
)

func TestParseCouncilReply(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    conversation.CouncilReply
		wantErr bool
	}{
		{
			name: "plain object",
			in:   `{"emotion":"e","zodiac":"z","numerology":"n"}`,
			want: conversation.CouncilReply{Emotion: "e", Zodiac: "z", Numerology: "n"},
		},
		{
			name: "fenced object",
			in:   "```json\n{\"emotion\":\"e\",\"zodiac\":\"z\",\"numerology\":\"n\"}\n```",
			want: conversation.CouncilReply{Emotion: "e", Zodiac: "z", Numerology: "n"},
		},
		{name: "not json", in: "the stars are silent", wantErr: true},
		{name: "missing field", in: `{"emotion":"e","zodiac":"z"}`, wantErr: true},
		{name: "blank field", in: `{"emotion":"e","zodiac":"  ","numerology":"n"}`, wantErr: true},
		{name: "wrong type", in: `{"emotion":1,"zodiac":"z","numerology":"n"}`, wantErr: true},
		{name: "array", in: `["e","z","n"]`, wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conversation.ParseCouncilReply(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrMalformedResponse) {
					t.Fatalf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRevealPlanOrderAndRestart(t *testing.T) {
	n := 0
	newID := func() domain.MessageID {
		n++
		return domain.MessageID(fmt.Sprintf("id-%d", n))
	}
	reply := conversation.CouncilReply{Emotion: "e", Zodiac: "z", Numerology: "n"}

	plan := conversation.NewRevealPlan(reply, 600*time.Millisecond, time.UnixMilli(42), newID)

	want := []struct {
		persona domain.PersonaID
		text    string
	}{
		{domain.PersonaEmotion, "e"},
		{domain.PersonaZodiac, "z"},
		{domain.PersonaNumerology, "n"},
	}

	for round := 0; round < 2; round++ {
		i := 0
		for step := range plan.Steps() {
			if step.Delay != 600*time.Millisecond {
				t.Fatalf("unexpected delay %v", step.Delay)
			}
			m := step.Message
			if m.Role != domain.RoleAssistant || m.PersonaID != want[i].persona || m.Text != want[i].text {
				t.Fatalf("step %d: unexpected message %+v", i, m)
			}
			if m.CreatedAt != 42 {
				t.Fatalf("unexpected timestamp %d", m.CreatedAt)
			}
			i++
		}
		if i != 3 {
			t.Fatalf("round %d: expected 3 steps, got %d", round, i)
		}
	}
}

func TestRevealPlanStopsEarly(t *testing.T) {
	plan := conversation.NewRevealPlan(conversation.FallbackCouncilReply, 0, time.Now(), func() domain.MessageID { return "x" })

	seen := 0
	for range plan.Steps() {
		seen++
		break
	}
	if seen != 1 {
		t.Fatalf("expected iteration to stop after one step, got %d", seen)
	}
}
