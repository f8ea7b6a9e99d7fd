package domain

import "fmt"

// Mood is the emoji attached to a journal entry.
type Mood string

const (
	MoodHappy     Mood = "😊"
	MoodSad       Mood = "😔"
	MoodThinking  Mood = "🤔"
	MoodAngry     Mood = "😡"
	MoodEnergetic Mood = "🌟"
	MoodTired     Mood = "😴"
)

// DefaultMood is used when a submission carries no mood.
const DefaultMood = MoodHappy

// UntitledJournalTitle replaces a blank entry title.
const UntitledJournalTitle = "無標題隨筆"

// Moods returns the selectable moods in display order.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodSad, MoodThinking, MoodAngry, MoodEnergetic, MoodTired}
}

func (m Mood) Valid() bool {
	for _, v := range Moods() {
		if v == m {
			return true
		}
	}
	return false
}

// ParseMood returns DefaultMood for an empty string.
func ParseMood(s string) (Mood, error) {
	if s == "" {
		return DefaultMood, nil
	}
	m := Mood(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMood, s)
	}
	return m, nil
}

// Insights maps a non-council persona to its reflection. Partial maps are valid.
type Insights map[PersonaID]string

// JournalEntry is created once and never edited.
type JournalEntry struct {
	ID       JournalEntryID `json:"id"`
	Date     string         `json:"date"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Mood     Mood           `json:"mood"`
	Insights Insights       `json:"insights,omitempty"`
}

// JournalList is ordered newest first.
type JournalList []JournalEntry

// Prepend returns a new list with e at index 0.
func (l JournalList) Prepend(e JournalEntry) JournalList {
	out := make(JournalList, 0, len(l)+1)
	out = append(out, e)
	return append(out, l...)
}
