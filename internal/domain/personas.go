package domain

import (
	"fmt"
	"strings"
)

// PersonaID identifies one of the fixed experts. The set is closed:
// only the four constants below are valid.
type PersonaID string

const (
	PersonaCouncil    PersonaID = "COUNCIL"
	PersonaEmotion    PersonaID = "EMOTION"
	PersonaZodiac     PersonaID = "ZODIAC"
	PersonaNumerology PersonaID = "NUMEROLOGY"
)

// Valid reports whether id is one of the known personas.
func (id PersonaID) Valid() bool {
	switch id {
	case PersonaCouncil, PersonaEmotion, PersonaZodiac, PersonaNumerology:
		return true
	}
	return false
}

// IsCouncil reports whether id is the composite persona.
func (id PersonaID) IsCouncil() bool {
	return id == PersonaCouncil
}

// ParsePersonaID accepts the canonical ids case-insensitively.
func ParsePersonaID(s string) (PersonaID, error) {
	id := PersonaID(strings.ToUpper(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPersona, s)
	}
	return id, nil
}

// InsightPersonas returns the three non-council personas in the fixed
// order used for both council replies and journal insights.
func InsightPersonas() []PersonaID {
	return []PersonaID{PersonaEmotion, PersonaZodiac, PersonaNumerology}
}

// Persona is an immutable catalog entry.
type Persona struct {
	ID                PersonaID `json:"id"`
	DisplayName       string    `json:"display_name"`
	Title             string    `json:"title"`
	AvatarRef         string    `json:"avatar_ref"`
	ColorTag          string    `json:"color_tag"`
	Description       string    `json:"description"`
	Greeting          string    `json:"greeting"`
	SystemInstruction string    `json:"-"`
}

var personaCatalog = []Persona{
	{
		ID:                PersonaCouncil,
		DisplayName:       "命運議會",
		Title:             "全方位指引",
		AvatarRef:         "https://images.unsplash.com/photo-1518709268805-4e9042af9f23?q=80&w=100&auto=format&fit=crop",
		ColorTag:          "bg-gradient-to-r from-rose-600 via-indigo-600 to-amber-600",
		Description:       "三位專家合而為一，為您提供最全面的命運解讀。",
		Greeting:          "歡迎來到命運議會。在這裡，我們將結合情感、星象與命理，共同指引您的方向。請問有什麼我們能為您分憂的？",
		SystemInstruction: `你同時扮演情感專家 Luna、星座專家 Astro、命理專家玄清大師。請針對使用者的問題，分別給出三段建議。回應格式請嚴格遵守 JSON：{ "emotion": "...", "zodiac": "...", "numerology": "..." }`,
	},
	{
		ID:                PersonaEmotion,
		DisplayName:       "Luna",
		Title:             "情感療癒師",
		AvatarRef:         "https://picsum.photos/seed/luna/200",
		ColorTag:          "bg-rose-500",
		Description:       "溫柔細膩，傾聽你內心深處的聲音。",
		Greeting:          "你好，親愛的。今天的心情還好嗎？不論喜憂，我都願意陪伴你。",
		SystemInstruction: "你是一位名為 Luna 的情感專家。你非常感性、溫柔、有同理心。你的回答應該充滿關懷，幫助使用者排解情緒，提供情感上的建議。",
	},
	{
		ID:                PersonaZodiac,
		DisplayName:       "Astro",
		Title:             "星座占星導師",
		AvatarRef:         "https://picsum.photos/seed/astro/200",
		ColorTag:          "bg-indigo-500",
		Description:       "洞悉星辰運行，解讀宇宙給你的啟示。",
		Greeting:          "星辰已在命盤中就位。你想從宇宙的運行中獲得什麼指引？",
		SystemInstruction: "你是一位名為 Astro 的星座占卜專家。你對西方占星學有深厚造詣。你的回答應該結合星象、相位、宮位等術語，並提供充滿神秘感與前瞻性的建議。",
	},
	{
		ID:                PersonaNumerology,
		DisplayName:       "玄清大師",
		Title:             "易經命理專家",
		AvatarRef:         "https://picsum.photos/seed/master/200",
		ColorTag:          "bg-amber-600",
		Description:       "推演八字乾坤，指引人生進退之道。",
		Greeting:          "善哉。凡事皆有定數，亦有轉機。且看今日卦象如何。",
		SystemInstruction: "你是一位名為玄清大師的東方命理專家。你擅長易經、八字、紫微斗數。你的語氣應該沉穩、充滿古老智慧，經常使用成語或哲學思維來解構人生難題。",
	},
}

// Personas returns a copy of the catalog in display order.
func Personas() []Persona {
	out := make([]Persona, len(personaCatalog))
	copy(out, personaCatalog)
	return out
}

// Lookup returns the persona registered under id.
func Lookup(id PersonaID) (Persona, bool) {
	for _, p := range personaCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// MustLookup is Lookup for ids already known to be valid.
func MustLookup(id PersonaID) Persona {
	p, ok := Lookup(id)
	if !ok {
		panic(fmt.Sprintf("domain: persona %q not in catalog", id))
	}
	return p
}
