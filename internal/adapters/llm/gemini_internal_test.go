package llm

import (
	"testing"

	"google.golang.org/genai"

	"github.com/PabloGalante/soul-oracle/internal/domain"
)

func TestGeminiSchemaRequiresEveryField(t *testing.T) {
	shape := &domain.ObjectShape{Name: "council", Fields: []string{"emotion", "zodiac", "numerology"}}

	s := geminiSchema(shape)

	if s.Type != genai.TypeObject {
		t.Fatalf("expected object schema, got %v", s.Type)
	}
	if len(s.Properties) != 3 || len(s.Required) != 3 {
		t.Fatalf("expected 3 required properties, got %d/%d", len(s.Properties), len(s.Required))
	}
	for _, f := range shape.Fields {
		if p, ok := s.Properties[f]; !ok || p.Type != genai.TypeString {
			t.Fatalf("field %s missing or not a string", f)
		}
	}
}

func TestGeminiRole(t *testing.T) {
	if geminiRole(domain.RoleAssistant) != genai.RoleModel {
		t.Fatalf("assistant must map to model role")
	}
	if geminiRole(domain.RoleUser) != genai.RoleUser {
		t.Fatalf("user must map to user role")
	}
}
