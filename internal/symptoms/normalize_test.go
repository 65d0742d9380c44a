package symptoms

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/clinify/backend/internal/catalog"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases and splits", "Sore  Throat\tand FEVER", []string{"sore", "throat", "and", "fever"}},
		{"keeps inner hyphen", "a follow-up visit", []string{"a", "follow-up", "visit"}},
		{"edge hyphens separate", "-headache- and fever-", []string{"headache", "and", "fever"}},
		{"spaced hyphen", "cough - fever", []string{"cough", "fever"}},
		{"strips punctuation", "don't! (really), ok?", []string{"dont", "really", "ok"}},
		{"digits around hyphen", "covid-19", []string{"covid-19"}},
		{"empty", "  ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestNormalize_FoldsCompatibilityForms(t *testing.T) {
	// fullwidth letters fold to ASCII under NFKC
	assert.Equal(t, "fever", Normalize("ＦＥＶＥＲ"))
}

func TestWindow_CountsRunes(t *testing.T) {
	tests := []struct {
		name string
		s    string
		word string
		want string
	}{
		{"ascii", "abcde fever vwxyz", "fever", "de fever vw"},
		{"accented", "ééééé fever ééééé", "fever", "éé fever éé"},
		{"cjk", "頭痛がひどい fever 熱がある", "fever", "どい fever 熱が"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := strings.Index(tt.s, tt.word)
			got := window(tt.s, idx, idx+len(tt.word), 3)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestWindow_ClipsToBounds(t *testing.T) {
	assert.Equal(t, "fever", window("fever", 0, 5, 30))
}

func TestRegistry_Variants(t *testing.T) {
	cat, err := catalog.New(catalog.Condition{
		Name:     "X",
		Symptoms: []string{"Chest Pain", "difficulty sleeping", "follow-up fever"},
	})
	assert.NoError(t, err)

	r := NewRegistry(cat)

	chest := r.Variants("chest pain")
	assert.Equal(t, "chest pain", chest[0])
	assert.Contains(t, chest, "pain in my chest")
	assert.Contains(t, chest, "chestpain")
	assert.Contains(t, chest, "chest-pain")
	assert.Contains(t, chest, "chest ache")

	assert.Contains(t, r.Variants("difficulty sleeping"), "trouble sleeping")
	assert.Contains(t, r.Variants("follow-up fever"), "follow up fever")

	symptoms := r.Symptoms()
	assert.Equal(t, "headache", symptoms[0])
	assert.Equal(t, "follow-up fever", symptoms[len(symptoms)-1])
}

func TestRegistry_NoDuplicateVariants(t *testing.T) {
	cat, err := catalog.New(catalog.Condition{Name: "X", Symptoms: []string{"headache"}})
	assert.NoError(t, err)

	seen := map[string]bool{}
	for _, v := range NewRegistry(cat).Variants("headache") {
		assert.False(t, seen[v], "duplicate variant %q", v)
		seen[v] = true
	}
}
