package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkillLevelAliases(t *testing.T) {
	tests := []struct {
		in   string
		want SkillLevel
		ok   bool
	}{
		{"Basic", SkillBasic, true},
		{"Básico", SkillBasic, true},
		{" intermedio ", SkillIntermediate, true},
		{"Avanzado", SkillAdvanced, true},
		{"EXPERTO", SkillExpert, true},
		{"Guru", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSkillLevel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSkillUnmarshalNormalizesSpanishLabels(t *testing.T) {
	var s Skill
	err := json.Unmarshal([]byte(`{"id":"s1","name":"Figma","level":"Avanzado","category":"Técnica"}`), &s)
	require.NoError(t, err)

	assert.Equal(t, SkillAdvanced, s.Level)
	assert.Equal(t, CategoryTechnical, s.Category)
}

func TestUnknownEnumValuesAreKept(t *testing.T) {
	var l Language
	err := json.Unmarshal([]byte(`{"id":"l1","name":"Klingon","level":"Fluent"}`), &l)
	require.NoError(t, err)

	assert.Equal(t, LanguageLevel("Fluent"), l.Level)
	assert.False(t, l.Level.Valid())
}

func TestExportFormatExtension(t *testing.T) {
	assert.Equal(t, "pdf", FormatPDF.Extension())
	assert.Equal(t, "html", FormatPrint.Extension())
	assert.Equal(t, "image/jpeg", FormatJPEG.ContentType())
}
