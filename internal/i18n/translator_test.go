package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateCatalog(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	assert.Equal(t, "File uploaded successfully", tr.T("en", "file.uploaded"))
	assert.Equal(t, "Fichier téléversé avec succès", tr.T("fr", "file.uploaded"))
	assert.Equal(t, "Idosiye yoherejwe neza", tr.T("rw", "file.uploaded"))

	// Неизвестная локаль падает обратно на en
	assert.Equal(t, "File uploaded successfully", tr.T("de", "file.uploaded"))

	// Неизвестный ключ возвращается как есть
	assert.Equal(t, "no.such.key", tr.T("en", "no.such.key"))
}

func TestTranslateValidation(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	type payload struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required,oneof=teacher student"`
	}

	verr := tr.Validate().Struct(payload{Email: "not-an-email", Role: "admin"})
	require.Error(t, verr)

	fields := tr.TranslateValidation("en", verr)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "role")
}

func TestResolveLocale(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"en", "en"},
		{"fr", "fr"},
		{"rw", "rw"},
		{"fr-FR,fr;q=0.9,en;q=0.8", "fr"},
		{"de-DE,de;q=0.9", "en"},
		{"RW", "rw"},
		{"de;q=0.9, rw;q=0.8", "rw"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveLocale(tt.header), "header %q", tt.header)
	}
}
