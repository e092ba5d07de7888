package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	templates := catalog.List()
	require.NotEmpty(t, templates)
	assert.Equal(t, "Professor Meeting Request", templates[0].Name)

	tmpl, ok := catalog.Get("2")
	require.True(t, ok)
	assert.Equal(t, "academic", tmpl.Category)

	_, ok = catalog.Get("missing")
	assert.False(t, ok)
}

func TestRenderFillsKnownPlaceholders(t *testing.T) {
	tmpl := Template{
		Subject: "Request for Assignment Extension - [ASSIGNMENT NAME]",
		Body:    "Dear Professor [NAME],\nDue on [DUE DATE].\n[YOUR NAME]",
	}

	out := tmpl.Render(map[string]string{
		"ASSIGNMENT NAME": "Lab 3",
		"NAME":            "Curie",
		"YOUR NAME":       "Sam",
	})

	assert.Equal(t, "Request for Assignment Extension - Lab 3", out.Subject)
	assert.Equal(t, "Dear Professor Curie,\nDue on [DUE DATE].\nSam", out.Body)
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	_, err := ParseCatalog([]byte("- id: a\n  name: one\n- id: a\n  name: two\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("- name: no id\n"))
	assert.Error(t, err)
}

func TestConsoleMailer(t *testing.T) {
	var out bytes.Buffer
	mailer := NewConsoleMailer(&out, Address{Name: "StudySync", Email: "noreply@example.com"})

	err := mailer.Send(context.Background(), Message{
		To:      Address{Email: "prof@example.com"},
		Subject: "Hello",
		Body:    "Body text",
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "From: StudySync <noreply@example.com>")
	assert.Contains(t, out.String(), "To: prof@example.com")
	assert.Contains(t, out.String(), "Subject: Hello")
	assert.Len(t, mailer.Sent(), 1)
}
