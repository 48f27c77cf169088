package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_Render(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	html, err := tm.Render(TemplateOfferIssued, TemplateData{
		Title:   "Offer issued",
		Message: "Acme has issued you an offer for SDE.",
		Details: map[string]string{"Role": "SDE"},
		Link:    "https://files.example.com/offer.pdf",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Offer issued")
	assert.Contains(t, html, "Acme has issued you an offer for SDE.")
	assert.Contains(t, html, "<b>Role</b>")
	assert.Contains(t, html, "https://files.example.com/offer.pdf")
}

func TestTemplateManager_UnknownFallsBackToGeneric(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	html, err := tm.Render("missing", TemplateData{Title: "Hello", Message: "<script>x</script>"})
	require.NoError(t, err)

	assert.Contains(t, html, "Hello")
	assert.NotContains(t, html, "<script>")
}
