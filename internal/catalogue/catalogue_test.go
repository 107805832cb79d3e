package catalogue

import (
	"strings"
	"testing"

	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueSizes(t *testing.T) {
	assert.Equal(t, 38, MustNew(config.LanguageEnglish).Len())
	assert.Equal(t, 39, MustNew(config.LanguageBengali).Len())

	_, err := New("fr")
	assert.Error(t, err)
}

func TestEveryIndexResolves(t *testing.T) {
	for _, lang := range []config.Language{config.LanguageEnglish, config.LanguageBengali} {
		c := MustNew(lang)
		for i := range c.Len() {
			d, err := c.Display(i)
			require.NoError(t, err, "language %s index %d", lang, i)
			assert.NotEmpty(t, d.Name)
			assert.NotEmpty(t, d.Text)
			assert.Equal(t, i, d.Index)
		}
	}
}

func TestDisplay_PlainEntryHasNoDetails(t *testing.T) {
	c := MustNew(config.LanguageEnglish)

	d, err := c.Display(3)
	require.NoError(t, err)
	assert.Equal(t, "Apple healthy", d.Name)
	assert.Empty(t, d.Cause)
	assert.Empty(t, d.Remedy)
	assert.False(t, d.HasDetails())
	assert.Equal(t, "Model is Predicting it's a Apple healthy", d.Text)
}

func TestDisplay_StructuredEntry(t *testing.T) {
	c := MustNew(config.LanguageBengali)

	d, err := c.Display(0)
	require.NoError(t, err)
	assert.Equal(t, "আপেল স্ক্যাব", d.Name)
	assert.NotEmpty(t, d.Cause)
	assert.NotEmpty(t, d.Remedy)
	assert.True(t, strings.HasPrefix(d.Text, "রোগ: আপেল স্ক্যাব\n\nকেন হয়: "))
	assert.Contains(t, d.Text, "\n\nপ্রতিকার: ")

	// healthy entries have no cause, the sweet potato slots mark it with ---
	healthy, err := c.Display(3)
	require.NoError(t, err)
	assert.Empty(t, healthy.Cause)
	assert.NotEmpty(t, healthy.Remedy)

	sweetPotato, err := c.Display(28)
	require.NoError(t, err)
	assert.Empty(t, sweetPotato.Cause)
	assert.Contains(t, sweetPotato.Text, "কেন হয়: ---")
}

func TestDisplay_OutOfRange(t *testing.T) {
	c := MustNew(config.LanguageEnglish)
	for _, idx := range []int{-1, 38, 1000} {
		_, err := c.Display(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
}

func TestHumanizeLabel(t *testing.T) {
	tests := map[string]string{
		"Apple___healthy":                               "Apple healthy",
		"Corn_(maize)___Common_rust_":                   "Corn (maize) Common rust",
		"Pepper,_bell___Bacterial_spot":                 "Pepper, bell Bacterial spot",
		"Tomato___Spider_mites Two-spotted_spider_mite": "Tomato Spider mites Two-spotted spider mite",
	}
	for raw, want := range tests {
		assert.Equal(t, want, HumanizeLabel(raw), raw)
	}
}

func TestEntriesIsACopy(t *testing.T) {
	c := MustNew(config.LanguageEnglish)
	entries := c.Entries()
	entries[0].Name = "changed"

	e, err := c.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, "Apple Apple scab", e.Name)
}
