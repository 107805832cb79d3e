// Package catalogue holds the ordered class labels the classifier was trained on.
//
// The position of an entry is the class index returned by the model, so the
// lists must never be sorted or deduplicated.
package catalogue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jon4hz/leafcheck/internal/config"
)

// ErrIndexOutOfRange is returned for class indices outside the catalogue.
var ErrIndexOutOfRange = errors.New("class index out of range")

// absentMarker is used by the structured catalogue for entries without a cause.
const absentMarker = "---"

// Entry is one class label. Plain entries only carry Raw, structured entries carry a name, cause and remedy.
type Entry struct {
	Raw        string
	Name       string
	Cause      string
	Remedy     string
	Structured bool
}

// Display is what gets shown to the user for a prediction.
type Display struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Cause  string `json:"cause,omitempty"`
	Remedy string `json:"remedy,omitempty"`
	// Text is the full message as rendered on the recognition page.
	Text string `json:"text"`
}

// HasDetails reports whether cause or remedy are present.
func (d Display) HasDetails() bool {
	return d.Cause != "" || d.Remedy != ""
}

// Catalogue is an ordered, read-only list of class labels.
type Catalogue struct {
	language config.Language
	entries  []Entry
}

// New returns the catalogue for the given language.
func New(language config.Language) (*Catalogue, error) {
	switch language {
	case config.LanguageEnglish:
		entries := make([]Entry, len(englishLabels))
		for i, raw := range englishLabels {
			entries[i] = Entry{Raw: raw, Name: HumanizeLabel(raw)}
		}
		return &Catalogue{language: language, entries: entries}, nil
	case config.LanguageBengali:
		entries := make([]Entry, len(bengaliLabels))
		for i, l := range bengaliLabels {
			entries[i] = Entry{
				Raw:        l[0],
				Name:       l[0],
				Cause:      l[1],
				Remedy:     l[2],
				Structured: true,
			}
		}
		return &Catalogue{language: language, entries: entries}, nil
	default:
		return nil, fmt.Errorf("no catalogue for language %q", language)
	}
}

// MustNew is like New but panics on an unknown language.
func MustNew(language config.Language) *Catalogue {
	c, err := New(language)
	if err != nil {
		panic(err)
	}
	return c
}

// Language returns the catalogue language.
func (c *Catalogue) Language() config.Language {
	return c.language
}

// Len returns the number of classes.
func (c *Catalogue) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries in class order.
func (c *Catalogue) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Entry returns the entry for a class index.
func (c *Catalogue) Entry(index int) (Entry, error) {
	if index < 0 || index >= len(c.entries) {
		return Entry{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(c.entries))
	}
	return c.entries[index], nil
}

// Display maps a class index to its display record.
func (c *Catalogue) Display(index int) (Display, error) {
	e, err := c.Entry(index)
	if err != nil {
		return Display{}, err
	}

	d := Display{Index: index, Name: e.Name}
	if !e.Structured {
		d.Text = fmt.Sprintf("Model is Predicting it's a %s", e.Name)
		return d, nil
	}

	d.Cause = presentOrEmpty(e.Cause)
	d.Remedy = presentOrEmpty(e.Remedy)
	d.Text = fmt.Sprintf("রোগ: %s\n\nকেন হয়: %s\n\nপ্রতিকার: %s", e.Name, e.Cause, e.Remedy)
	return d, nil
}

func presentOrEmpty(s string) string {
	s = strings.TrimSpace(s)
	if s == absentMarker {
		return ""
	}
	return s
}

// HumanizeLabel turns a raw dataset label like "Apple___Cedar_apple_rust" into "Apple Cedar apple rust".
func HumanizeLabel(raw string) string {
	s := strings.ReplaceAll(raw, "___", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
