// Package web holds the HTML views.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jon4hz/leafcheck/internal/auth"
	"github.com/jon4hz/leafcheck/internal/classify"
	"github.com/jon4hz/leafcheck/internal/pages"
	"github.com/jon4hz/leafcheck/internal/scheduler"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/mergestat/timediff"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Layout is the name of the root template.
const Layout = "layout"

// PageData is passed to every view.
type PageData struct {
	View    pages.View
	Nav     []pages.Entry
	State   auth.State
	Notices []pages.Notice

	IdentifierLabel  string
	IdentifierLength int
	MaxUploadSize    int64

	Result *classify.Result
	Admin  *AdminData
}

// AdminData is shown on the admin dashboard.
type AdminData struct {
	Submissions []SubmissionView
	Users       []UserView
	Stats       store.Stats
	Jobs        []scheduler.JobInfo
}

// SubmissionView is one line of the prediction log.
type SubmissionView struct {
	store.Submission
	Text         string
	ImageURL     string
	ImageMissing bool
}

// UserView is one line of the user list.
type UserView struct {
	Identifier string
	Text       string
}

// FormatRelativeTime formats a time.Time as a relative time string like "3 days ago".
func FormatRelativeTime(t time.Time) string {
	return timediff.TimeDiff(t)
}

// FormatFileSize formats a file size in bytes to a human-readable string.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(bytes))
}

var funcs = template.FuncMap{
	"ago":      FormatRelativeTime,
	"bytes":    FormatFileSize,
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
	"eqPage":   func(a auth.Page, b string) bool { return string(a) == b },
}

// Templates parses all views.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}
