package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/jon4hz/leafcheck/internal/auth"
	"github.com/jon4hz/leafcheck/internal/catalogue"
	"github.com/jon4hz/leafcheck/internal/classify"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/pages"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, data PageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, Layout, data))
	return buf.String()
}

func pageData(state auth.State, requested string, visibility config.PageVisibility) PageData {
	ctrl := pages.NewController(visibility)
	state, view := ctrl.Navigate(state, requested)
	return PageData{
		View:             view,
		Nav:              ctrl.Pages(state),
		State:            state,
		IdentifierLabel:  "Mobile Number",
		IdentifierLength: 11,
		MaxUploadSize:    10 << 20,
	}
}

func TestTemplates_AllPagesRender(t *testing.T) {
	user := auth.State{Authenticated: true, Identifier: "01712345678"}
	for _, page := range []string{"home", "disease-recognition", "login", "register", "admin-dashboard", "about"} {
		t.Run(page, func(t *testing.T) {
			out := render(t, pageData(user, page, config.PageVisibilityListed))
			assert.Contains(t, out, "<nav>")
			assert.Contains(t, out, "Logged in as 01712345678")
		})
	}
}

func TestTemplates_Recognition(t *testing.T) {
	data := pageData(auth.State{Authenticated: true, Identifier: "x"}, "disease-recognition", config.PageVisibilityListed)
	display, err := catalogue.MustNew(config.LanguageEnglish).Display(3)
	require.NoError(t, err)
	data.Result = &classify.Result{Display: display}

	out := render(t, data)
	assert.Contains(t, out, "Model is Predicting it&#39;s a Apple healthy")
	assert.Contains(t, out, `enctype="multipart/form-data"`)
	assert.Contains(t, out, "10 MB")
}

func TestTemplates_AdminLoginForm(t *testing.T) {
	out := render(t, pageData(auth.Anonymous(), "admin-dashboard", config.PageVisibilityListed))
	assert.Contains(t, out, "Login as Admin")
	assert.NotContains(t, out, "User Information")
}

func TestTemplates_AdminDashboard(t *testing.T) {
	data := pageData(auth.State{Admin: true}, "admin-dashboard", config.PageVisibilityListed)
	now := time.Now()
	data.Admin = &AdminData{
		Submissions: []SubmissionView{
			{
				Submission:   store.Submission{Identifier: "01712345678", ImagePath: "uploaded_images/gone.jpg", Timestamp: now},
				Text:         "User 01712345678 uploaded image uploaded_images/gone.jpg",
				ImageMissing: true,
			},
		},
		Users: []UserView{{Identifier: "01712345678", Text: "Mobile: 01712345678, Name: Rahim Uddin"}},
		Stats: store.Stats{TotalAccounts: 1, TotalSubmissions: 1, LastSubmission: &now},
	}

	out := render(t, data)
	assert.Contains(t, out, "Image not found at path: uploaded_images/gone.jpg")
	assert.Contains(t, out, "Mobile: 01712345678, Name: Rahim Uddin")
	assert.NotContains(t, out, "No predictions available.")
}

func TestTemplates_AdminDashboardEmpty(t *testing.T) {
	data := pageData(auth.State{Admin: true}, "admin-dashboard", config.PageVisibilityListed)
	data.Admin = &AdminData{}
	assert.Contains(t, render(t, data), "No predictions available.")
}

func TestTemplates_Notices(t *testing.T) {
	data := pageData(auth.Anonymous(), "disease-recognition", config.PageVisibilityListed)
	data.Notices = []pages.Notice{pages.Success("You have logged out successfully.")}

	out := render(t, data)
	assert.Contains(t, out, "Please log in to access Disease Recognition.")
	assert.Contains(t, out, "You have logged out successfully.")
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatFileSize(-1))
	assert.Equal(t, "1.0 kB", FormatFileSize(1000))
}
