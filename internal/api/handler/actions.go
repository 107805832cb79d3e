package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/leafcheck/internal/api/session"
	"github.com/jon4hz/leafcheck/internal/auth"
	"github.com/jon4hz/leafcheck/internal/classify"
	"github.com/jon4hz/leafcheck/internal/inference"
	"github.com/jon4hz/leafcheck/internal/pages"
)

const (
	msgChooseImage  = "Please choose an image."
	msgInvalidImage = "The uploaded file is not a valid image."
	msgTooLarge     = "The uploaded image is too large."
	msgModelDown    = "The recognition model is currently unavailable, please try again later."
	msgPredictError = "Failed to recognize the image."
)

type credentials struct {
	Identifier string `json:"identifier" form:"identifier"`
	Username   string `json:"username" form:"username"`
	Password   string `json:"password" form:"password"`
}

// finish answers a form action: JSON clients get the new state, browsers are redirected to the resulting page.
func (h *Handler) finish(c *gin.Context, status int, state auth.State, notice pages.Notice) {
	if err := session.Save(c, state); err != nil {
		log.Error("Failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   auth.MsgUnexpectedError,
		})
		return
	}

	success := status < http.StatusBadRequest
	if session.WantsJSON(c) {
		resp := gin.H{
			"success": success,
			"state":   state,
		}
		if success {
			resp["message"] = notice.Text
		} else {
			resp["error"] = notice.Text
		}
		c.JSON(status, resp)
		return
	}

	session.Flash(c, notice)
	c.Redirect(http.StatusSeeOther, "/pages/"+string(state.Page))
}

// fail answers a rejected action without changing the page.
func (h *Handler) fail(c *gin.Context, status int, state auth.State, page auth.Page, err error) {
	state.Page = page
	h.finish(c, status, state, pages.Error(auth.Message(err, h.cfg.Identifier)))
}

func authStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidIdentifier), errors.Is(err, auth.ErrPasswordMismatch):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrDuplicateIdentifier):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidAdminCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Register creates a new account.
func (h *Handler) Register(c *gin.Context) {
	state := session.State(c)

	var req auth.Registration
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request",
		})
		return
	}

	if _, err := h.Gate.Register(c.Request.Context(), req); err != nil {
		h.fail(c, authStatus(err), state, auth.PageRegister, err)
		return
	}

	state.Page = auth.PageLogin
	h.finish(c, http.StatusCreated, state, pages.Success(auth.MsgRegistered))
}

// Login authenticates a user or the admin.
func (h *Handler) Login(c *gin.Context) {
	state := session.State(c)

	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request",
		})
		return
	}

	next, err := h.Gate.Login(c.Request.Context(), state, req.Identifier, req.Password)
	if err != nil {
		h.fail(c, authStatus(err), state, auth.PageLogin, err)
		return
	}

	msg := auth.MsgLoggedIn
	if next.Admin && !state.Admin {
		msg = auth.MsgAdminLoggedIn
	}
	h.finish(c, http.StatusOK, next, pages.Success(msg))
}

// Logout resets the session.
func (h *Handler) Logout(c *gin.Context) {
	h.finish(c, http.StatusOK, h.Gate.Logout(session.State(c)), pages.Success(auth.MsgLoggedOut))
}

// AdminLogin is the inline login of the admin dashboard.
func (h *Handler) AdminLogin(c *gin.Context) {
	state := session.State(c)

	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request",
		})
		return
	}

	next, err := h.Gate.AdminLogin(state, req.Username, req.Password)
	if err != nil {
		h.fail(c, authStatus(err), state, auth.PageAdminDashboard, err)
		return
	}
	h.finish(c, http.StatusOK, next, pages.Success(auth.MsgAdminLoggedIn))
}

// AdminLogout drops the admin flag.
func (h *Handler) AdminLogout(c *gin.Context) {
	h.finish(c, http.StatusOK, h.Gate.AdminLogout(session.State(c)), pages.Success(auth.MsgAdminLoggedOut))
}

// Predict classifies an uploaded image and logs the submission.
func (h *Handler) Predict(c *gin.Context) {
	state := session.State(c)
	state.Page = auth.PageDiseaseRecognition

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Uploads.MaxSize+1<<20)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.predictFailed(c, http.StatusRequestEntityTooLarge, state, msgTooLarge)
			return
		}
		h.predictFailed(c, http.StatusBadRequest, state, msgChooseImage)
		return
	}
	if fileHeader.Size > h.cfg.Uploads.MaxSize {
		h.predictFailed(c, http.StatusRequestEntityTooLarge, state, msgTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open upload", "error", err)
		h.predictFailed(c, http.StatusBadRequest, state, msgChooseImage)
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read upload", "error", err)
		h.predictFailed(c, http.StatusBadRequest, state, msgChooseImage)
		return
	}

	result, err := h.Pipeline.Submit(c.Request.Context(), state.Identifier, fileHeader.Filename, data)
	if err != nil {
		status, msg := predictError(err)
		if status >= http.StatusInternalServerError {
			log.Error("Prediction failed", "identifier", state.Identifier, "error", err)
		}
		h.predictFailed(c, status, state, msg)
		return
	}

	if session.WantsJSON(c) {
		if err := session.Save(c, state); err != nil {
			log.Error("Failed to save session", "error", err)
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"prediction": result.Display,
			"submission": result.Submission,
		})
		return
	}

	_, view := h.Pages.Navigate(state, string(auth.PageDiseaseRecognition))
	h.renderView(c, http.StatusOK, state, view, result)
}

func predictError(err error) (int, string) {
	switch {
	case errors.Is(err, classify.ErrNoImage):
		return http.StatusBadRequest, msgChooseImage
	case errors.Is(err, inference.ErrInvalidImage):
		return http.StatusBadRequest, msgInvalidImage
	case errors.Is(err, inference.ErrModelUnavailable):
		return http.StatusServiceUnavailable, msgModelDown
	default:
		return http.StatusInternalServerError, msgPredictError
	}
}

func (h *Handler) predictFailed(c *gin.Context, status int, state auth.State, msg string) {
	if session.WantsJSON(c) {
		c.JSON(status, gin.H{
			"success": false,
			"error":   msg,
		})
		return
	}
	_, view := h.Pages.Navigate(state, string(auth.PageDiseaseRecognition))
	view.Notices = append(view.Notices, pages.Error(msg))
	h.renderView(c, status, state, view, nil)
}
