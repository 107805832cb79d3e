package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/leafcheck/internal/api/session"
	"github.com/jon4hz/leafcheck/internal/catalogue"
	"github.com/samber/lo"
)

// Me returns the auth state of the current session.
func (h *Handler) Me(c *gin.Context) {
	state := session.State(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"state": state,
			"role":  state.Role().String(),
		},
	})
}

// GetPages returns the navigation entries visible to the current session.
func (h *Handler) GetPages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.Pages.Pages(session.State(c)),
	})
}

type catalogueItem struct {
	Index int    `json:"index"`
	Raw   string `json:"raw"`
	Name  string `json:"name"`
}

// GetCatalogue returns the class labels in model output order.
func (h *Handler) GetCatalogue(c *gin.Context) {
	cat := h.Pipeline.Classifier().Catalogue()
	items := lo.Map(cat.Entries(), func(e catalogue.Entry, i int) catalogueItem {
		return catalogueItem{Index: i, Raw: e.Raw, Name: e.Name}
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"language": cat.Language(),
			"classes":  items,
		},
	})
}
