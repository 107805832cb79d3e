package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/leafcheck/internal/cache"
	"github.com/jon4hz/leafcheck/internal/scheduler"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/jon4hz/leafcheck/internal/uploads"
	"github.com/jon4hz/leafcheck/internal/web"
	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

func parseUintParam(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// paging reads the page and pageSize query parameters.
func paging(c *gin.Context) (page, pageSize int, ok bool) {
	page = 1
	pageSize = defaultPageSize

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := parseUintParam(pageStr); err == nil && p > 0 {
			page, err = safecast.ToInt(p)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Invalid page parameter",
				})
				return 0, 0, false
			}
		}
	}

	if pageSizeStr := c.Query("pageSize"); pageSizeStr != "" {
		if ps, err := parseUintParam(pageSizeStr); err == nil && ps > 0 && ps <= maxPageSize {
			pageSize, err = safecast.ToInt(ps)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Invalid pageSize parameter",
				})
				return 0, 0, false
			}
		}
	}
	return page, pageSize, true
}

func totalPages(total, pageSize int) int {
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// GetSubmissions returns the submission log, newest first.
func (h *Handler) GetSubmissions(c *gin.Context) {
	page, pageSize, ok := paging(c)
	if !ok {
		return
	}

	submissions, err := h.Store.LoadSubmissions(c.Request.Context())
	if err != nil {
		log.Error("Failed to load submissions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load submissions",
		})
		return
	}

	if identifier := c.Query("identifier"); identifier != "" {
		submissions = lo.Filter(submissions, func(s store.Submission, _ int) bool {
			return s.Identifier == identifier
		})
	}
	newestFirst := make([]store.Submission, 0, len(submissions))
	for i := len(submissions) - 1; i >= 0; i-- {
		newestFirst = append(newestFirst, submissions[i])
	}
	submissions = newestFirst

	total := len(submissions)
	start := (page - 1) * pageSize
	items := lo.Slice(submissions, start, start+pageSize)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"total":      total,
			"page":       page,
			"pageSize":   pageSize,
			"totalPages": totalPages(total, pageSize),
		},
	})
}

type relabelRequest struct {
	LabelIndex *int `json:"labelIndex" binding:"required"`
}

// UpdateSubmission corrects the label of a logged submission.
func (h *Handler) UpdateSubmission(c *gin.Context) {
	var req relabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request",
		})
		return
	}

	display, err := h.Pipeline.Classifier().Catalogue().Display(*req.LabelIndex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid label index",
		})
		return
	}

	id := c.Param("id")
	if err := h.Store.UpdateSubmissionLabel(c.Request.Context(), id, display.Index, display.Name); err != nil {
		h.storeError(c, err, "Failed to update submission")
		return
	}

	log.Info("Submission relabeled", "id", id, "labelIndex", display.Index, "prediction", display.Name)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission updated",
	})
}

// DeleteSubmission removes a submission and its image.
func (h *Handler) DeleteSubmission(c *gin.Context) {
	id := c.Param("id")
	if err := h.Store.RemoveSubmission(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Failed to delete submission")
		return
	}

	log.Info("Submission deleted", "id", id)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission deleted",
	})
}

// GetUsers returns all accounts sorted by identifier.
func (h *Handler) GetUsers(c *gin.Context) {
	accounts, err := h.Store.LoadAccounts(c.Request.Context())
	if err != nil {
		log.Error("Failed to load accounts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sortedAccounts(accounts),
	})
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// UpdateUser changes the name of an account.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request",
		})
		return
	}

	ctx := c.Request.Context()
	account, err := h.Store.GetAccount(ctx, c.Param("identifier"))
	if err != nil {
		h.storeError(c, err, "Failed to load user")
		return
	}
	if req.FirstName != nil {
		account.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		account.LastName = strings.TrimSpace(*req.LastName)
	}

	if err := h.Store.UpdateAccount(ctx, *account); err != nil {
		h.storeError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    account,
	})
}

// DeleteUser removes an account. Its submissions are kept.
func (h *Handler) DeleteUser(c *gin.Context) {
	identifier := c.Param("identifier")
	if err := h.Store.RemoveAccount(c.Request.Context(), identifier); err != nil {
		h.storeError(c, err, "Failed to delete user")
		return
	}

	log.Info("Account deleted", "identifier", identifier)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted",
	})
}

func (h *Handler) storeError(c *gin.Context, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Not found",
		})
		return
	}
	log.Error(msg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   msg,
	})
}

// DiskStats describes the volume holding the uploaded images.
type DiskStats struct {
	Path        string  `json:"path"`
	Total       string  `json:"total"`
	Free        string  `json:"free"`
	UsedPercent float64 `json:"usedPercent"`
}

// GetStats returns store statistics, upload disk usage and cache statistics.
func (h *Handler) GetStats(c *gin.Context) {
	var (
		stats    store.Stats
		diskInfo *DiskStats
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		stats, err = store.LoadStats(ctx, h.Store)
		return err
	})
	g.Go(func() error {
		path := h.Uploads.Dir()
		usage, err := disk.UsageWithContext(ctx, path)
		if err != nil {
			log.Warn("failed to get disk usage", "path", path, "error", err)
			return nil
		}
		diskInfo = &DiskStats{
			Path:        path,
			Total:       web.FormatFileSize(safeInt64(usage.Total)),
			Free:        web.FormatFileSize(safeInt64(usage.Free)),
			UsedPercent: usage.UsedPercent,
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("Failed to load stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load stats",
		})
		return
	}

	data := gin.H{
		"records": stats,
		"disk":    diskInfo,
	}
	if stats.LastSubmission != nil {
		data["lastSubmissionAgo"] = web.FormatRelativeTime(*stats.LastSubmission)
	}
	if h.PredictionCache != nil {
		data["cache"] = []*cache.Stats{h.PredictionCache.GetStats()}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func safeInt64(v uint64) int64 {
	n, err := safecast.ToInt64(v)
	if err != nil {
		return 0
	}
	return n
}

// GetJobs lists the scheduled maintenance jobs.
func (h *Handler) GetJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.Scheduler.GetJobs(),
	})
}

// RunJob triggers a job immediately.
func (h *Handler) RunJob(c *gin.Context) {
	id := c.Param("id")
	if err := h.Scheduler.RunJobNow(id); err != nil {
		h.jobError(c, err, "Failed to run job")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job started",
	})
}

// EnableJob resumes a job.
func (h *Handler) EnableJob(c *gin.Context) {
	h.setJobEnabled(c, true)
}

// DisableJob pauses a job.
func (h *Handler) DisableJob(c *gin.Context) {
	h.setJobEnabled(c, false)
}

func (h *Handler) setJobEnabled(c *gin.Context, enabled bool) {
	id := c.Param("id")
	if err := h.Scheduler.SetEnabled(id, enabled); err != nil {
		h.jobError(c, err, "Failed to update job")
		return
	}
	job, _ := h.Scheduler.GetJob(id)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    job,
	})
}

func (h *Handler) jobError(c *gin.Context, err error, msg string) {
	if errors.Is(err, scheduler.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Job not found",
		})
		return
	}
	log.Error(msg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   msg,
	})
}

// SweepOrphans removes unreferenced uploads right away.
func (h *Handler) SweepOrphans(c *gin.Context) {
	removed, err := h.Maintenance.SweepOrphans(c.Request.Context())
	if err != nil {
		log.Error("Failed to sweep orphaned uploads", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to sweep orphaned uploads",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    removed,
	})
}

// ClearCache drops all cached predictions.
func (h *Handler) ClearCache(c *gin.Context) {
	if h.PredictionCache == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Cache is disabled",
		})
		return
	}

	if err := h.PredictionCache.Clear(c.Request.Context()); err != nil {
		log.Error("Failed to clear prediction cache", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to clear cache",
		})
		return
	}

	log.Info("Prediction cache cleared")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cache cleared",
	})
}

// ServeUpload serves an uploaded image or its thumbnail.
func (h *Handler) ServeUpload(c *gin.Context) {
	thumb := c.Query("thumb") == "1"
	if err := h.Uploads.ServeImage(c.Param("name"), thumb, c.Writer, c.Request); err != nil && !errors.Is(err, uploads.ErrNotFound) {
		log.Error("Failed to serve upload", "name", c.Param("name"), "error", err)
	}
}

// NoStore disables client caching of the admin responses.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Expires", time.Unix(0, 0).UTC().Format(http.TimeFormat))
		c.Next()
	}
}
