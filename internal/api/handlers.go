package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/advdiary/advdiary/internal/advisory"
	"github.com/advdiary/advdiary/internal/auth"
	"github.com/advdiary/advdiary/internal/cache"
	"github.com/advdiary/advdiary/internal/config"
	"github.com/advdiary/advdiary/internal/diary"
	"github.com/advdiary/advdiary/internal/export"
	"github.com/advdiary/advdiary/internal/ledger"
	"github.com/advdiary/advdiary/internal/records"
	"github.com/advdiary/advdiary/internal/store"
	"github.com/advdiary/advdiary/pkg/logger"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	svc      *diary.Service
	sessions *auth.Sessions
	advisor  *advisory.Generator
	exporter *export.Exporter
	cache    cache.Snapshots
	logger   *logger.Logger
	cfg      *config.Config
}

// NewHandlers creates a new handlers instance. exporter may be nil when no
// browser is available; history export then degrades to 503.
func NewHandlers(svc *diary.Service, sessions *auth.Sessions, advisor *advisory.Generator, exporter *export.Exporter, snapshots cache.Snapshots, logger *logger.Logger, cfg *config.Config) *Handlers {
	return &Handlers{
		svc:      svc,
		sessions: sessions,
		advisor:  advisor,
		exporter: exporter,
		cache:    snapshots,
		logger:   logger,
		cfg:      cfg,
	}
}

func principal(c *gin.Context) string {
	return c.GetString(auth.ContextUserKey)
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case records.IsNotFound(err):
		status = http.StatusNotFound
	case records.IsOwnership(err):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// Login finds or creates the user for an email and issues a session token
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	user, token, err := h.sessions.Login(req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Logout invalidates the caller's session token
func (h *Handlers) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		h.sessions.Logout(strings.TrimSpace(token))
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetProfile returns the acting principal's user record
func (h *Handlers) GetProfile(c *gin.Context) {
	user, err := h.svc.GetUser(principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// UpdateProfile updates the acting principal's user record
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var user records.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	saved, err := h.svc.UpdateProfile(principal(c), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": saved})
}

// ListCases returns the principal's cases with optional filters
func (h *Handlers) ListCases(c *gin.Context) {
	userID := principal(c)

	cases, err := h.svc.LoadCases(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	cases = filterCases(cases, c.Query("q"), c.Query("court"), c.Query("status"))
	sortCases(cases, c.DefaultQuery("sort", "serial"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	total := len(cases)

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cases[start:end],
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetCase returns one case by id
func (h *Handlers) GetCase(c *gin.Context) {
	found, err := h.svc.GetCase(principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": found})
}

// SaveCase persists a new or edited case, converting a superseded next date
// into a history entry
func (h *Handlers) SaveCase(c *gin.Context) {
	userID := principal(c)

	var incoming records.Case
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	// Editing a vanished record is a hard failure; brand-new cases carry
	// no id and skip the lookup.
	var existing *records.Case
	if incoming.CaseID != "" {
		prior, err := h.svc.GetCase(userID, incoming.CaseID)
		if err != nil {
			respondError(c, err)
			return
		}
		existing = prior
	}

	saved, err := h.svc.SaveCase(userID, existing, incoming)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": saved})
}

// DeleteCase hard-deletes one case
func (h *Handlers) DeleteCase(c *gin.Context) {
	if err := h.svc.DeleteCase(principal(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CaseHistory returns the display-ordered procedural history of a case
func (h *Handlers) CaseHistory(c *gin.Context) {
	found, err := h.svc.GetCase(principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	items := ledger.SortForDisplay(ledger.DisplayHistory(*found))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// ExportHistory streams the procedural-history PDF for a case
func (h *Handlers) ExportHistory(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "History export is not available",
		})
		return
	}

	found, err := h.svc.GetCase(principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.exporter.HistoryPDF(c.Request.Context(), *found)
	if err != nil {
		h.logger.Error("Failed to export history", "caseID", found.CaseID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to export procedural history",
		})
		return
	}

	filename := sanitizeFilename(found.CaseNumber) + "_History.pdf"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// CaseAdvice returns non-authoritative preparation suggestions for a case
func (h *Handlers) CaseAdvice(c *gin.Context) {
	found, err := h.svc.GetCase(principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	text := h.advisor.HearingPrep(c.Request.Context(), found.CaseType, found.StepOfTheDay, found.Notes)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"advice":  text,
	})
}

// BulkCompleteCases marks a batch of cases Completed
func (h *Handlers) BulkCompleteCases(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	completed, err := h.svc.BulkCompleteCases(principal(c), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "completed": completed})
}

// BulkDeleteCases removes a batch of cases, tolerating missing ids
func (h *Handlers) BulkDeleteCases(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	deleted, err := h.svc.BulkDeleteCases(principal(c), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}

// ListClients returns the principal's clients
func (h *Handlers) ListClients(c *gin.Context) {
	clients, err := h.svc.LoadClients(principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": clients})
}

// SaveClient persists a client and links matching cases to it
func (h *Handlers) SaveClient(c *gin.Context) {
	var incoming records.Client
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	saved, linked, err := h.svc.SaveClient(principal(c), incoming)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    saved,
		"linked":  linked,
	})
}

// DeleteClient unlinks the client's cases and removes the client
func (h *Handlers) DeleteClient(c *gin.Context) {
	unlinked, err := h.svc.DeleteClient(principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"unlinked": unlinked,
	})
}

// CaseTypes lists the recognized matter categories for form dropdowns
func (h *Handlers) CaseTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records.CaseTypes(),
	})
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"cache":  h.cache.Stats(),
		"time":   time.Now().Unix(),
	})
}

// CacheStats returns cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.cache.Stats(),
	})
}

// Helper functions

func filterCases(cases []records.Case, query, court, status string) []records.Case {
	query = strings.ToLower(query)
	out := make([]records.Case, 0, len(cases))
	for _, c := range cases {
		if query != "" {
			haystack := strings.ToLower(c.CaseNumber + " " + c.CaseNameParties + " " + c.CourtName)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		if court != "" && c.CourtName != court {
			continue
		}
		if status != "" && string(c.Status) != status {
			continue
		}
		out = append(out, c)
	}
	return out
}

var priorityRank = map[records.Priority]int{
	records.PriorityHigh:   0,
	records.PriorityMedium: 1,
	records.PriorityLow:    2,
}

func sortCases(cases []records.Case, by string) {
	switch by {
	case "priority":
		sort.SliceStable(cases, func(i, j int) bool {
			return priorityRank[cases[i].Priority] < priorityRank[cases[j].Priority]
		})
	default:
		sort.SliceStable(cases, func(i, j int) bool {
			return cases[i].SerialNumber < cases[j].SerialNumber
		})
	}
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '?', '%', '*', ':', '|', '"', '<', '>':
			return '-'
		}
		return r
	}, name)
}
