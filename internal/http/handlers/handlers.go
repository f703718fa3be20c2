package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/vedantnaik09/ey-bpo/internal/db"
	"github.com/vedantnaik09/ey-bpo/internal/events"
	"github.com/vedantnaik09/ey-bpo/internal/models"
	"github.com/vedantnaik09/ey-bpo/internal/service"
)

type Handler struct {
	Store     *db.Store
	Triage    *service.TriageService
	Events    *events.Producer
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string
}

type SubmitComplaintRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone_number" validate:"required,min=7,max=20"`
	Description   string `json:"complaint_description" validate:"required"`
}

type ScheduleCallbackRequest struct {
	ComplaintID  int64     `json:"complaint_id" validate:"required"`
	CallbackTime time.Time `json:"callback_time" validate:"required"`
}

type FlagStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Submit a complaint
// @Description Scores, deduplicates, and schedules a callback for a new complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Param complaint body SubmitComplaintRequest true "complaint"
// @Success 201 {object} models.Complaint
// @Failure 400 {object} map[string]any
// @Router /api/complaints [post]
func (h *Handler) SubmitComplaint(c *gin.Context) {
	var req SubmitComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	complaint, err := h.Triage.Submit(c.Request.Context(), req.CustomerName, req.CustomerPhone, req.Description)
	if err != nil {
		h.Logger.Error().Err(err).Msg("submission failed")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to submit complaint", err.Error())
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

func (h *Handler) ComplaintsList(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status == "all" {
		status = ""
	}
	band := strings.ToLower(strings.TrimSpace(c.Query("priority")))
	if band == "all" {
		band = ""
	}
	q := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListComplaints(c.Request.Context(), status, band, q, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list complaints", err.Error())
		return
	}
	if items == nil {
		items = []models.Complaint{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) ComplaintDetails(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	complaint, err := h.Store.GetComplaint(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Complaint not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get complaint", err.Error())
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// @Summary Toggle complaint status
// @Description Flips a complaint between pending and resolved
// @Tags complaints
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 200 {object} map[string]any
// @Router /api/complaints/{id}/toggle [post]
func (h *Handler) ToggleStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	newStatus, err := h.Store.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Complaint not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to toggle status", err.Error())
		return
	}
	h.publishStatusChange(c, id)
	c.JSON(http.StatusOK, gin.H{"status": newStatus})
}

func (h *Handler) FlagStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req FlagStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	status := models.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status", req.Status)
		return
	}
	if err := h.Store.SetFlagStatus(c.Request.Context(), id, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Complaint not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to set status", err.Error())
		return
	}
	h.publishStatusChange(c, id)
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// @Summary Reschedule a callback
// @Description Moves a complaint's callback to a new time unless another complaint holds that slot
// @Tags callbacks
// @Accept json
// @Produce json
// @Param schedule body ScheduleCallbackRequest true "schedule"
// @Success 200 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/complaints/schedule [post]
func (h *Handler) RescheduleCallback(c *gin.Context) {
	var req ScheduleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	moved, err := h.Store.Reschedule(c.Request.Context(), req.ComplaintID, req.CallbackTime)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to reschedule", err.Error())
		return
	}
	if !moved {
		writeError(c, http.StatusConflict, "SLOT_TAKEN", "Time slot already taken", nil)
		return
	}
	if complaint, err := h.Store.GetComplaint(c.Request.Context(), req.ComplaintID); err == nil {
		h.Events.ComplaintScheduled(c.Request.Context(), complaint)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Callback scheduled successfully"})
}

func (h *Handler) ScheduleAllPending(c *gin.Context) {
	result, err := h.Triage.ScheduleAllPending(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to schedule complaints", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) CallbacksByDate(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Date must be YYYY-MM-DD", err.Error())
		return
	}
	items, err := h.Store.CallbacksOn(c.Request.Context(), date)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list callbacks", err.Error())
		return
	}
	if items == nil {
		items = []models.Complaint{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) DashboardMetrics(c *gin.Context) {
	m, err := h.Store.Metrics(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load metrics", err.Error())
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) publishStatusChange(c *gin.Context, id int64) {
	complaint, err := h.Store.GetComplaint(c.Request.Context(), id)
	if err != nil {
		h.Logger.Warn().Err(err).Int64("complaint_id", id).Msg("failed to reload complaint for event")
		return
	}
	h.Events.StatusChanged(c.Request.Context(), complaint)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid complaint id", c.Param("id"))
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
