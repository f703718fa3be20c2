package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	"Complaint ID", "Customer", "Phone", "Description", "Category",
	"Sentiment", "Urgency", "Politeness", "Priority",
	"Status", "Ticket", "Past Count", "Scheduled Callback", "Created At",
}

// @Summary Export complaints
// @Description Downloads all complaints as an xlsx workbook
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200
// @Router /api/export [get]
func (h *Handler) ExportComplaints(c *gin.Context) {
	complaints, err := h.Store.ListComplaints(c.Request.Context(), "", "", "", 200, 0)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load complaints", err.Error())
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for r, cm := range complaints {
		scheduled := ""
		if cm.ScheduledCallback != nil {
			scheduled = cm.ScheduledCallback.Format(time.RFC3339)
		}
		values := []any{
			cm.ID, cm.CustomerName, cm.CustomerPhone, cm.Description, string(cm.Category),
			cm.Sentiment, cm.Urgency, cm.Politeness, cm.Priority,
			string(cm.Status), cm.TicketID, cm.PastCount, scheduled, cm.CreatedAt.Format(time.RFC3339),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("complaints-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		h.Logger.Error().Err(err).Msg("failed to stream export")
	}
}
