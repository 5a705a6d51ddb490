package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Igsankya24/krishna-tech-solutions/internal/audit"
	domain "github.com/Igsankya24/krishna-tech-solutions/internal/domain/booking"
	"github.com/Igsankya24/krishna-tech-solutions/internal/events"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httpresp"
	"github.com/Igsankya24/krishna-tech-solutions/internal/middleware"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
	booking "github.com/Igsankya24/krishna-tech-solutions/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db         *gorm.DB
	list       *booking.ListAppointments
	transition *booking.TransitionAppointment
	audit      *audit.Dispatcher
	events     *events.Publisher
}

func NewAppointmentHandler(
	db *gorm.DB,
	list *booking.ListAppointments,
	transition *booking.TransitionAppointment,
	auditor *audit.Dispatcher,
	publisher *events.Publisher,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:         db,
		list:       list,
		transition: transition,
		audit:      auditor,
		events:     publisher,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	in := booking.ListAppointmentsInput{
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Limit:  limit,
		Offset: offset,
	}

	rows, total, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "invalid_status"):
			httperr.BadRequest(c, "invalid_status", "Unknown appointment status.")
		case httperr.IsBusiness(err, "invalid_date"):
			httperr.BadRequest(c, "invalid_date", "Dates must be YYYY-MM-DD.")
		default:
			httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		}
		return
	}

	httpresp.Page(c, rows, total, in.Limit, in.Offset)
}

// ======================================================
// GET
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Appointment id must be a UUID.")
		return
	}

	var ap models.Appointment
	if err := h.db.First(&ap, "id = ?", id).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	httpresp.OK(c, gin.H{
		"appointment": ap,
		"reference":   domain.Reference(ap.ID),
	})
}

// ======================================================
// UPDATE STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Appointment id must be a UUID.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Status is required.")
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), id, req.Status, actorID)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_not_found"):
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		case httperr.IsBusiness(err, "invalid_status"):
			httperr.BadRequest(c, "invalid_status", "Unknown appointment status.")
		case httperr.IsBusiness(err, "invalid_state"):
			httperr.BadRequest(c, "invalid_state", "Appointment cannot move to that status.")
		default:
			httperr.Internal(c, "failed_to_update_appointment", "Could not update appointment.")
		}
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DELETE
// ======================================================

// Delete removes the row outright. Cancelling is the normal path; this exists
// for admins cleaning up test bookings and spam.
func (h *AppointmentHandler) Delete(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Appointment id must be a UUID.")
		return
	}

	var ap models.Appointment
	if err := h.db.First(&ap, "id = ?", id).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	if err := h.db.Delete(&ap).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_appointment", "Could not delete appointment.")
		return
	}

	if h.audit != nil {
		h.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   "appointment_deleted",
			Entity:   "appointment",
			EntityID: ap.ID.String(),
		})
	}
	h.events.Publish(c.Request.Context(), events.EntityAppointments, events.OpDeleted, ap.ID.String())

	httpresp.OK(c, gin.H{"deleted": true})
}

// ======================================================
// STATS
// ======================================================

// Stats backs the dashboard tiles: one count per status.
func (h *AppointmentHandler) Stats(c *gin.Context) {
	counts, err := h.statusCounts()
	if err != nil {
		httperr.Internal(c, "failed_to_count_appointments", "Could not count appointments.")
		return
	}

	for _, s := range []domain.Status{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusCancelled,
	} {
		if _, ok := counts[string(s)]; !ok {
			counts[string(s)] = 0
		}
	}

	httpresp.OK(c, gin.H{"by_status": counts})
}

func (h *AppointmentHandler) statusCounts() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := h.db.Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}
