package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/Igsankya24/krishna-tech-solutions/internal/domain/booking"
	"github.com/Igsankya24/krishna-tech-solutions/internal/deployment"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/metrics"
	"github.com/Igsankya24/krishna-tech-solutions/internal/middleware"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
	"github.com/Igsankya24/krishna-tech-solutions/internal/notify"
	users "github.com/Igsankya24/krishna-tech-solutions/internal/usecase/users"
)

// ======================================================
// HANDLER
// ======================================================

// FunctionsHandler is the privileged function surface: notification sends,
// user deletion and client deployment. Unlike the booking flow these calls
// are synchronous; callers get the provider outcome in the response.
type FunctionsHandler struct {
	email      notify.EmailSender
	sms        notify.SMSSender
	deleteUser *users.DeleteUser
	deploy     *deployment.Service
	access     middleware.AccessStore
}

func NewFunctionsHandler(
	email notify.EmailSender,
	sms notify.SMSSender,
	deleteUser *users.DeleteUser,
	deploy *deployment.Service,
	access middleware.AccessStore,
) *FunctionsHandler {
	return &FunctionsHandler{
		email:      email,
		sms:        sms,
		deleteUser: deleteUser,
		deploy:     deploy,
		access:     access,
	}
}

// requireAnyRole looks the caller's role up in the database at call time.
// The destructive functions do this themselves rather than trusting route
// middleware as the only gate.
func (h *FunctionsHandler) requireAnyRole(c *gin.Context, actorID uuid.UUID, roles ...string) bool {
	for _, role := range roles {
		ok, err := h.access.HasRole(c.Request.Context(), actorID, role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "authorization_check_failed"})
			return false
		}
		if ok {
			return true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "insufficient_role"})
	return false
}

// ======================================================
// REQUESTS
// ======================================================

type NotificationRequest struct {
	CustomerName    string `json:"customerName" binding:"required"`
	CustomerEmail   string `json:"customerEmail" binding:"required"`
	CustomerPhone   string `json:"customerPhone"`
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	AppointmentTime string `json:"appointmentTime" binding:"required"`
	ServiceType     string `json:"serviceType"`
	BookingID       string `json:"bookingId"`
}

type DeleteUserRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type DeploymentRequest struct {
	Action     string `json:"action" binding:"required"`
	ProjectURL string `json:"projectUrl"`
	AnonKey    string `json:"anonKey"`
	ServiceKey string `json:"serviceKey"`
}

func (r NotificationRequest) booking() notify.Booking {
	ref := r.BookingID
	if id, err := uuid.Parse(r.BookingID); err == nil {
		ref = domain.Reference(id)
	}
	return notify.Booking{
		Reference:   ref,
		Name:        r.CustomerName,
		Email:       r.CustomerEmail,
		Phone:       r.CustomerPhone,
		Date:        r.AppointmentDate,
		Time:        r.AppointmentTime,
		ServiceType: r.ServiceType,
	}
}

func sendLabel(sent bool) string {
	if sent {
		return "sent"
	}
	return "skipped"
}

// ======================================================
// NOTIFICATION FUNCTIONS
// ======================================================

func (h *FunctionsHandler) SendBookingEmail(c *gin.Context) {
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_fields"})
		return
	}

	res, err := h.email.SendBookingEmails(c.Request.Context(), req.booking())
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("email", "failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.NotificationsTotal.WithLabelValues("email", "sent").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"adminEmail":    sendLabel(res.AdminSent),
		"customerEmail": sendLabel(res.CustomerSent),
	})
}

func (h *FunctionsHandler) SendBookingSMS(c *gin.Context) {
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_fields"})
		return
	}

	res, err := h.sms.SendBookingSMS(c.Request.Context(), req.booking())
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("sms", "failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.NotificationsTotal.WithLabelValues("sms", "sent").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"messageSid": res.MessageSid,
	})
}

// ======================================================
// USER DELETION FUNCTION
// ======================================================

func (h *FunctionsHandler) DeleteUser(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if !h.requireAnyRole(c, actorID, models.RoleAdmin, models.RoleSuperAdmin) {
		return
	}

	var req DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_fields"})
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_user_id"})
		return
	}

	if err := h.deleteUser.Execute(c.Request.Context(), targetID, actorID); err != nil {
		switch {
		case httperr.IsBusiness(err, "self_delete"):
			c.JSON(http.StatusBadRequest, gin.H{"error": "self_delete"})
		case httperr.IsBusiness(err, "user_not_found"):
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ======================================================
// CLIENT DEPLOYMENT FUNCTION
// ======================================================

// Deploy is a single dispatch endpoint: one POST body carries the action
// name plus its parameters, mirroring how the dashboard's deployment panel
// talks to the backend.
func (h *FunctionsHandler) Deploy(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if !h.requireAnyRole(c, actorID, models.RoleSuperAdmin) {
		return
	}

	var req DeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_action"})
		return
	}

	ctx := c.Request.Context()

	switch req.Action {

	case deployment.ActionSaveCredentials:
		creds, err := h.deploy.SaveCredentials(ctx, actorID, deployment.SaveCredentialsInput{
			ProjectURL: req.ProjectURL,
			AnonKey:    req.AnonKey,
			ServiceKey: req.ServiceKey,
		})
		if err != nil {
			h.deployError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "credentials": creds})

	case deployment.ActionGetCredentials:
		creds, err := h.deploy.GetCredentials(ctx, actorID)
		if err != nil {
			h.deployError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "credentials": creds})

	case deployment.ActionTestConnection:
		res, err := h.deploy.TestConnection(ctx, actorID)
		if err != nil {
			h.deployError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": res.Status, "tested_at": res.TestedAt})

	case deployment.ActionInitializeDatabase:
		res, err := h.deploy.InitializeDatabase(ctx, actorID)
		if err != nil {
			h.deployError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":           true,
			"statements_run":    res.StatementsRun,
			"statements_failed": res.StatementsFailed,
		})

	case deployment.ActionDeleteCredentials:
		if err := h.deploy.DeleteCredentials(ctx, actorID); err != nil {
			h.deployError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_action"})
	}
}

func (h *FunctionsHandler) deployError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "no_credentials"):
		c.JSON(http.StatusNotFound, gin.H{"error": "no_credentials"})
	case httperr.IsBusiness(err, "not_connected"):
		c.JSON(http.StatusBadRequest, gin.H{"error": "not_connected"})
	case httperr.IsBusiness(err, "missing_fields"):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_fields"})
	case httperr.IsBusiness(err, "invalid_project_url"):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_project_url"})
	case httperr.IsBusiness(err, "invalid_service_key"):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_service_key"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
