package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Igsankya24/krishna-tech-solutions/internal/audit"
	"github.com/Igsankya24/krishna-tech-solutions/internal/events"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httpresp"
	"github.com/Igsankya24/krishna-tech-solutions/internal/middleware"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
	users "github.com/Igsankya24/krishna-tech-solutions/internal/usecase/users"
)

// ======================================================
// HANDLER
// ======================================================

type UsersHandler struct {
	db     *gorm.DB
	delete *users.DeleteUser
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewUsersHandler(
	db *gorm.DB,
	deleteUC *users.DeleteUser,
	auditor *audit.Dispatcher,
	publisher *events.Publisher,
) *UsersHandler {
	return &UsersHandler{
		db:     db,
		delete: deleteUC,
		audit:  auditor,
		events: publisher,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type PermissionRequest struct {
	Permission string `json:"permission" binding:"required"`
}

var knownRoles = map[string]bool{
	models.RoleUser:       true,
	models.RoleAdmin:      true,
	models.RoleSuperAdmin: true,
}

var knownPermissions = map[string]bool{
	models.PermissionManageAppointments: true,
	models.PermissionManageUsers:        true,
	models.PermissionManageServices:     true,
	models.PermissionManageCoupons:      true,
	models.PermissionManageSettings:     true,
	models.PermissionViewAuditLogs:      true,
}

// ======================================================
// LIST
// ======================================================

type userRow struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	IsApproved bool      `json:"is_approved"`
	Roles      []string  `json:"roles"`
}

func (h *UsersHandler) List(c *gin.Context) {
	var list []models.User
	if err := h.db.Order("created_at DESC").Find(&list).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Could not list users.")
		return
	}

	rows := make([]userRow, 0, len(list))
	for _, u := range list {
		var profile models.Profile
		_ = h.db.Where("user_id = ?", u.ID).First(&profile).Error

		var roles []string
		_ = h.db.Model(&models.UserRole{}).Where("user_id = ?", u.ID).Pluck("role", &roles).Error

		rows = append(rows, userRow{
			ID:         u.ID,
			Email:      u.Email,
			FullName:   profile.FullName,
			Phone:      profile.Phone,
			IsApproved: profile.IsApproved,
			Roles:      roles,
		})
	}

	httpresp.List(c, rows)
}

// ======================================================
// APPROVE
// ======================================================

func (h *UsersHandler) Approve(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "User id must be a UUID.")
		return
	}

	res := h.db.Model(&models.Profile{}).
		Where("user_id = ?", id).
		Update("is_approved", true)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_approve_user", "Could not approve user.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	if h.audit != nil {
		h.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   "user_approved",
			Entity:   "user",
			EntityID: id.String(),
		})
	}
	h.events.Publish(c.Request.Context(), events.EntityUsers, events.OpUpdated, id.String())

	httpresp.OK(c, gin.H{"approved": true})
}

// ======================================================
// ROLES
// ======================================================

func (h *UsersHandler) AssignRole(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "User id must be a UUID.")
		return
	}

	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || !knownRoles[req.Role] {
		httperr.BadRequest(c, "invalid_role", "Unknown role.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	var existing int64
	h.db.Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", id, req.Role).
		Count(&existing)
	if existing == 0 {
		if err := h.db.Create(&models.UserRole{UserID: id, Role: req.Role}).Error; err != nil {
			httperr.Internal(c, "failed_to_assign_role", "Could not assign role.")
			return
		}
	}

	if h.audit != nil {
		h.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   "role_assigned",
			Entity:   "user",
			EntityID: id.String(),
			Metadata: map[string]any{"role": req.Role},
		})
	}
	h.events.Publish(c.Request.Context(), events.EntityUsers, events.OpUpdated, id.String())

	httpresp.OK(c, gin.H{"assigned": true})
}

func (h *UsersHandler) RevokeRole(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "User id must be a UUID.")
		return
	}

	role := c.Param("role")
	if !knownRoles[role] {
		httperr.BadRequest(c, "invalid_role", "Unknown role.")
		return
	}

	// Admins stripping their own admin role lock themselves out mid-session.
	if id == actorID && role == models.RoleAdmin {
		httperr.BadRequest(c, "self_revoke", "You cannot revoke your own admin role.")
		return
	}

	if err := h.db.
		Where("user_id = ? AND role = ?", id, role).
		Delete(&models.UserRole{}).Error; err != nil {
		httperr.Internal(c, "failed_to_revoke_role", "Could not revoke role.")
		return
	}

	if h.audit != nil {
		h.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   "role_revoked",
			Entity:   "user",
			EntityID: id.String(),
			Metadata: map[string]any{"role": role},
		})
	}
	h.events.Publish(c.Request.Context(), events.EntityUsers, events.OpUpdated, id.String())

	httpresp.OK(c, gin.H{"revoked": true})
}

// ======================================================
// PERMISSIONS
// ======================================================

func (h *UsersHandler) GrantPermission(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "User id must be a UUID.")
		return
	}

	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !knownPermissions[req.Permission] {
		httperr.BadRequest(c, "invalid_permission", "Unknown permission.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	var existing int64
	h.db.Model(&models.UserPermission{}).
		Where("user_id = ? AND permission = ?", id, req.Permission).
		Count(&existing)
	if existing == 0 {
		if err := h.db.Create(&models.UserPermission{UserID: id, Permission: req.Permission}).Error; err != nil {
			httperr.Internal(c, "failed_to_grant_permission", "Could not grant permission.")
			return
		}
	}

	if h.audit != nil {
		h.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   "permission_granted",
			Entity:   "user",
			EntityID: id.String(),
			Metadata: map[string]any{"permission": req.Permission},
		})
	}
	h.events.Publish(c.Request.Context(), events.EntityUsers, events.OpUpdated, id.String())

	httpresp.OK(c, gin.H{"granted": true})
}

func (h *UsersHandler) RevokePermission(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "User id must be a UUID.")
		return
	}

	permission := c.Param("permission")
	if !knownPermissions[permission] {
		httperr.BadRequest(c, "invalid_permission", "Unknown permission.")
		return
	}

	if err := h.db.
		Where("user_id = ? AND permission = ?", id, permission).
		Delete(&models.UserPermission{}).Error; err != nil {
		httperr.Internal(c, "failed_to_revoke_permission", "Could not revoke permission.")
		return
	}

	if h.audit != nil {
		h.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   "permission_revoked",
			Entity:   "user",
			EntityID: id.String(),
			Metadata: map[string]any{"permission": permission},
		})
	}
	h.events.Publish(c.Request.Context(), events.EntityUsers, events.OpUpdated, id.String())

	httpresp.OK(c, gin.H{"revoked": true})
}

// ======================================================
// SESSIONS
// ======================================================

func (h *UsersHandler) Sessions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "User id must be a UUID.")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var sessions []models.Session
	if err := h.db.
		Where("user_id = ?", id).
		Order("login_at DESC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		httperr.Internal(c, "failed_to_list_sessions", "Could not list sessions.")
		return
	}

	httpresp.List(c, sessions)
}

// ======================================================
// DELETE
// ======================================================

func (h *UsersHandler) Delete(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "User id must be a UUID.")
		return
	}

	if err := h.delete.Execute(c.Request.Context(), id, actorID); err != nil {
		switch {
		case httperr.IsBusiness(err, "self_delete"):
			httperr.BadRequest(c, "self_delete", "You cannot delete your own account.")
		case httperr.IsBusiness(err, "user_not_found"):
			httperr.NotFound(c, "user_not_found", "User not found.")
		default:
			httperr.Internal(c, "failed_to_delete_user", "Could not delete user.")
		}
		return
	}

	httpresp.OK(c, gin.H{"deleted": true})
}
