package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Igsankya24/krishna-tech-solutions/internal/audit"
	"github.com/Igsankya24/krishna-tech-solutions/internal/events"
	"github.com/Igsankya24/krishna-tech-solutions/internal/middleware"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

type SettingsHandler struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewSettingsHandler(db *gorm.DB, auditor *audit.Dispatcher, publisher *events.Publisher) *SettingsHandler {
	return &SettingsHandler{db: db, audit: auditor, events: publisher}
}

// --------- Requests ---------

type UpsertSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

// --------- Handlers ---------

func (h *SettingsHandler) List(c *gin.Context) {
	var rows []models.Setting
	if err := h.db.Order("key ASC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_settings"})
		return
	}

	settings := make(map[string]string, len(rows))
	for _, s := range rows {
		settings[s.Key] = s.Value
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// Upsert writes the whole batch in one transaction so the dashboard save
// button is all-or-nothing.
func (h *SettingsHandler) Upsert(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req UpsertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}
	if len(req.Settings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_settings"})
		return
	}

	keys := make([]string, 0, len(req.Settings))
	for k := range req.Settings {
		if k == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty_key"})
			return
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, k := range keys {
			row := models.Setting{Key: k, Value: req.Settings[k]}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_settings"})
		return
	}

	if h.audit != nil {
		h.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   "settings_updated",
			Entity:   "setting",
			Metadata: map[string]any{"keys": keys},
		})
	}
	h.events.Publish(c.Request.Context(), events.EntitySettings, events.OpUpdated, "")

	c.JSON(http.StatusOK, gin.H{"saved": len(keys)})
}
