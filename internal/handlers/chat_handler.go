package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Igsankya24/krishna-tech-solutions/internal/chatbot"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

type ChatHandler struct {
	db *gorm.DB
}

func NewChatHandler(db *gorm.DB) *ChatHandler {
	return &ChatHandler{db: db}
}

// --------- Requests ---------

type ChatStepRequest struct {
	NodeID   string `json:"node_id" binding:"required"`
	OptionID string `json:"option_id" binding:"required"`
}

// --------- Handlers ---------

// Script returns the whole dialogue tree, root first, with the services node
// hydrated from the live catalog.
func (h *ChatHandler) Script(c *gin.Context) {
	script := chatbot.Script()

	names := h.activeServiceNames()
	for i, n := range script {
		if n.Action == chatbot.ActionShowServices {
			script[i] = chatbot.WithServices(n, names)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"root":  chatbot.RootNodeID,
		"nodes": script,
	})
}

func (h *ChatHandler) Step(c *gin.Context) {
	var req ChatStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "node_id and option_id are required.")
		return
	}

	next, err := chatbot.Step(req.NodeID, req.OptionID)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "unknown_node"):
			httperr.BadRequest(c, "unknown_node", "That conversation step does not exist.")
		case httperr.IsBusiness(err, "unknown_option"):
			httperr.BadRequest(c, "unknown_option", "That reply is not one of the choices.")
		default:
			httperr.Internal(c, "chat_step_failed", "Could not resolve the next step.")
		}
		return
	}

	if next.Action == chatbot.ActionShowServices {
		next = chatbot.WithServices(next, h.activeServiceNames())
	}

	c.JSON(http.StatusOK, gin.H{"node": next})
}

func (h *ChatHandler) activeServiceNames() []string {
	var names []string
	_ = h.db.Model(&models.Service{}).
		Where("is_active = ?", true).
		Order("id ASC").
		Pluck("name", &names).Error
	return names
}
