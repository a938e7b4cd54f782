package handlers

import (
	"strconv"

	"HillsideClinic/models"
	"HillsideClinic/services"

	"github.com/gin-gonic/gin"
)

type PreRegistrationHandler struct {
	service *services.PreRegistrationService
}

func NewPreRegistrationHandler(service *services.PreRegistrationService) *PreRegistrationHandler {
	return &PreRegistrationHandler{service: service}
}

func (h *PreRegistrationHandler) AddEntry(c *gin.Context) {
	var entry models.PreRegistrationEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Add(c.Request.Context(), &entry); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, entry)
}

func (h *PreRegistrationHandler) ListPending(c *gin.Context) {
	entries, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, entries)
}

func (h *PreRegistrationHandler) ProcessEntry(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("entry_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid entry id"})
		return
	}
	result, err := h.service.Process(c.Request.Context(), uint(entryID), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, result)
}

func (h *PreRegistrationHandler) CancelEntry(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("entry_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid entry id"})
		return
	}
	if err := h.service.Cancel(c.Request.Context(), uint(entryID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Entry cancelled"})
}
