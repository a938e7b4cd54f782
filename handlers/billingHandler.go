package handlers

import (
	"strconv"

	"HillsideClinic/models"
	"HillsideClinic/services"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	service   *services.BillingService
	emergency *services.EmergencyBillingService
}

func NewBillingHandler(service *services.BillingService, emergency *services.EmergencyBillingService) *BillingHandler {
	return &BillingHandler{service: service, emergency: emergency}
}

func (h *BillingHandler) GetBillingByID(c *gin.Context) {
	billing, err := h.service.GetByID(c.Request.Context(), c.Param("billing_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if billing == nil {
		c.JSON(404, gin.H{"error": "Billing not found"})
		return
	}
	c.JSON(200, billing)
}

func (h *BillingHandler) GetAllBillings(c *gin.Context) {
	billings, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, billings)
}

func (h *BillingHandler) AddService(c *gin.Context) {
	var line services.ServiceLine
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	item, err := h.service.AddService(c.Request.Context(), c.Param("billing_id"), line, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, item)
}

func (h *BillingHandler) RemoveService(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("service_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid service id"})
		return
	}
	if err := h.service.RemoveService(c.Request.Context(), c.Param("billing_id"), uint(serviceID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Service removed"})
}

func (h *BillingHandler) RecordPayment(c *gin.Context) {
	var payment models.Payment
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	payment.ReceivedBy = actor(c)
	billing, err := h.service.RecordPayment(c.Request.Context(), c.Param("billing_id"), &payment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, billing)
}

func (h *BillingHandler) GetEmergencyBillingByVisit(c *gin.Context) {
	billing, err := h.emergency.GetByVisit(c.Request.Context(), c.Param("visit_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if billing == nil {
		c.JSON(404, gin.H{"error": "Emergency billing not found"})
		return
	}
	c.JSON(200, billing)
}

func (h *BillingHandler) GetEmergencyBillingByID(c *gin.Context) {
	billing, err := h.emergency.GetByID(c.Request.Context(), c.Param("billing_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if billing == nil {
		c.JSON(404, gin.H{"error": "Emergency billing not found"})
		return
	}
	c.JSON(200, billing)
}

func (h *BillingHandler) AddEmergencyService(c *gin.Context) {
	var line services.ServiceLine
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	item, err := h.emergency.AddService(c.Request.Context(), c.Param("billing_id"), line, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, item)
}

func (h *BillingHandler) RemoveEmergencyService(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("service_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid service id"})
		return
	}
	if err := h.emergency.RemoveService(c.Request.Context(), c.Param("billing_id"), uint(serviceID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Service removed"})
}

type acknowledgeRequest struct {
	Notes string `json:"notes"`
}

// AcknowledgeEmergencyBilling settles the running emergency total in a
// single step. Repeat calls return a conflict.
func (h *BillingHandler) AcknowledgeEmergencyBilling(c *gin.Context) {
	var req acknowledgeRequest
	// Notes are optional, an empty body is fine.
	_ = c.ShouldBindJSON(&req)
	billing, err := h.emergency.Acknowledge(c.Request.Context(), c.Param("billing_id"), req.Notes, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, billing)
}
