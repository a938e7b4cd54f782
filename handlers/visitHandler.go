package handlers

import (
	"HillsideClinic/models"
	"HillsideClinic/services"

	"github.com/gin-gonic/gin"
)

type VisitHandler struct {
	service *services.VisitService
}

func NewVisitHandler(service *services.VisitService) *VisitHandler {
	return &VisitHandler{service: service}
}

type createVisitRequest struct {
	PatientID   string `json:"patient_id" binding:"required"`
	IsEmergency bool   `json:"is_emergency"`
	Priority    int    `json:"priority"`
}

func (h *VisitHandler) CreateVisit(c *gin.Context) {
	var req createVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	visit, err := h.service.CreateVisit(c.Request.Context(), req.PatientID, req.IsEmergency, req.Priority, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, visit)
}

func (h *VisitHandler) GetVisitByID(c *gin.Context) {
	visit, err := h.service.GetByID(c.Request.Context(), c.Param("visit_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if visit == nil {
		c.JSON(404, gin.H{"error": "Visit not found"})
		return
	}
	c.JSON(200, visit)
}

func (h *VisitHandler) GetAllVisits(c *gin.Context) {
	visits, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, visits)
}

func (h *VisitHandler) RecordVitals(c *gin.Context) {
	var vitals models.VitalsRecord
	if err := c.ShouldBindJSON(&vitals); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	visit, err := h.service.RecordVitals(c.Request.Context(), c.Param("visit_id"), &vitals, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, visit)
}

func (h *VisitHandler) StartReview(c *gin.Context) {
	visit, err := h.service.StartReview(c.Request.Context(), c.Param("visit_id"), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, visit)
}

type createOrdersRequest struct {
	Lab       []services.ServiceLine `json:"lab"`
	Radiology []services.ServiceLine `json:"radiology"`
}

func (h *VisitHandler) CreateOrders(c *gin.Context) {
	var req createOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	visit, err := h.service.CreateOrders(c.Request.Context(), c.Param("visit_id"), req.Lab, req.Radiology, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, visit)
}

type pharmacyOrderRequest struct {
	Lines []services.ServiceLine `json:"lines" binding:"required"`
}

func (h *VisitHandler) CreatePharmacyOrder(c *gin.Context) {
	var req pharmacyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	visit, err := h.service.CreatePharmacyOrder(c.Request.Context(), c.Param("visit_id"), req.Lines, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, visit)
}

func (h *VisitHandler) CompleteVisit(c *gin.Context) {
	visit, err := h.service.CompleteVisit(c.Request.Context(), c.Param("visit_id"), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, visit)
}

func (h *VisitHandler) CancelVisit(c *gin.Context) {
	visit, err := h.service.Cancel(c.Request.Context(), c.Param("visit_id"), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, visit)
}

// GetResultsProgress exposes the derived share of completed diagnostic
// orders for a visit awaiting results.
func (h *VisitHandler) GetResultsProgress(c *gin.Context) {
	percent, err := h.service.ResultsProgress(c.Request.Context(), c.Param("visit_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"visit_id": c.Param("visit_id"), "percent_complete": percent})
}
