package handlers

import (
	"HillsideClinic/services"

	"github.com/gin-gonic/gin"
)

type QueueHandler struct {
	service *services.QueueService
}

func NewQueueHandler(service *services.QueueService) *QueueHandler {
	return &QueueHandler{service: service}
}

func (h *QueueHandler) GetDoctorQueue(c *gin.Context) {
	visits, err := h.service.QueueFor(c.Request.Context(), c.Param("doctor_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, visits)
}

func (h *QueueHandler) GetWorkloads(c *gin.Context) {
	workloads, err := h.service.Workloads(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, workloads)
}

func (h *QueueHandler) RecommendDoctor(c *gin.Context) {
	doctorID, err := h.service.RecommendDoctor(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"doctor_id": doctorID})
}
