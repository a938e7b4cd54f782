package handlers

import (
	"HillsideClinic/models"
	"HillsideClinic/services"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
	card    *services.CardService
}

func NewPatientHandler(service *services.PatientService, card *services.CardService) *PatientHandler {
	return &PatientHandler{service: service, card: card}
}

func (h *PatientHandler) RegisterPatient(c *gin.Context) {
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	result, err := h.service.Register(c.Request.Context(), &patient, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, result)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id := c.Param("patient_id")
	patient, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if patient == nil {
		c.JSON(404, gin.H{"error": "Patient not found"})
		return
	}
	c.JSON(200, patient)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, patients)
}

// ActivateCard opens the card-activation billing. Requesting activation for
// an already-active card returns the current expiry instead of a new charge.
func (h *PatientHandler) ActivateCard(c *gin.Context) {
	id := c.Param("patient_id")
	result, err := h.card.RequestActivation(c.Request.Context(), id, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if result.AlreadyActive {
		c.JSON(200, result)
		return
	}
	c.JSON(201, result)
}
