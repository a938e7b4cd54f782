package handlers

import (
	"strconv"

	"HillsideClinic/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *services.VisitService
}

func NewOrderHandler(service *services.VisitService) *OrderHandler {
	return &OrderHandler{service: service}
}

// ListOrders returns the orders for one department, optionally filtered by
// status. Both come in as query parameters.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context(), c.Query("department"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, orders)
}

func (h *OrderHandler) ReleaseOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid order id"})
		return
	}
	order, err := h.service.ReleaseOrder(c.Request.Context(), uint(orderID), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, order)
}

type completeOrderRequest struct {
	ResultRef string `json:"result_ref"`
}

func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid order id"})
		return
	}
	var req completeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	remaining, err := h.service.CompleteOrder(c.Request.Context(), uint(orderID), req.ResultRef, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"remaining_orders": remaining})
}

// Dispense hands the medication over and closes the visit. The pharmacy
// billing must be settled first.
func (h *OrderHandler) Dispense(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid order id"})
		return
	}
	visit, err := h.service.Dispense(c.Request.Context(), uint(orderID), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, visit)
}
