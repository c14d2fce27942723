package transport

import (
	"fmt"
	"net/http"

	"storefront-be/internal/order"

	"github.com/gin-gonic/gin"
)

// POST /api/orders
func (h *Handler) createOrder(c *gin.Context) {
	var input order.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errBadBody)
		return
	}

	o, err := h.Orders.CreateOrder(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, fmt.Sprintf("Your order #%d has been created successfully!", o.ID), o)
}

// GET /api/orders
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.Orders.ListOrders(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", orders)
}

// GET /api/orders/:id
func (h *Handler) orderDetail(c *gin.Context) {
	id, ok := pathID(c, "id", order.ErrOrderNotFound)
	if !ok {
		return
	}

	o, err := h.Orders.GetOrder(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", o)
}
