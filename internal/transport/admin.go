package transport

import (
	"net/http"

	"storefront-be/internal/category"
	"storefront-be/internal/order"
	"storefront-be/internal/product"

	"github.com/gin-gonic/gin"
)

// POST /api/admin/categories
func (h *Handler) createCategory(c *gin.Context) {
	var input category.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errBadBody)
		return
	}

	created, err := h.Categories.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Category created", created)
}

// POST /api/admin/products
func (h *Handler) createProduct(c *gin.Context) {
	var input product.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errBadBody)
		return
	}

	created, err := h.Products.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Product created", created)
}

// PATCH /api/admin/products/:id
func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id", product.ErrProductNotFound)
	if !ok {
		return
	}

	var input product.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errBadBody)
		return
	}

	updated, err := h.Products.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product updated", updated)
}

// PATCH /api/admin/orders/:id/status
func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id", order.ErrOrderNotFound)
	if !ok {
		return
	}

	var input order.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errBadBody)
		return
	}

	updated, err := h.Orders.UpdateStatus(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Order status updated", updated)
}
