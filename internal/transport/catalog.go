package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/home
func (h *Handler) home(c *gin.Context) {
	page, err := h.Products.Home(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", page)
}

// GET /api/categories
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.Categories.List(c.Request.Context(), 0)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", categories)
}

// GET /api/products?category=slug
func (h *Handler) listProducts(c *gin.Context) {
	var categorySlug *string
	if slug, ok := c.GetQuery("category"); ok && slug != "" {
		categorySlug = &slug
	}

	listing, err := h.Products.ListAvailable(c.Request.Context(), categorySlug)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", listing)
}

// GET /api/products/:slug
func (h *Handler) productDetail(c *gin.Context) {
	p, err := h.Products.GetAvailableBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", p)
}
