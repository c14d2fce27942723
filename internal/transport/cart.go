package transport

import (
	"fmt"
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/product"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	Quantity int  `json:"quantity"`
	Override bool `json:"override"`
}

// resolveCart finds or creates the caller's cart, minting an anonymous
// session when needed.
func (h *Handler) resolveCart(c *gin.Context) (*cart.Cart, bool) {
	owner, err := h.Owners.Resolve(c.Writer, c.Request)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	ct, err := h.Carts.ResolveOrCreate(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return ct, true
}

// GET /api/cart
func (h *Handler) cartDetail(c *gin.Context) {
	owner, err := h.Owners.Resolve(c.Writer, c.Request)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.Carts.Summary(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", summary)
}

// GET /api/cart/count
func (h *Handler) cartCount(c *gin.Context) {
	count := 0
	if owner, ok := h.Owners.Peek(c.Request); ok {
		count = h.Carts.Count(c.Request.Context(), owner)
	}
	respond(c, http.StatusOK, "", gin.H{"cart_count": count})
}

// POST /api/cart/:product_id/add
func (h *Handler) cartAdd(c *gin.Context) {
	productID, ok := pathID(c, "product_id", product.ErrProductNotFound)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errBadBody)
		return
	}

	ct, ok := h.resolveCart(c)
	if !ok {
		return
	}

	item, err := h.Carts.AddItem(c.Request.Context(), ct, cart.AddItemInput{
		ProductID: productID,
		Quantity:  req.Quantity,
		Override:  req.Override,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, fmt.Sprintf("%s added to cart!", item.ProductName), item)
}

// POST /api/cart/:product_id/remove
func (h *Handler) cartRemove(c *gin.Context) {
	productID, ok := pathID(c, "product_id", product.ErrProductNotFound)
	if !ok {
		return
	}

	ct, ok := h.resolveCart(c)
	if !ok {
		return
	}

	removed, err := h.Carts.RemoveItem(c.Request.Context(), ct, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := ""
	if removed != nil {
		msg = fmt.Sprintf("%s removed from cart!", removed.ProductName)
	}
	respond(c, http.StatusOK, msg, removed)
}
