package transport

import (
	"net/http"

	"storefront-be/internal/auth"
	"storefront-be/internal/user"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/register
func (h *Handler) register(c *gin.Context) {
	var input user.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errBadBody)
		return
	}

	res, err := h.Users.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	auth.SetAccessToken(c.Writer, res.Token, h.SecureCookies)
	respond(c, http.StatusCreated, "Account created successfully!", res)
}

// POST /api/auth/login
func (h *Handler) login(c *gin.Context) {
	var input user.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errBadBody)
		return
	}

	res, err := h.Users.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	auth.SetAccessToken(c.Writer, res.Token, h.SecureCookies)
	respond(c, http.StatusOK, "", res)
}

// POST /api/auth/logout
func (h *Handler) logout(c *gin.Context) {
	auth.ClearAccessToken(c.Writer, h.SecureCookies)
	respond(c, http.StatusOK, "You have been logged out.", nil)
}
