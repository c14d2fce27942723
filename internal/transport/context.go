package transport

import (
	"fmt"

	"storefront-be/internal/apperror"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	errLoginRequired = fmt.Errorf("login required: %w", apperror.ErrUnauthenticated)
	errAdminOnly     = fmt.Errorf("admin only: %w", apperror.ErrForbidden)
)

// requireUser rejects anonymous requests.
func requireUser(c *gin.Context) {
	if _, ok := utils.GetUserIDFromContext(c.Request.Context()); !ok {
		respondError(c, errLoginRequired)
		return
	}
	c.Next()
}

// requireAdmin rejects requests from anyone but an authenticated admin.
func requireAdmin(c *gin.Context) {
	ctx := c.Request.Context()
	if _, ok := utils.GetUserIDFromContext(ctx); !ok {
		respondError(c, errLoginRequired)
		return
	}
	if !utils.IsAdmin(ctx) {
		respondError(c, errAdminOnly)
		return
	}
	c.Next()
}

func currentUserID(c *gin.Context) uint {
	id, _ := utils.GetUserIDFromContext(c.Request.Context())
	return id
}

// pathID parses a numeric path parameter. Anything else, including ids past
// the id column range, is treated as an unknown resource.
func pathID(c *gin.Context, name string, notFound error) (uint, bool) {
	id, err := utils.ToUint(c.Param(name))
	if err != nil || id == 0 {
		respondError(c, notFound)
		return 0, false
	}
	return id, true
}
