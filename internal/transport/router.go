package transport

import (
	"net/http"

	"storefront-be/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	CORSOrigins []string
}

// NewRouter builds the gin engine. Request IDs, access logs, auth and rate
// limiting are applied outside of it as plain net/http middleware.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMetrics(h.Metrics))

	if len(cfg.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
		corsCfg.AddAllowHeaders("Authorization", "X-Client-Type", "X-Request-ID")
		r.Use(cors.New(corsCfg))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	api := r.Group("/api")

	api.GET("/home", h.home)
	api.GET("/categories", h.listCategories)
	api.GET("/products", h.listProducts)
	api.GET("/products/:slug", h.productDetail)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.POST("/logout", h.logout)

	cartGroup := api.Group("/cart")
	cartGroup.GET("", h.cartDetail)
	cartGroup.GET("/count", h.cartCount)
	cartGroup.POST("/:product_id/add", h.cartAdd)
	cartGroup.POST("/:product_id/remove", h.cartRemove)

	orders := api.Group("/orders", requireUser)
	orders.POST("", h.createOrder)
	orders.GET("", h.listOrders)
	orders.GET("/:id", h.orderDetail)

	admin := api.Group("/admin", requireAdmin)
	admin.POST("/categories", h.createCategory)
	admin.POST("/products", h.createProduct)
	admin.PATCH("/products/:id", h.updateProduct)
	admin.PATCH("/orders/:id/status", h.updateOrderStatus)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{Success: false, Message: "not found"})
	})

	return r
}

func httpMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := metrics.StartTimer()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), timer.Duration())
	}
}
