package main

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"storefront-backend/internal/shared/middleware"
	"storefront-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(c.Config.App.SiteURL),
	)

	// Redirect target của payment processor
	router.GET("/success", c.CheckoutHandler.Success)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Route cũ của storefront, giữ nguyên path
	router.POST("/api/checkout", c.CheckoutHandler.CreateSession)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupProductRoutes(v1, c)
		setupCheckoutRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// PRODUCT ROUTES (public)
// ========================================
func setupProductRoutes(v1 *gin.RouterGroup, c *container.Container) {
	products := v1.Group("/products")
	{
		products.GET("", c.ProductHandler.ListProducts)
	}
}

// ========================================
// CHECKOUT ROUTES
// ========================================
func setupCheckoutRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/checkout", c.CheckoutHandler.CreateSession)
}

// ========================================
// ADMIN ROUTES
// ========================================

// formOverheadBytes: text fields + multipart boundaries ngoài file ảnh
const formOverheadBytes = 1 << 20

func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	if c.JWTManager != nil {
		admin.Use(middleware.AdminAuth(c.JWTManager))
	} else {
		log.Println("⚠️  ADMIN_JWT_SECRET not set, admin routes are open")
	}
	{
		admin.GET("/status", c.ProductHandler.Status)
		admin.POST("/products",
			middleware.MaxBodyBytes(c.Config.Publish.MaxImageBytes+formOverheadBytes),
			c.ProductHandler.CreateProduct,
		)
	}
}

// ========================================
// HEALTH CHECK
// ========================================

// healthCheckHandler ping song song DB, Redis, storage
// Backend chưa cấu hình => "not_configured", không làm degraded
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		var mu sync.Mutex
		services := gin.H{}
		status := "ok"

		set := func(name, value string) {
			mu.Lock()
			defer mu.Unlock()
			services[name] = value
		}
		record := func(name string, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				services[name] = "error: " + err.Error()
				status = "degraded"
				return
			}
			services[name] = "ok"
		}

		g, gctx := errgroup.WithContext(ctx)

		if appCtx.DB != nil {
			g.Go(func() error {
				record("database", appCtx.DB.HealthCheck(gctx))
				return nil
			})
		} else {
			set("database", "not_configured")
		}

		if appCtx.Redis != nil {
			g.Go(func() error {
				record("redis", appCtx.Redis.Ping(gctx))
				return nil
			})
		} else {
			set("redis", "not_configured")
		}

		if appCtx.Storage != nil {
			g.Go(func() error {
				record("storage", appCtx.Storage.Ping(gctx, appCtx.Config.Publish.Namespace))
				return nil
			})
		} else {
			set("storage", "not_configured")
		}

		_ = g.Wait()

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"demo_mode": !appCtx.Backends.PublishReady(),
			"services":  services,
		})
	}
}
