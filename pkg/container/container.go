package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/config"
	checkoutHandler "storefront-backend/internal/domains/checkout/handler"
	checkoutService "storefront-backend/internal/domains/checkout/service"
	mockGateway "storefront-backend/internal/domains/checkout/gateway/mock"
	squareGateway "storefront-backend/internal/domains/checkout/gateway/square"
	stripeGateway "storefront-backend/internal/domains/checkout/gateway/stripe"
	productHandler "storefront-backend/internal/domains/product/handler"
	productRepo "storefront-backend/internal/domains/product/repository"
	productService "storefront-backend/internal/domains/product/service"
	infraCache "storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/database"
	"storefront-backend/internal/infrastructure/metrics"
	"storefront-backend/internal/infrastructure/queue"
	"storefront-backend/internal/infrastructure/storage"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/jwt"
)

// Container chứa toàn bộ dependencies của application
// Backend nào thiếu credentials thì field tương ứng = nil (demo mode)
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DBConfig   *database.DBConfig
	DB         *database.PostgresDB   // nil khi DB_HOST trống
	Redis      *infraCache.RedisCache // nil khi REDIS_HOST trống
	Storage    *storage.MinIOStorage  // nil khi thiếu MinIO credentials
	Queue      *queue.Client          // nil khi REDIS_HOST trống
	Images     *storage.ImageProcessor
	Metrics    *metrics.PrometheusObserver
	JWTManager *jwt.Manager // nil khi ADMIN_JWT_SECRET trống

	// Backends là bộ ba capability mà workflow và checkout dùng
	Backends backend.Config

	// ========================================
	// SERVICES
	// ========================================
	CatalogService  productService.CatalogService
	PublishService  productService.PublishService
	CheckoutService checkoutService.CheckoutService

	// ========================================
	// HANDLERS
	// ========================================
	ProductHandler  *productHandler.ProductHandler
	CheckoutHandler *checkoutHandler.CheckoutHandler
}

// NewContainer khởi tạo và wire toàn bộ dependencies
// Thứ tự: Config → Infrastructure → Backends → Services → Handlers
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Println("✅ Configuration loaded")

	// ========================================
	// STEP 2: INITIALIZE INFRASTRUCTURE
	// ========================================
	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initRedis()
	if err := c.initStorage(); err != nil {
		return nil, err
	}

	c.Images = storage.NewImageProcessor(cfg.Publish.MaxImageBytes)

	observer, err := metrics.NewPrometheusObserver("storefront", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	c.Metrics = observer

	if cfg.Admin.JWTSecret != "" {
		c.JWTManager = jwt.NewManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	}

	// ========================================
	// STEP 3: ASSEMBLE BACKENDS
	// ========================================
	log.Println("🔌 Assembling backends...")

	if err := c.initBackends(); err != nil {
		return nil, fmt.Errorf("failed to init backends: %w", err)
	}
	if !c.Backends.PublishReady() {
		log.Println("⚠️  Demo mode: storage or catalog not configured, publishing is disabled")
	}
	if !c.Backends.CheckoutReady() {
		log.Printf("⚠️  Payment provider %q not configured, checkout returns 503", cfg.Payment.Provider)
	}

	// ========================================
	// STEP 4: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 5: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase() error {
	if !c.Config.CatalogConfigured() {
		log.Println("⚠️  DB_HOST not set, catalog store disabled")
		return nil
	}

	dbConfig, err := config.LoadDatabaseConfig(c.Config.Database)
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}
	c.DBConfig = dbConfig

	if c.Config.Database.AutoMigrate {
		log.Println("📜 Running migrations...")
		if err := database.MigrateUp(dbConfig); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Println("✅ Migrations applied")
	}

	log.Println("🗄️  Connecting to PostgreSQL...")
	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")
	return nil
}

// initRedis: Redis lỗi không critical, chỉ mất cache và background jobs
func (c *Container) initRedis() {
	if !c.Config.RedisConfigured() {
		log.Println("⚠️  REDIS_HOST not set, cache and background jobs disabled")
		return
	}

	log.Println("🔴 Connecting to Redis...")
	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		_ = rc.Close()
		return
	}

	c.Redis = rc
	c.Queue = queue.NewClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	log.Println("✅ Redis connected")
}

func (c *Container) initStorage() error {
	if !c.Config.StorageConfigured() {
		log.Println("⚠️  MinIO credentials not set, asset storage disabled")
		return nil
	}

	log.Println("🪣 Connecting to MinIO...")
	store, err := storage.NewMinIOStorage(c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := store.EnsureNamespace(ctx, c.Config.Publish.Namespace); err != nil {
		return fmt.Errorf("failed to prepare namespace %q: %w", c.Config.Publish.Namespace, err)
	}

	c.Storage = store
	log.Println("✅ MinIO ready")
	return nil
}

// initBackends gán từng capability chỉ khi concrete client tồn tại
// Tránh typed-nil interface: field giữ nil thật khi chưa cấu hình
func (c *Container) initBackends() error {
	if c.Storage != nil {
		c.Backends.Storage = c.Storage
	}
	if c.DB != nil {
		c.Backends.Catalog = productRepo.NewPostgresRepository(c.DB.Pool)
	}

	payment, err := c.newPaymentSessions()
	if err != nil {
		return err
	}
	c.Backends.Payment = payment
	return nil
}

// newPaymentSessions chọn gateway theo PAYMENT_PROVIDER
func (c *Container) newPaymentSessions() (backend.PaymentSessions, error) {
	if !c.Config.PaymentConfigured() {
		return nil, nil
	}

	cfg := c.Config
	switch cfg.Payment.Provider {
	case "stripe":
		return stripeGateway.NewClient(stripeGateway.NewConfig(
			cfg.Stripe.SecretKey,
			cfg.Stripe.APIURL,
			cfg.Stripe.Currency,
			cfg.App.SiteURL,
		))
	case "square":
		return squareGateway.NewClient(squareGateway.NewConfig(
			cfg.Square.AccessToken,
			cfg.Square.LocationID,
			cfg.Square.APIURL,
			cfg.Square.APIVersion,
			cfg.Square.Currency,
			cfg.App.SiteURL,
		))
	case "mock":
		log.Println("⚠️  Using mock payment gateway")
		return mockGateway.NewGateway(cfg.App.SiteURL), nil
	}
	return nil, fmt.Errorf("unknown payment provider %q", cfg.Payment.Provider)
}

func (c *Container) initServices() {
	var catalogCache cache.Cache
	var tasks productService.TaskEnqueuer
	if c.Redis != nil {
		catalogCache = c.Redis
	}
	if c.Queue != nil {
		tasks = c.Queue
	}

	c.CatalogService = productService.NewCatalogService(c.Backends.Catalog, catalogCache, c.Config.Catalog.CacheTTL)

	c.PublishService = productService.NewPublishWorkflow(
		c.Backends,
		c.Images,
		c.CatalogService,
		tasks,
		c.Metrics,
		productService.PublishOptions{
			Namespace:          c.Config.Publish.Namespace,
			StepTimeout:        c.Config.Publish.StepTimeout,
			RequirePaymentLink: c.Config.Publish.RequirePaymentLink,
		},
	)

	c.CheckoutService = checkoutService.NewCheckoutService(c.Backends.Payment, c.Config.Payment.Provider, c.Metrics)
}

func (c *Container) initHandlers() {
	c.ProductHandler = productHandler.NewProductHandler(c.PublishService, c.CatalogService, c.Config.Publish.MaxImageBytes)
	c.CheckoutHandler = checkoutHandler.NewCheckoutHandler(c.CheckoutService)
}

// ========================================
// HELPER METHODS
// ========================================

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Printf("⚠️  Failed to close queue client: %v", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
