package router

import (
	"time"

	"jalaram/internal/config"
	"jalaram/internal/handler"
	"jalaram/internal/middleware"
	"jalaram/internal/repository"
	"jalaram/internal/service"
	"jalaram/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	jobRepo := repository.NewJobRepository(db)
	seqRepo := repository.NewSequenceRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	reportCache := service.NewRedisReportCache(rdb, time.Duration(cfg.ReportCacheTTLSeconds)*time.Second)

	authSvc := service.NewAuthService(userRepo, cfg)
	codeSvc := service.NewCodeService(seqRepo, materialRepo, jobRepo, cfg.CompanyCode)
	catalogSvc := service.NewCatalogService(materialRepo, codeSvc, reportCache)
	jobSvc := service.NewJobService(jobRepo, requestRepo, codeSvc)
	allocationSvc := service.NewAllocationService(
		materialRepo, requestRepo, txRepo, jobRepo,
		dispatcher, reportCache, decimal.NewFromFloat(cfg.LowStockThresholdM),
	)
	productionSvc := service.NewProductionService(materialRepo, txRepo, codeSvc, reportCache)
	reportSvc := service.NewReportService(materialRepo, txRepo, reportCache)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	materialsH := handler.NewMaterialsHandler(catalogSvc)
	jobsH := handler.NewJobsHandler(jobSvc)
	allocationH := handler.NewAllocationHandler(allocationSvc)
	productionH := handler.NewProductionHandler(productionSvc)
	transactionsH := handler.NewTransactionsHandler(txRepo)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: storekeeper, supervisor, admin; declared per-endpoint
		anyRole := middleware.RequireRole("storekeeper", "supervisor", "admin")
		supervisorUp := middleware.RequireRole("supervisor", "admin")

		// Stock catalog: storekeeper enters purchases, everyone reads
		v1.GET("/materials", anyRole, materialsH.List)
		v1.GET("/materials/candidates", anyRole, materialsH.Candidates)
		v1.GET("/materials/:id", anyRole, materialsH.GetByID)
		v1.POST("/materials", anyRole, materialsH.Create)
		// Editing a roll is restricted: supervisor or admin only
		v1.PUT("/materials/:id", supervisorUp, materialsH.Update)

		jobs := v1.Group("/jobs", anyRole)
		{
			jobs.POST("", jobsH.Create)
			jobs.GET("", jobsH.List)
			jobs.GET("/:job_no", jobsH.GetByJobNo)
			jobs.GET("/:job_no/requests", jobsH.Requests)
		}

		alloc := v1.Group("/allocation", anyRole)
		{
			alloc.POST("/issue", allocationH.Issue)
			alloc.GET("/requests/:id", allocationH.GetRequest)
		}

		prod := v1.Group("/production", anyRole)
		{
			prod.POST("/consumption", productionH.RecordConsumption)
		}

		v1.GET("/transactions", anyRole, transactionsH.List)

		reports := v1.Group("/reports", anyRole)
		{
			reports.GET("/stock", reportsH.Stock)
			reports.GET("/stock/export", reportsH.StockExcel)
		}

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
