package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus_backend/internal/config"
	"campus_backend/internal/controller"
	"campus_backend/internal/repository"
	"campus_backend/internal/service"
	"campus_backend/pkg/database"
	"campus_backend/pkg/logger"
	"campus_backend/pkg/monitoring"
	"campus_backend/pkg/security"
	"campus_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	academic   *repository.AcademicRepository
	assessment *repository.AssessmentRepository
	attempt    *repository.AttemptRepository
	skill      *repository.SkillRepository
	bank       *repository.QuestionBankRepository
	assignment *repository.AssignmentRepository
}

type services struct {
	auth       *service.AuthService
	assessment *service.AssessmentService
	attempt    *service.AttemptService
	skill      *service.SkillService
	bank       *service.QuestionBankService
	results    *service.ResultsService
	assignment *service.AssignmentService
}

type controllers struct {
	auth       *controller.AuthController
	assessment *controller.AssessmentController
	attempt    *controller.AttemptController
	skill      *controller.SkillController
	bank       *controller.QuestionBankController
	results    *controller.ResultsController
	assignment *controller.AssignmentController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		academic:   repository.NewAcademicRepository(db),
		assessment: repository.NewAssessmentRepository(db),
		attempt:    repository.NewAttemptRepository(db),
		skill:      repository.NewSkillRepository(db),
		bank:       repository.NewQuestionBankRepository(db),
		assignment: repository.NewAssignmentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.skill = service.NewSkillService(repos.skill, repos.academic)
	s.assessment = service.NewAssessmentService(repos.assessment, repos.academic)
	s.results = service.NewResultsService(repos.assessment, repos.attempt, repos.academic, repos.skill, rdb)
	s.attempt = service.NewAttemptService(repos.attempt, repos.assessment, repos.academic, s.skill, s.results)
	s.bank = service.NewQuestionBankService(repos.bank, repos.assessment)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.academic, s.skill)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		assessment: controller.NewAssessmentController(s.assessment),
		attempt:    controller.NewAttemptController(s.attempt),
		skill:      controller.NewSkillController(s.skill),
		bank:       controller.NewQuestionBankController(s.bank),
		results:    controller.NewResultsController(s.results),
		assignment: controller.NewAssignmentController(s.assignment),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the lifecycle sweeps: assessments whose window
// opened or closed move forward, and overdue attempts are finalized. Reads
// also resolve transitions lazily, so the sweep only bounds staleness.
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			s.assessment.SweepTransitions()
			s.attempt.ExpireOverdue()
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("campus-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
