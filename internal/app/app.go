package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Harini-0111/electronics-astra-user/internal/config"
	"github.com/Harini-0111/electronics-astra-user/internal/controller"
	"github.com/Harini-0111/electronics-astra-user/internal/repository"
	"github.com/Harini-0111/electronics-astra-user/internal/service"
	"github.com/Harini-0111/electronics-astra-user/pkg/configwatcher"
	"github.com/Harini-0111/electronics-astra-user/pkg/database"
	"github.com/Harini-0111/electronics-astra-user/pkg/logger"
	"github.com/Harini-0111/electronics-astra-user/pkg/monitoring"
	"github.com/Harini-0111/electronics-astra-user/pkg/security"
	"github.com/Harini-0111/electronics-astra-user/pkg/tracing"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the wired process. Storage clients are constructed here and
// injected into components; nothing below this level owns a connection.
type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	student    *repository.StudentRepository
	friendship *repository.FriendshipRepository
	library    *repository.LibraryRepository
}

type services struct {
	storage    *service.StorageService
	mail       *service.MailService
	identity   *service.IdentityService
	auth       *service.AuthService
	student    *service.StudentService
	friendship *service.FriendshipService
	library    *service.LibraryService
}

type controllers struct {
	auth       *controller.AuthController
	student    *controller.StudentController
	friendship *controller.FriendshipController
	library    *controller.LibraryController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		student:    repository.NewStudentRepository(db),
		friendship: repository.NewFriendshipRepository(db, rdb),
		library:    repository.NewLibraryRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.mail = service.NewMailService(&cfg.SMTP)
	s.identity = service.NewIdentityService(repos.student)
	s.auth = service.NewAuthService(repos.student, s.identity, s.mail, cfg)
	s.student = service.NewStudentService(repos.student, repos.friendship)
	s.friendship = service.NewFriendshipService(repos.friendship, repos.student)
	s.library = service.NewLibraryService(repos.library, s.storage, repos.student)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		student:    controller.NewStudentController(s.student, s.auth),
		friendship: controller.NewFriendshipController(s.friendship),
		library:    controller.NewLibraryController(s.library, s.student),
		health:     controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, database.ShouldMigrate(cfg.ForceMigrate, cfg.Server.Mode))
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The friend cache degrades to database reads without redis.
		logger.Log.Warn("Redis unavailable, running without friend cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	svcs := app.initServices(repos, cfg)
	ctrls := app.initControllers(svcs)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("student-portal", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, repos, cfg)

	// Blobs are never served statically: every read goes through the
	// download endpoint, which requires a logged-in student.

	app.RegisterConfigCallback(func(next *config.Config) {
		if next.Server.Mode == "release" {
			gin.SetMode(gin.ReleaseMode)
		} else {
			gin.SetMode(gin.DebugMode)
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go configwatcher.WatchConfig(filepath.Join("configs", "config.yaml"), a.Config, func(raw interface{}) {
		cfg, ok := raw.(*config.Config)
		if !ok {
			return
		}
		// Runtime-only flags never come from the file.
		cfg.ForceMigrate = a.Config.ForceMigrate
		cfg.MigrateOnly = a.Config.MigrateOnly
		a.Config = cfg
		logger.Log.Info("Configuration reloaded")
		for _, callback := range a.configCallbacks {
			callback(cfg)
		}
	})

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

	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
