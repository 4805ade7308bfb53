package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/mjnyampinga/Educational-File-Manager/internal/cache"
	"github.com/mjnyampinga/Educational-File-Manager/internal/config"
	"github.com/mjnyampinga/Educational-File-Manager/internal/delivery/httpd"
	"github.com/mjnyampinga/Educational-File-Manager/internal/i18n"
	"github.com/mjnyampinga/Educational-File-Manager/internal/queue"
	"github.com/mjnyampinga/Educational-File-Manager/internal/repository"
	"github.com/mjnyampinga/Educational-File-Manager/internal/scheduler"
	"github.com/mjnyampinga/Educational-File-Manager/internal/service"
	"github.com/mjnyampinga/Educational-File-Manager/internal/worker"
	"github.com/mjnyampinga/Educational-File-Manager/internal/ws"
	"github.com/mjnyampinga/Educational-File-Manager/pkg/hash"
)

// Расширения, которые принимаются при загрузке материалов и работ
var allowedUploadTypes = []string{".pdf", ".docx", ".pptx", ".txt", ".jpg", ".jpeg", ".png"}

type App struct {
	server      *http.Server
	logger      zerolog.Logger
	config      *config.Config
	db          *sql.DB
	jobQueue    *queue.Queue
	hub         *ws.Hub
	statusCache *cache.StatusCache
	scheduler   *scheduler.DeadlineScheduler
	cancelQueue context.CancelFunc
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	// Хранилище объектов
	minioRepo, err := repository.NewMinIORepository(
		cfg.MinIO.Endpoint,
		cfg.MinIO.AccessKey,
		cfg.MinIO.SecretKey,
		cfg.Storage.BucketName,
		cfg.Storage.Region,
		cfg.MinIO.UseSSL,
		log,
	)
	if err != nil {
		return nil, err
	}
	storageRepo := repository.NewStorageRepository(minioRepo, log)

	// Очередь заданий обработки
	jobQueue, err := queue.New(queue.Config{
		URL:            cfg.RabbitMQ.URL,
		Exchange:       cfg.RabbitMQ.Exchange,
		Workers:        cfg.RabbitMQ.Workers,
		ConnectRetry:   cfg.RabbitMQ.ConnectRetry,
		ConnectDelay:   cfg.RabbitMQ.ConnectDelay,
		PublishTimeout: cfg.RabbitMQ.PublishTimeout,
	}, log)
	if err != nil {
		return nil, err
	}

	// Кэш статусов обработки (опционален; без него идемпотентность
	// ограничена временем жизни процесса)
	var statusCache *cache.StatusCache
	var statusStore worker.StatusStore
	if cfg.Redis.Enabled {
		statusCache, err = cache.NewStatusCache(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.TTL,
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to Redis, continuing without status cache")
		} else {
			statusStore = statusCache
		}
	}

	// Push-канал для клиентов
	hub := ws.NewHub(log)

	// Обработчик заданий загрузки
	ingestor := worker.NewIngestor(hub, statusStore, nil, log)
	if err := jobQueue.RegisterHandler(service.TopicFileProcess, ingestor.Handle); err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(db, log)
	classRepo := repository.NewClassRepository(db, log)
	fileRepo := repository.NewFileRepository(db, log)
	submissionRepo := repository.NewSubmissionRepository(db, log)
	baseRepo := repository.NewPostgresRepository(db, log)

	// Сервисы
	authService := service.NewAuthService(userRepo, service.AuthConfig{
		SecretKey:       cfg.Auth.SecretKey,
		TokenExpiration: cfg.Auth.TokenExpiration,
		Issuer:          cfg.Auth.Issuer,
	}, log)
	classService := service.NewClassService(classRepo, userRepo, log)

	uploadConfig := service.UploadConfig{
		MaxUploadSize: cfg.Server.MaxUploadSize,
		BucketName:    cfg.Storage.BucketName,
		AllowedTypes:  allowedUploadTypes,
	}
	uploadService := service.NewUploadService(
		fileRepo,
		classRepo,
		storageRepo,
		jobQueue,
		hash.New(cfg.Hash.Algorithm),
		uploadConfig,
		log,
	)
	submissionService := service.NewSubmissionService(
		submissionRepo,
		fileRepo,
		classRepo,
		storageRepo,
		jobQueue,
		uploadConfig,
		log,
	)

	translator, err := i18n.New()
	if err != nil {
		return nil, err
	}

	// Создаем обработчики
	handler := httpd.NewHandler(
		authService,
		classService,
		uploadService,
		submissionService,
		translator,
		hub,
		baseRepo,
		log,
	)

	// Создаем роутер
	router := chi.NewRouter()

	// Настраиваем middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Настраиваем CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// Регистрируем маршруты
	handler.RegisterRoutes(router)

	// Создаем HTTP сервер
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var deadlineScheduler *scheduler.DeadlineScheduler
	if cfg.Scheduler.Enabled {
		deadlineScheduler = scheduler.New(fileRepo, hub, cfg.Scheduler.DeadlineSweep, log)
	}

	return &App{
		server:      server,
		logger:      log,
		config:      cfg,
		db:          db,
		jobQueue:    jobQueue,
		hub:         hub,
		statusCache: statusCache,
		scheduler:   deadlineScheduler,
	}, nil
}

func (a *App) Run() error {
	queueCtx, cancel := context.WithCancel(context.Background())
	a.cancelQueue = cancel
	if err := a.jobQueue.Start(queueCtx); err != nil {
		cancel()
		return err
	}

	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			cancel()
			return err
		}
	}

	a.logger.Info().Msgf("Starting server on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Останавливаем прием новых заданий
	if a.cancelQueue != nil {
		a.cancelQueue()
	}
	if err := a.jobQueue.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close job queue")
	}

	a.hub.Close()

	if a.statusCache != nil {
		if err := a.statusCache.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close status cache")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
