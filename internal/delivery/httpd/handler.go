package httpd

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mjnyampinga/Educational-File-Manager/internal/i18n"
	"github.com/mjnyampinga/Educational-File-Manager/internal/service"
	"github.com/mjnyampinga/Educational-File-Manager/internal/ws"
)

type Handler struct {
	authService       service.AuthService
	classService      service.ClassService
	uploadService     service.UploadService
	submissionService service.SubmissionService
	translator        *i18n.Translator
	hub               *ws.Hub
	pinger            Pinger
	upgrader          websocket.Upgrader
	started           time.Time
	logger            zerolog.Logger
}

func NewHandler(
	authService service.AuthService,
	classService service.ClassService,
	uploadService service.UploadService,
	submissionService service.SubmissionService,
	translator *i18n.Translator,
	hub *ws.Hub,
	pinger Pinger,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		authService:       authService,
		classService:      classService,
		uploadService:     uploadService,
		submissionService: submissionService,
		translator:        translator,
		hub:               hub,
		pinger:            pinger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS обрабатывается на уровне роутера
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		started: time.Now(),
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	// Health check
	router.Get("/health", h.HealthCheck)
	router.Get("/ready", h.ReadyCheck)
	router.Get("/stats", h.GetStats)

	// Прогресс обработки файлов в реальном времени
	router.Get("/ws", h.ServeWS)

	// Приветствие на языке клиента
	router.With(h.LocaleMiddleware).Get("/", h.Welcome)

	// Versioned API
	router.Route("/api/v1", func(api chi.Router) {
		api.Use(h.LocaleMiddleware)

		api.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Get("/profile", h.GetProfile)
				r.Put("/profile", h.UpdateProfile)
			})
		})

		// Все остальное требует токена
		api.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Route("/classes", func(r chi.Router) {
				r.With(h.RequireTeacher).Post("/", h.CreateClass)
				r.With(h.RequireTeacher).Get("/", h.ListClasses)
				r.Get("/{class_id}", h.GetClass)
				r.With(h.RequireTeacher).Post("/{class_id}/students", h.EnrollStudent)
				r.Get("/{class_id}/materials", h.ListMaterials)
				r.Post("/{class_id}/submissions", h.SubmitAssignment)
				r.Get("/{class_id}/submissions", h.ListOwnSubmissions)
			})

			r.Route("/files", func(r chi.Router) {
				r.With(h.RequireTeacher).Post("/upload", h.UploadFile)
				r.Get("/{file_id}", h.GetFileInfo)
				r.Get("/{file_id}/url", h.GetFileURL)
				r.With(h.RequireTeacher).Put("/{file_id}", h.UpdateFile)
				r.With(h.RequireTeacher).Delete("/{file_id}", h.DeleteFile)
			})

			r.With(h.RequireTeacher).
				Get("/assignments/{assignment_id}/submissions", h.ListAssignmentSubmissions)

			r.With(h.RequireTeacher).Put("/submissions/{submission_id}/grade", h.GradeSubmission)
		})
	})
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	locale := localeFromContext(r.Context())
	writeSuccess(w, map[string]interface{}{
		"message": h.translator.T(locale, "welcome"),
	})
}
