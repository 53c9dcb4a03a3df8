package http

import (
	_ "github.com/DRSN-tech/qr-menu-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(importUC usecase.ImportUC) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		importHandler := NewImportHandler(importUC, r.logger)
		registerImportRoutes(v1, importHandler)
	})
}

func registerImportRoutes(router chi.Router, h *ImportHandler) {
	router.Route("/businesses/{businessID}/imports", func(br chi.Router) {
		br.Post("/", h.startImport)
		br.Get("/cooldown", h.getCooldown)
	})

	router.Route("/imports/{sessionID}", func(ir chi.Router) {
		ir.Get("/", h.getSession)
		ir.Post("/cancel", h.cancelImport)
		ir.Post("/pause", h.pauseImport)
		ir.Post("/resume", h.resumeImport)
		ir.Post("/rollback", h.rollbackImport)
	})
}
