package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/columk1/file-uploader/internal/api"
	"github.com/columk1/file-uploader/internal/config"
	"github.com/columk1/file-uploader/internal/database"
	"github.com/columk1/file-uploader/internal/storage"
)

func main() {
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Cannot load configuration: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		logger.Fatalf("Cannot connect to database: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		logger.Fatalf("Cannot ping database: %v", err)
	}
	logger.Info("Connected to database")

	blobs, err := storage.New(context.Background(), storage.Config{
		Type:      cfg.Storage.Type,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		LocalPath: cfg.Storage.LocalPath,
	})
	if err != nil {
		logger.Fatalf("Cannot initialize blob storage: %v", err)
	}
	logger.WithField("backend", cfg.Storage.Type).Info("Blob storage ready")

	store := database.NewStore(dbpool)
	server := api.NewServer(cfg, store, blobs, logger)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/auth/register", server.RegisterHandler)
	r.Post("/api/v1/auth/login", server.LoginHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(server.AuthMiddleware)
		r.Get("/entities", server.ListEntitiesHandler)
		r.Post("/entities/folder", server.CreateFolderHandler)
		r.Post("/entities/file", server.UploadFileHandler)
		r.Get("/entities/tree", server.FolderTreeHandler)
		r.Get("/entities/{entityId}/path", server.PathSegmentsHandler)
		r.Get("/entities/{entityId}/download", server.DownloadFileHandler)
		r.Post("/entities/{entityId}/share", server.CreateShareHandler)
		r.Delete("/entities/{entityId}", server.DeleteEntityHandler)
	})

	r.Route("/public/{token}", func(r chi.Router) {
		r.Get("/", server.PublicFolderHandler)
		r.Get("/folders/{folderId}", server.PublicFolderHandler)
		r.Get("/download/{fileId}", server.PublicDownloadHandler)
	})

	logger.WithField("addr", cfg.Server.Addr).Info("Starting server")
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		logger.Fatalf("Cannot start server: %v", err)
	}
}
