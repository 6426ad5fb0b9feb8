package api

import (
	"context"
	"io"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/columk1/file-uploader/internal/auth"
	"github.com/columk1/file-uploader/internal/config"
	"github.com/columk1/file-uploader/internal/database"
	"github.com/columk1/file-uploader/internal/models"
	"github.com/columk1/file-uploader/internal/storage"
)

var testServer *Server
var testUserClaims *auth.AppClaims

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:14-alpine",
		postgres.WithDatabase("test_api_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		log.Fatalf("Could not start postgres: %s", err)
	}
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Could not get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	schema, err := os.ReadFile("../../db/init.sql")
	if err != nil {
		log.Fatalf("Could not read schema file: %s", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Could not apply schema: %s", err)
	}

	tempDir, err := os.MkdirTemp("", "api-storage-test")
	if err != nil {
		log.Fatalf("Could not create temp dir: %s", err)
	}
	defer os.RemoveAll(tempDir)

	blobs, err := storage.NewLocalBlobStore(tempDir)
	if err != nil {
		log.Fatalf("Could not create local blob store: %s", err)
	}

	store := database.NewStore(pool)
	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "api_test_secret"},
		Storage: config.StorageConfig{Type: "local", Bucket: "files", LocalPath: tempDir},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	testServer = NewServer(cfg, store, blobs, logger)

	hashedPassword, _ := auth.HashPassword("password")
	var userID int64
	username := "api_test_user"
	if err := pool.QueryRow(ctx, `INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`, username, hashedPassword).Scan(&userID); err != nil {
		log.Fatalf("Could not create test user: %s", err)
	}

	testUser := &models.User{ID: userID, Username: username}
	token, err := auth.GenerateJWT(testUser, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Could not generate token: %s", err)
	}
	testUserClaims, err = auth.VerifyJWT(token, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Could not verify token: %s", err)
	}

	os.Exit(m.Run())
}
