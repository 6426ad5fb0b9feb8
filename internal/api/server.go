package api

import (
	"github.com/sirupsen/logrus"

	"github.com/columk1/file-uploader/internal/config"
	"github.com/columk1/file-uploader/internal/database"
	"github.com/columk1/file-uploader/internal/drive"
	"github.com/columk1/file-uploader/internal/storage"
)

type Server struct {
	config  *config.Config
	store   *database.Store
	blobs   storage.BlobStore
	paths   *drive.PathResolver
	trees   *drive.TreeBuilder
	deleter *drive.CascadeDeleter
	shares  *drive.ShareManager
	log     *logrus.Logger
}

func NewServer(cfg *config.Config, store *database.Store, blobs storage.BlobStore, log *logrus.Logger) *Server {
	paths := drive.NewPathResolver(store)

	return &Server{
		config:  cfg,
		store:   store,
		blobs:   blobs,
		paths:   paths,
		trees:   drive.NewTreeBuilder(store),
		deleter: drive.NewCascadeDeleter(store, blobs, cfg.Storage.Bucket, log),
		shares:  drive.NewShareManager(store, paths),
		log:     log,
	}
}
