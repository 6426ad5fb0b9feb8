package drive

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/columk1/file-uploader/internal/database"
	"github.com/columk1/file-uploader/internal/storage"
)

// CascadeDeleter removes a node and its whole subtree from the metadata
// store, then purges the underlying blobs without blocking the caller.
type CascadeDeleter struct {
	store  *database.Store
	blobs  storage.BlobStore
	bucket string
	log    *logrus.Logger
}

func NewCascadeDeleter(store *database.Store, blobs storage.BlobStore, bucket string, log *logrus.Logger) *CascadeDeleter {
	return &CascadeDeleter{
		store:  store,
		blobs:  blobs,
		bucket: bucket,
		log:    log,
	}
}

// Delete removes entityID and every descendant. The filename collection and
// the row deletion run in one transaction: collecting after rows start
// disappearing would under-report filenames and orphan blobs permanently.
// Blob purge happens after commit, detached from the caller.
func (d *CascadeDeleter) Delete(ctx context.Context, entityID string, requesterOwnerID int64) error {
	var filenames []string

	err := d.store.ExecTx(ctx, func(q *database.Queries) error {
		entity, err := q.GetEntityByID(ctx, entityID)
		if err != nil {
			return err
		}
		if entity == nil {
			return ErrNotFound
		}
		if entity.OwnerID != requesterOwnerID {
			return ErrUnauthorized
		}

		if entity.IsFolder() {
			filenames, err = collectFilenames(ctx, q, entity.OwnerID, entity.ID)
			if err != nil {
				return err
			}
		} else {
			filenames = []string{entity.Name}
		}

		deleted, err := q.DeleteEntity(ctx, entityID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	go d.purgeBlobs(requesterOwnerID, filenames)

	return nil
}

// collectFilenames walks the subtree depth-first and returns the name of
// every descendant file. Folders contribute no entries.
func collectFilenames(ctx context.Context, q *database.Queries, ownerID int64, folderID string) ([]string, error) {
	children, err := q.ListChildren(ctx, ownerID, &folderID, nil)
	if err != nil {
		return nil, err
	}

	var filenames []string
	for _, child := range children {
		if child.IsFolder() {
			nested, err := collectFilenames(ctx, q, ownerID, child.ID)
			if err != nil {
				return nil, err
			}
			filenames = append(filenames, nested...)
		} else {
			filenames = append(filenames, child.Name)
		}
	}

	return filenames, nil
}

// purgeBlobs is fire-and-forget: failures are logged and the objects stay
// orphaned until a manual audit. There is no retry.
func (d *CascadeDeleter) purgeBlobs(ownerID int64, filenames []string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, filename := range filenames {
		key := fmt.Sprintf("%d/%s", ownerID, filename)
		if err := d.blobs.Delete(ctx, d.bucket, key); err != nil {
			d.log.WithError(err).WithField("key", key).Warn("blob purge failed, object orphaned")
		}
	}
}
