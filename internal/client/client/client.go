package client

import (
	"context"

	"github.com/dmitrijs2005/filedrop/internal/client/models"
)

// ProgressFunc receives the number of request-body bytes handed to the
// transport so far and the total body length. Calls never happen after the
// operation that issued them has returned.
type ProgressFunc func(sent, total int64)

// Client is the file-drop API contract consumed by the coordinators.
type Client interface {
	Upload(ctx context.Context, files []models.LocalFile, retention models.Retention, progress ProgressFunc) (*models.UploadResult, error)
	Pickup(ctx context.Context, code string) (*models.PickupResult, error)
	FileGroup(ctx context.Context, fileGroupID string) (*models.FileGroup, error)
	Delete(ctx context.Context, fileGroupID string) error
	// Download fetches a capability-scoped path into dir and returns the saved file path.
	Download(ctx context.Context, path string, dir string) (string, error)
}
