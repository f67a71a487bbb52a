package store

import (
	"context"
	"errors"

	"github.com/dkeye/momentsync/internal/domain"
)

// ErrNotFound is returned when a moment id has no record.
var ErrNotFound = errors.New("moment not found")

// Store is the external record store the real-time core delegates to.
// It owns consistency of the moment records; callers issue single
// atomic append/remove operations and never read-modify-write themselves.
type Store interface {
	Close() error
	Migrate(ctx context.Context) error

	CreateMoment(ctx context.Context, m *domain.Moment) error
	GetMoment(ctx context.Context, id domain.MomentID) (*domain.Moment, error)

	// AppendMedia adds a media id to the moment's set. It reports
	// changed=false when the id was already present (idempotent no-op).
	AppendMedia(ctx context.Context, id domain.MomentID, mediaID domain.MediaID) (changed bool, err error)

	// RemoveMedia removes a media id from the moment's set. It reports
	// changed=false when the id was absent.
	RemoveMedia(ctx context.Context, id domain.MomentID, mediaID domain.MediaID) (changed bool, err error)
}
