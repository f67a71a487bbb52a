// Package media holds the pass-through collaborators around the
// real-time core: object storage, the ffmpeg transcoder and the
// vision analyzer. None of them contain business rules; failures
// degrade to storing the original bytes.
package media

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/dkeye/momentsync/internal/domain"
)

// ObjectStorage stores media blobs addressed by media id.
type ObjectStorage interface {
	Put(ctx context.Context, id domain.MediaID, data []byte) error
	Open(ctx context.Context, id domain.MediaID) (io.ReadCloser, error)
}

// DiskStorage is a local-filesystem ObjectStorage. An S3-compatible
// implementation slots in behind the same interface in production.
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStorage{dir: dir}, nil
}

func (s *DiskStorage) path(id domain.MediaID) string {
	return filepath.Join(s.dir, filepath.Base(string(id)))
}

func (s *DiskStorage) Put(ctx context.Context, id domain.MediaID, data []byte) error {
	return os.WriteFile(s.path(id), data, 0o644)
}

func (s *DiskStorage) Open(ctx context.Context, id domain.MediaID) (io.ReadCloser, error) {
	return os.Open(s.path(id))
}
