package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/dkeye/momentsync/internal/config"
	"github.com/dkeye/momentsync/internal/domain"
	"github.com/dkeye/momentsync/internal/store"
)

// Store is a GORM-backed SQLite implementation of store.Store.
type Store struct {
	db *gorm.DB
}

type momentModel struct {
	ID            string   `gorm:"primaryKey;size:60"`
	Name          string   `gorm:"size:33"`
	Description   string   `gorm:"size:500"`
	Owner         string   `gorm:"size:35;index"`
	AllowedUsers  []string `gorm:"serializer:json"`
	MediaIDs      []string `gorm:"serializer:json"`
	IsPublic      bool
	WebRTCEnabled bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (momentModel) TableName() string { return "moments" }

// NewStore opens a SQLite database at the configured path.
func NewStore(cfg config.DatabaseConfig) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate applies schema updates.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&momentModel{})
}

// CreateMoment stores a new moment record.
func (s *Store) CreateMoment(ctx context.Context, m *domain.Moment) error {
	if m == nil {
		return errors.New("nil moment")
	}
	return s.db.WithContext(ctx).Create(toModel(m)).Error
}

// GetMoment retrieves a moment by id.
func (s *Store) GetMoment(ctx context.Context, id domain.MomentID) (*domain.Moment, error) {
	var model momentModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", string(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return fromModel(&model), nil
}

// AppendMedia adds a media id inside a transaction so concurrent
// appends cannot duplicate an entry.
func (s *Store) AppendMedia(ctx context.Context, id domain.MomentID, mediaID domain.MediaID) (bool, error) {
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model momentModel
		if err := tx.First(&model, "id = ?", string(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return err
		}
		for _, existing := range model.MediaIDs {
			if existing == string(mediaID) {
				return nil
			}
		}
		model.MediaIDs = append(model.MediaIDs, string(mediaID))
		changed = true
		return tx.Model(&model).Select("media_ids").Updates(&model).Error
	})
	return changed, err
}

// RemoveMedia drops a media id inside a transaction.
func (s *Store) RemoveMedia(ctx context.Context, id domain.MomentID, mediaID domain.MediaID) (bool, error) {
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model momentModel
		if err := tx.First(&model, "id = ?", string(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return err
		}
		kept := model.MediaIDs[:0]
		for _, existing := range model.MediaIDs {
			if existing == string(mediaID) {
				changed = true
				continue
			}
			kept = append(kept, existing)
		}
		if !changed {
			return nil
		}
		model.MediaIDs = kept
		return tx.Model(&model).Select("media_ids").Updates(&model).Error
	})
	return changed, err
}

func toModel(m *domain.Moment) *momentModel {
	allowed := make([]string, 0, len(m.AllowedUsers))
	for _, u := range m.AllowedUsers {
		allowed = append(allowed, string(u))
	}
	media := make([]string, 0, len(m.MediaIDs))
	for _, id := range m.MediaIDs {
		media = append(media, string(id))
	}
	return &momentModel{
		ID:            string(m.ID),
		Name:          m.Name,
		Description:   m.Description,
		Owner:         string(m.Owner),
		AllowedUsers:  allowed,
		MediaIDs:      media,
		IsPublic:      m.IsPublic,
		WebRTCEnabled: m.WebRTCEnabled,
	}
}

func fromModel(model *momentModel) *domain.Moment {
	allowed := make([]domain.UserID, 0, len(model.AllowedUsers))
	for _, u := range model.AllowedUsers {
		allowed = append(allowed, domain.UserID(u))
	}
	media := make([]domain.MediaID, 0, len(model.MediaIDs))
	for _, id := range model.MediaIDs {
		media = append(media, domain.MediaID(id))
	}
	return &domain.Moment{
		ID:            domain.MomentID(model.ID),
		Name:          model.Name,
		Description:   model.Description,
		Owner:         domain.UserID(model.Owner),
		AllowedUsers:  allowed,
		MediaIDs:      media,
		IsPublic:      model.IsPublic,
		WebRTCEnabled: model.WebRTCEnabled,
	}
}
