package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/ubuygold/recordkeeper/internal/config"
	"github.com/ubuygold/recordkeeper/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate entry")
)

// RecordQueryFilter narrows a record listing. Nil fields are not applied.
type RecordQueryFilter struct {
	Limit  *int
	Offset *int
}

// Service is the storage handle shared by every request handler.
type Service interface {
	Close() error

	// Authentication keys
	CreateAuthenticationKey(ctx context.Context, key *model.AuthenticationKey) error
	FindAuthenticationKeyByKey(ctx context.Context, key string) (*model.AuthenticationKey, error)
	FindAuthenticationKeyByUsername(ctx context.Context, username string) (*model.AuthenticationKey, error)
	ListAuthenticationKeys(ctx context.Context) ([]model.AuthenticationKey, error)

	// Records
	CreateRecord(ctx context.Context, record *model.Record) error
	GetRecord(ctx context.Context, id uint) (*model.Record, error)
	ListRecords(ctx context.Context, filter RecordQueryFilter) ([]model.Record, error)
	UpdateRecord(ctx context.Context, id uint, mutate func(record *model.Record) error) (*model.Record, error)
	DeleteRecord(ctx context.Context, id uint) error
}

type service struct {
	db *gorm.DB
}

// Dialector returns the gorm dialector for the configured database type.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// NewService opens the database described by cfg and creates the schema.
func NewService(cfg config.DatabaseConfig) (Service, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Type == "sqlite" {
		// sqlite allows one writer; a single connection also keeps
		// in-memory databases alive and consistent.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return &service{db: db}, nil
}

// Models lists every persisted model, in migration order.
func Models() []any {
	return []any{&model.AuthenticationKey{}, &model.Record{}}
}

// Migrate creates or updates both tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql handle: %w", err)
	}
	return sqlDB.Close()
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// ======================================================================================
// Authentication keys

func (s *service) CreateAuthenticationKey(ctx context.Context, key *model.AuthenticationKey) error {
	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return fmt.Errorf("failed to create authentication key for %s: %w", key.Username, translate(err))
	}
	return nil
}

func (s *service) FindAuthenticationKeyByKey(ctx context.Context, key string) (*model.AuthenticationKey, error) {
	var found model.AuthenticationKey
	// Map conditions quote the column, "key" is reserved in MySQL.
	if err := s.db.WithContext(ctx).Where(map[string]any{"key": key}).First(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to find authentication key: %w", translate(err))
	}
	return &found, nil
}

func (s *service) FindAuthenticationKeyByUsername(ctx context.Context, username string) (*model.AuthenticationKey, error) {
	var found model.AuthenticationKey
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to find authentication key for %s: %w", username, translate(err))
	}
	return &found, nil
}

func (s *service) ListAuthenticationKeys(ctx context.Context) ([]model.AuthenticationKey, error) {
	var keys []model.AuthenticationKey
	if err := s.db.WithContext(ctx).Order("id asc").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("failed to list authentication keys: %w", err)
	}
	return keys, nil
}

// ======================================================================================
// Records

func (s *service) CreateRecord(ctx context.Context, record *model.Record) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", translate(err))
	}
	return nil
}

func (s *service) GetRecord(ctx context.Context, id uint) (*model.Record, error) {
	var record model.Record
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch record %d: %w", id, translate(err))
	}
	return &record, nil
}

func (s *service) ListRecords(ctx context.Context, filter RecordQueryFilter) ([]model.Record, error) {
	query := s.db.WithContext(ctx).Model(&model.Record{})
	if filter.Limit != nil {
		query = query.Limit(*filter.Limit)
	}
	if filter.Offset != nil {
		query = query.Offset(*filter.Offset)
	}

	records := []model.Record{}
	if err := query.Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// UpdateRecord locks the record, lets mutate change it and writes every column
// back, all inside one transaction. Returning an error from mutate rolls back.
// The write is an UPDATE only; a row that is gone is reported as ErrNotFound.
func (s *service) UpdateRecord(ctx context.Context, id uint, mutate func(record *model.Record) error) (*model.Record, error) {
	var record model.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&record).Error; err != nil {
			return translate(err)
		}
		if err := mutate(&record); err != nil {
			return err
		}
		// mutate always moves lastmodificationdate, so MySQL's changed-rows
		// count is non-zero whenever the row exists.
		result := tx.Model(&record).Select("*").Updates(&record)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update record %d: %w", id, err)
	}
	return &record, nil
}

func (s *service) DeleteRecord(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Record{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete record %d: %w", id, ErrNotFound)
	}
	return nil
}
