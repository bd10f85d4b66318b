// Package records implements the record lifecycle: creation, lookup, listing,
// sparse updates and deletion, each write stamped with the acting username.
package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ubuygold/recordkeeper/internal/db"
	"github.com/ubuygold/recordkeeper/internal/model"
)

var (
	ErrEmptyRecord    = errors.New("at least one field must be populated")
	ErrRecordNotFound = errors.New("record does not exist")
)

// Fields are the four client-writable record values. Each is independently
// absent, explicitly null, or set.
type Fields struct {
	Timestamp model.Optional[float64] `json:"timestamp"`
	Value1    model.Optional[string]  `json:"value1"`
	Value2    model.Optional[float64] `json:"value2"`
	Value3    model.Optional[bool]    `json:"value3"`
}

// ListFilter limits a listing. Nil fields mean no limit / no offset.
type ListFilter struct {
	Limit  *int
	Offset *int
}

// Manager is the record service used by the API surface.
type Manager interface {
	Create(ctx context.Context, fields Fields, actor string) (*model.Record, error)
	Get(ctx context.Context, id uint) (*model.Record, error)
	List(ctx context.Context, filter ListFilter) ([]model.RecordSummary, error)
	Update(ctx context.Context, id uint, fields Fields, actor string) (*model.Record, error)
	Delete(ctx context.Context, id uint, actor string) error
}

// Service implements Manager on top of db.Service.
type Service struct {
	db     db.Service
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new record Service.
func NewService(dbService db.Service, logger *slog.Logger) *Service {
	return &Service{
		db:     dbService,
		logger: logger.With("component", "records"),
		now:    time.Now,
	}
}

// Create inserts a record built from fields. Absent and null fields are stored as null.
func (s *Service) Create(ctx context.Context, fields Fields, actor string) (*model.Record, error) {
	now := s.now().UnixMilli()
	record := &model.Record{
		Timestamp:            fields.Timestamp.Ptr(),
		Value1:               fields.Value1.Ptr(),
		Value2:               fields.Value2.Ptr(),
		Value3:               fields.Value3.Ptr(),
		CreationDate:         now,
		LastModificationDate: now,
		LastModifiedBy:       actor,
	}
	if record.IsEmpty() {
		return nil, ErrEmptyRecord
	}

	if err := s.db.CreateRecord(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Debug("Created record", "record_id", record.ID, "by", actor)
	return record, nil
}

// Get fetches one record.
func (s *Service) Get(ctx context.Context, id uint) (*model.Record, error) {
	record, err := s.db.GetRecord(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return record, nil
}

// List returns every record in id order, projected for list views.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]model.RecordSummary, error) {
	records, err := s.db.ListRecords(ctx, db.RecordQueryFilter{Limit: filter.Limit, Offset: filter.Offset})
	if err != nil {
		return nil, err
	}

	summaries := make([]model.RecordSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, record.Summary())
	}
	return summaries, nil
}

// Update overwrites the fields present in fields and always refreshes the
// modification stamp, even when no field is present. Clearing every field
// through explicit nulls is allowed.
func (s *Service) Update(ctx context.Context, id uint, fields Fields, actor string) (*model.Record, error) {
	record, err := s.db.UpdateRecord(ctx, id, func(record *model.Record) error {
		fields.Timestamp.ApplyTo(&record.Timestamp)
		fields.Value1.ApplyTo(&record.Value1)
		fields.Value2.ApplyTo(&record.Value2)
		fields.Value3.ApplyTo(&record.Value3)

		modified := s.now().UnixMilli()
		if modified <= record.LastModificationDate {
			modified = record.LastModificationDate + 1
		}
		record.LastModificationDate = modified
		record.LastModifiedBy = actor
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err)
	}

	s.logger.Debug("Modified record", "record_id", id, "by", actor)
	return record, nil
}

// Delete permanently removes a record. The actor is logged, not stored.
func (s *Service) Delete(ctx context.Context, id uint, actor string) error {
	if err := s.db.DeleteRecord(ctx, id); err != nil {
		return notFoundOr(err)
	}
	s.logger.Debug("Removed record", "record_id", id, "by", actor)
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	return err
}
