package records

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ubuygold/recordkeeper/internal/db/dbtest"
	"github.com/ubuygold/recordkeeper/internal/model"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixedClock returns a clock that only moves when advanced.
func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	current := start
	return func() time.Time { return current }, func(d time.Duration) { current = current.Add(d) }
}

func newTestService(t *testing.T) (*Service, func(time.Duration)) {
	t.Helper()
	svc := NewService(dbtest.NewSQLite(t), discardLogger)
	now, advance := fixedClock(time.UnixMilli(1_700_000_000_000))
	svc.now = now
	return svc, advance
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps creation metadata", func(t *testing.T) {
		svc, _ := newTestService(t)

		record, err := svc.Create(ctx, Fields{Value1: model.Some("x")}, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint(1), record.ID)
		assert.Equal(t, "x", *record.Value1)
		assert.Nil(t, record.Timestamp)
		assert.Nil(t, record.Value2)
		assert.Nil(t, record.Value3)
		assert.Equal(t, "alice", record.LastModifiedBy)
		assert.Equal(t, int64(1_700_000_000_000), record.CreationDate)
		assert.Equal(t, record.CreationDate, record.LastModificationDate)
	})

	t.Run("false and zero count as populated", func(t *testing.T) {
		svc, _ := newTestService(t)

		record, err := svc.Create(ctx, Fields{Value3: model.Some(false)}, "alice")
		require.NoError(t, err)
		require.NotNil(t, record.Value3)
		assert.False(t, *record.Value3)

		_, err = svc.Create(ctx, Fields{Timestamp: model.Some(0.0)}, "alice")
		assert.NoError(t, err)
	})

	t.Run("rejects an empty record without inserting", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, Fields{}, "alice")
		assert.ErrorIs(t, err, ErrEmptyRecord)

		// Explicit nulls are as empty as absent fields.
		_, err = svc.Create(ctx, Fields{
			Timestamp: model.Null[float64](),
			Value1:    model.Null[string](),
			Value2:    model.Null[float64](),
			Value3:    model.Null[bool](),
		}, "alice")
		assert.ErrorIs(t, err, ErrEmptyRecord)

		list, err := svc.List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	created, err := svc.Create(ctx, Fields{Value2: model.Some(2.5)}, "alice")
	require.NoError(t, err)

	record, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, *record.Value2)
	assert.Equal(t, created.CreationDate, record.CreationDate)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, Fields{Value1: model.Some("a")}, "alice")
	require.NoError(t, err)
	_, err = svc.Create(ctx, Fields{Value1: model.Some("b")}, "bob")
	require.NoError(t, err)

	list, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", *list[0].Value1)
	assert.Equal(t, "alice", list[0].LastModifiedBy)
	assert.Equal(t, "bob", list[1].LastModifiedBy)

	limit := 1
	list, err = svc.List(ctx, ListFilter{Limit: &limit})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("sparse update keeps unnamed fields", func(t *testing.T) {
		svc, advance := newTestService(t)
		created, err := svc.Create(ctx, Fields{Value1: model.Some("x"), Value3: model.Some(true)}, "alice")
		require.NoError(t, err)

		advance(time.Second)
		updated, err := svc.Update(ctx, created.ID, Fields{Value2: model.Some(3.14)}, "bob")
		require.NoError(t, err)

		assert.Equal(t, "x", *updated.Value1)
		assert.Equal(t, 3.14, *updated.Value2)
		assert.True(t, *updated.Value3)
		assert.Nil(t, updated.Timestamp)
		assert.Equal(t, created.CreationDate, updated.CreationDate)
		assert.Equal(t, created.LastModificationDate+1000, updated.LastModificationDate)
		assert.Equal(t, "bob", updated.LastModifiedBy)

		stored, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("empty update still touches the record", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.Create(ctx, Fields{Value1: model.Some("x")}, "alice")
		require.NoError(t, err)

		// The clock has not moved, the stamp must still increase.
		updated, err := svc.Update(ctx, created.ID, Fields{}, "bob")
		require.NoError(t, err)
		assert.Equal(t, "x", *updated.Value1)
		assert.Greater(t, updated.LastModificationDate, created.LastModificationDate)
		assert.Equal(t, "bob", updated.LastModifiedBy)
	})

	t.Run("explicit nulls may clear every field", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.Create(ctx, Fields{Value1: model.Some("x")}, "alice")
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, Fields{Value1: model.Null[string]()}, "alice")
		require.NoError(t, err)
		assert.True(t, updated.IsEmpty())
	})

	t.Run("missing record", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Update(ctx, 99, Fields{Value1: model.Some("x")}, "alice")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.Create(ctx, Fields{Value1: model.Some("x")}, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, "alice"))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = svc.Delete(ctx, created.ID, "alice")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")

	mockDB := new(dbtest.MockService)
	mockDB.On("GetRecord", mock.Anything, uint(1)).Return(nil, boom)
	mockDB.On("ListRecords", mock.Anything, mock.Anything).Return(nil, boom)
	mockDB.On("DeleteRecord", mock.Anything, uint(1)).Return(boom)
	mockDB.On("CreateRecord", mock.Anything, mock.Anything).Return(boom)

	svc := NewService(mockDB, discardLogger)

	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrRecordNotFound)

	_, err = svc.List(ctx, ListFilter{})
	assert.ErrorIs(t, err, boom)

	err = svc.Delete(ctx, 1, "alice")
	assert.ErrorIs(t, err, boom)

	_, err = svc.Create(ctx, Fields{Value1: model.Some("x")}, "alice")
	assert.ErrorIs(t, err, boom)

	mockDB.AssertExpectations(t)
}
