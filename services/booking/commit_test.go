package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"ragchat/database/repository/bookingRepo"
	"ragchat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBookingRepo struct {
	bookingRepo.BookingRepository
	err     error
	created []models.BookingRecord
}

func (s *stubBookingRepo) Create(_ context.Context, name, email, date, clock string) (*models.BookingRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec := models.BookingRecord{ID: "b-1", Name: name, Email: email, Date: date, Time: clock, CreatedAt: time.Now()}
	s.created = append(s.created, rec)
	return &rec, nil
}

func TestCommitter_Commit(t *testing.T) {
	repo := &stubBookingRepo{}
	c := NewCommitter(repo, zap.NewNop())

	rec, err := c.Commit(context.Background(), ValidatedBooking{Name: "Ann", Email: "ann@x.com", Date: "2025-03-01", Time: "15:00:00"})
	require.NoError(t, err)
	assert.Equal(t, "b-1", rec.ID)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "15:00:00", repo.created[0].Time)
}

func TestCommitter_PersistenceError(t *testing.T) {
	boom := errors.New("connection reset")
	c := NewCommitter(&stubBookingRepo{err: boom}, zap.NewNop())

	rec, err := c.Commit(context.Background(), ValidatedBooking{Name: "Ann", Email: "ann@x.com", Date: "2025-03-01", Time: "15:00:00"})
	assert.Nil(t, rec)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, boom)
	assert.False(t, perr.Duplicate())
}

func TestCommitter_Duplicate(t *testing.T) {
	c := NewCommitter(&stubBookingRepo{err: bookingRepo.ErrDuplicateBooking}, zap.NewNop())

	_, err := c.Commit(context.Background(), ValidatedBooking{Name: "Ann", Email: "ann@x.com", Date: "2025-03-01", Time: "15:00:00"})
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Duplicate())
}
