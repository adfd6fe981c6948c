package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon-booking-server/internal/models"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newAppt(date, slot string) *models.Appointment {
	return &models.Appointment{
		BaseModel:     models.BaseModel{ID: uuid.NewString(), CreatedAt: t0, UpdatedAt: t0},
		ServiceKey:    "corte-caballero",
		ServiceName:   "Corte Caballero",
		CustomerName:  "Ana",
		CustomerPhone: "3001234567",
		Date:          date,
		Time:          slot,
		Status:        models.StatusPending,
	}
}

func TestMemoryInsertConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	first := newAppt("2025-03-10", "11:00 AM")
	require.NoError(t, repo.Insert(ctx, first))

	err := repo.Insert(ctx, newAppt("2025-03-10", "11:00 AM"))
	assert.True(t, errors.Is(err, models.ErrSlotTaken))

	require.NoError(t, repo.Insert(ctx, newAppt("2025-03-10", "11:30 AM")))
	require.NoError(t, repo.Insert(ctx, newAppt("2025-03-11", "11:00 AM")))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryCancelFreesSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	first := newAppt("2025-03-10", "3:00 PM")
	require.NoError(t, repo.Insert(ctx, first))
	_, err := repo.UpdateStatus(ctx, first.ID, models.StatusCancelled, t0.Add(time.Minute))
	require.NoError(t, err)

	require.NoError(t, repo.Insert(ctx, newAppt("2025-03-10", "3:00 PM")))
}

func TestMemoryCompletedStillHoldsSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	first := newAppt("2025-03-10", "4:00 PM")
	require.NoError(t, repo.Insert(ctx, first))
	_, err := repo.UpdateStatus(ctx, first.ID, models.StatusConfirmed, t0)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, first.ID, models.StatusCompleted, t0)
	require.NoError(t, err)

	err = repo.Insert(ctx, newAppt("2025-03-10", "4:00 PM"))
	assert.ErrorIs(t, err, models.ErrSlotTaken)
}

func TestMemoryUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	a := newAppt("2025-03-10", "10:00 AM")
	require.NoError(t, repo.Insert(ctx, a))

	_, err := repo.UpdateStatus(ctx, "missing", models.StatusConfirmed, t0)
	assert.ErrorIs(t, err, models.ErrAppointmentNotFound)

	_, err = repo.UpdateStatus(ctx, a.ID, models.StatusCompleted, t0)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	later := t0.Add(2 * time.Hour)
	updated, err := repo.UpdateStatus(ctx, a.ID, models.StatusConfirmed, later)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, t0, updated.CreatedAt)

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrAppointmentNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	a := newAppt("2025-03-10", "10:00 AM")
	require.NoError(t, repo.Insert(ctx, a))

	a.Status = models.StatusCompleted
	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	got.Status = models.StatusCancelled

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, list[0].Status)
}

func TestMemoryListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	for _, s := range []struct{ date, slot string }{
		{"2025-03-10", "2:00 PM"},
		{"2025-03-09", "8:30 PM"},
		{"2025-03-10", "10:00 AM"},
		{"2025-03-10", "1:00 PM"},
	} {
		require.NoError(t, repo.Insert(ctx, newAppt(s.date, s.slot)))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	var got []string
	for _, a := range list {
		got = append(got, a.Date+" "+a.Time)
	}
	assert.Equal(t, []string{
		"2025-03-09 8:30 PM",
		"2025-03-10 10:00 AM",
		"2025-03-10 1:00 PM",
		"2025-03-10 2:00 PM",
	}, got)
}

func TestMemoryConcurrentInsertSameSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	const n = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Insert(ctx, newAppt("2025-03-10", "5:00 PM"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, models.ErrSlotTaken):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, conflicts)
}

func TestMemoryDistinctSlotsAllSucceed(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	ids := map[string]bool{}
	for day := 10; day < 13; day++ {
		for _, slot := range models.TimeSlots {
			a := newAppt(fmt.Sprintf("2025-03-%02d", day), slot)
			require.NoError(t, repo.Insert(ctx, a))
			ids[a.ID] = true
		}
	}
	assert.Len(t, ids, 3*len(models.TimeSlots))
}
