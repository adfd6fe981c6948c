package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salon-booking-server/internal/models"
)

// GormRepository stores appointments in MySQL through gorm.
type GormRepository struct {
	DB *gorm.DB

	// insertMu serializes inserts from this process; the row lock in the
	// transaction covers other processes sharing the database.
	insertMu sync.Mutex
}

// NewGormRepository creates a repository on an already migrated connection.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

// MySQL error numbers that mean another writer got to the slot first.
const (
	errDuplicateEntry = 1062
	errLockDeadlock   = 1213
)

// insertAttempts bounds how often a deadlocked insert is replayed.
const insertAttempts = 2

// Insert stores appt unless a non-cancelled appointment already holds its
// slot. Two writers locking the same empty slot range can deadlock; the
// loser is replayed once so it sees the winner's row, and a second deadlock
// is reported as ErrSlotTaken rather than a storage failure.
func (r *GormRepository) Insert(ctx context.Context, appt *models.Appointment) error {
	r.insertMu.Lock()
	defer r.insertMu.Unlock()

	var err error
	for attempt := 1; attempt <= insertAttempts; attempt++ {
		err = r.insertOnce(ctx, appt)
		if !isMySQLError(err, errLockDeadlock) {
			break
		}
	}
	if isMySQLError(err, errLockDeadlock) || isMySQLError(err, errDuplicateEntry) {
		return models.ErrSlotTaken
	}
	return err
}

func (r *GormRepository) insertOnce(ctx context.Context, appt *models.Appointment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		err := tx.Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slot_date = ? AND slot_time = ? AND status <> ?", appt.Date, appt.Time, models.StatusCancelled).
			Count(&taken).Error
		if err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		if taken > 0 {
			return models.ErrSlotTaken
		}
		if err := tx.Create(appt).Error; err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
		return nil
	})
}

func isMySQLError(err error, number uint16) bool {
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == number
}

func (r *GormRepository) Get(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.DB.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (r *GormRepository) List(ctx context.Context) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := r.DB.WithContext(ctx).Order("slot_date asc").Find(&appts).Error; err != nil {
		return nil, err
	}
	models.SortAppointments(appts)
	return appts, nil
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id string, to models.AppointmentStatus, at time.Time) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&appt, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrAppointmentNotFound
			}
			return err
		}
		if err := appt.TransitionTo(to, at); err != nil {
			return err
		}
		return tx.Model(&appt).UpdateColumns(map[string]any{
			"status":     appt.Status,
			"updated_at": appt.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &appt, nil
}
