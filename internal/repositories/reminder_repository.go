package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/anonto42/petconnect/backend/internal/models"
)

// ReminderRepository defines the interface for reminder data operations
type ReminderRepository interface {
	CreateReminder(ctx context.Context, reminder *models.Reminder) error
	GetReminderByID(ctx context.Context, id uint) (*models.Reminder, error)
	GetRemindersByUser(ctx context.Context, userID string) ([]models.Reminder, error)
	SetCompleted(ctx context.Context, id uint, completed bool) error
	DeleteReminder(ctx context.Context, id uint) error
}

// PostgresReminderRepository implements ReminderRepository for PostgreSQL
type PostgresReminderRepository struct {
	db *gorm.DB
}

// NewPostgresReminderRepository creates a new PostgresReminderRepository
func NewPostgresReminderRepository(db *gorm.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

// CreateReminder inserts a reminder
func (r *PostgresReminderRepository) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

// GetReminderByID retrieves a reminder by id
func (r *PostgresReminderRepository) GetReminderByID(ctx context.Context, id uint) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := r.db.WithContext(ctx).First(&reminder, id).Error; err != nil {
		return nil, translateGorm(err)
	}
	return &reminder, nil
}

// GetRemindersByUser lists a user's reminders ordered by due time
func (r *PostgresReminderRepository) GetRemindersByUser(ctx context.Context, userID string) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("date_time ASC").Order("id ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

// SetCompleted flips the completed flag
func (r *PostgresReminderRepository) SetCompleted(ctx context.Context, id uint, completed bool) error {
	res := r.db.WithContext(ctx).Model(&models.Reminder{}).Where("id = ?", id).Update("completed", completed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReminder deletes a reminder by id
func (r *PostgresReminderRepository) DeleteReminder(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Reminder{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
