package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

// ReminderService manages private reminders
type ReminderService struct {
	reminders repositories.ReminderRepository
	now       func() time.Time
}

// NewReminderService creates a ReminderService
func NewReminderService(reminders repositories.ReminderRepository) *ReminderService {
	return &ReminderService{reminders: reminders, now: time.Now}
}

// CombineDateTime joins a YYYY-MM-DD date and an H:MM or HH:MM time in the given
// IANA zone (UTC when empty).
func CombineDateTime(date, clock, timezone string) (time.Time, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, timezone)
		}
		loc = l
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	hh, mm, ok := strings.Cut(clock, ":")
	hour, herr := strconv.Atoi(hh)
	minute, merr := strconv.Atoi(mm)
	if !ok || herr != nil || merr != nil || len(mm) != 2 || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc), nil
}

// CreateReminder stores a reminder owned by the actor
func (s *ReminderService) CreateReminder(ctx context.Context, actor models.Identity, req models.CreateReminderRequest) (*models.ReminderView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	at, err := CombineDateTime(req.Date, req.Time, req.Timezone)
	if err != nil {
		return nil, err
	}
	reminder := &models.Reminder{
		UserID:   actor.UserID,
		Title:    strings.TrimSpace(req.Title),
		Notes:    req.Notes,
		DateTime: at.UTC(),
	}
	if err := s.reminders.CreateReminder(ctx, reminder); err != nil {
		return nil, err
	}
	v := s.toView(*reminder, s.now())
	return &v, nil
}

// Board returns the actor's reminders split into upcoming and completed, each by due time
func (s *ReminderService) Board(ctx context.Context, actor models.Identity) (*models.ReminderBoard, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	list, err := s.reminders.GetRemindersByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	board := &models.ReminderBoard{
		Upcoming:  []models.ReminderView{},
		Completed: []models.ReminderView{},
	}
	for _, r := range list {
		v := s.toView(r, now)
		if r.Completed {
			board.Completed = append(board.Completed, v)
		} else {
			board.Upcoming = append(board.Upcoming, v)
		}
	}
	return board, nil
}

// ToggleReminder flips the completed flag of one of the actor's reminders
func (s *ReminderService) ToggleReminder(ctx context.Context, actor models.Identity, id uint) (*models.ReminderView, error) {
	reminder, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	reminder.Completed = !reminder.Completed
	if err := s.reminders.SetCompleted(ctx, id, reminder.Completed); err != nil {
		return nil, err
	}
	v := s.toView(*reminder, s.now())
	return &v, nil
}

// DeleteReminder removes one of the actor's reminders
func (s *ReminderService) DeleteReminder(ctx context.Context, actor models.Identity, id uint) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return s.reminders.DeleteReminder(ctx, id)
}

func (s *ReminderService) owned(ctx context.Context, actor models.Identity, id uint) (*models.Reminder, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	reminder, err := s.reminders.GetReminderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reminder.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: reminder belongs to another user", ErrForbidden)
	}
	return reminder, nil
}

func (s *ReminderService) toView(r models.Reminder, now time.Time) models.ReminderView {
	return models.ReminderView{
		Reminder: r,
		Overdue:  !r.Completed && r.DateTime.Before(now),
	}
}
