package models

import "time"

// Reminder is a private to-do owned by one user (PostgreSQL `reminders`)
type Reminder struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"index;size:128"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	DateTime  time.Time `json:"dateTime" gorm:"index"`
	Completed bool      `json:"completed" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateReminderRequest defines the request body for a new reminder.
// Date and time are kept separate the way the client form collects them.
type CreateReminderRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=150"`
	Notes    string `json:"notes,omitempty" validate:"max=1000"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,hhmm"`
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// ReminderView is a reminder with its derived overdue flag
type ReminderView struct {
	Reminder
	Overdue bool `json:"overdue"`
}

// ReminderBoard splits a user's reminders into the two lists the client renders
type ReminderBoard struct {
	Upcoming  []ReminderView `json:"upcoming"`
	Completed []ReminderView `json:"completed"`
}
