package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pet types an event can target
const (
	PetTypeDog    = "Dog"
	PetTypeCat    = "Cat"
	PetTypeBird   = "Bird"
	PetTypeRabbit = "Rabbit"
	PetTypeAll    = "All"
)

// Event is a community meetup stored in MongoDB
type Event struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID    string             `json:"authorId" bson:"authorId"` // organizer
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Date        time.Time          `json:"date" bson:"date"`
	Location    string             `json:"location" bson:"location"`
	PetType     string             `json:"petType" bson:"petType"`
	Attendees   UserSet            `json:"attendees" bson:"attendees"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// CreateEventRequest defines the request body for creating an event
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=150"`
	Description string    `json:"description" validate:"required,max=2000"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location" validate:"required,max=200"`
	PetType     string    `json:"petType" validate:"required,pettype"`
}

// UpdateEventRequest defines the request body for editing an event
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Date        *time.Time `json:"date,omitempty"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	PetType     *string    `json:"petType,omitempty" validate:"omitempty,pettype"`
}

// RSVPState is returned after an RSVP change
type RSVPState struct {
	EventID       string `json:"eventId"`
	Attending     bool   `json:"attending"`
	AttendeeCount int    `json:"attendeeCount"`
}

// EventView is an event with its organizer card and the viewer's RSVP
type EventView struct {
	Event
	Organizer     UserCompact `json:"organizer"`
	AttendeeCount int         `json:"attendeeCount"`
	Attending     bool        `json:"attending"`
	IsOrganizer   bool        `json:"isOrganizer"`
}
