package services

import (
	"context"
	"fmt"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

// EventService manages community events and RSVPs
type EventService struct {
	events        repositories.EventRepository
	users         repositories.UserRepository
	notifications *NotificationService
}

// NewEventService creates an EventService
func NewEventService(events repositories.EventRepository, users repositories.UserRepository, notifications *NotificationService) *EventService {
	return &EventService{events: events, users: users, notifications: notifications}
}

// CreateEvent schedules an event organized by the actor
func (s *EventService) CreateEvent(ctx context.Context, actor models.Identity, req models.CreateEventRequest) (*models.EventView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	event := &models.Event{
		AuthorID:    actor.UserID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date.UTC(),
		Location:    req.Location,
		PetType:     req.PetType,
		Attendees:   models.UserSet{},
	}
	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	return s.view(ctx, actor, event)
}

// ListEvents returns every event, soonest first
func (s *EventService) ListEvents(ctx context.Context, actor models.Identity) ([]models.EventView, error) {
	events, err := s.events.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.AuthorID
	}
	organizers, err := compactUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.EventView, len(events))
	for i, e := range events {
		views[i] = toEventView(actor, e, organizers[e.AuthorID])
	}
	return views, nil
}

// GetEvent loads one event as seen by the actor
func (s *EventService) GetEvent(ctx context.Context, actor models.Identity, id string) (*models.EventView, error) {
	event, err := s.events.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, actor, event)
}

// UpdateEvent edits an event. Only the organizer may do so.
func (s *EventService) UpdateEvent(ctx context.Context, actor models.Identity, id string, req models.UpdateEventRequest) (*models.EventView, error) {
	event, err := s.organizedEvent(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		event.Date = req.Date.UTC()
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.PetType != nil {
		event.PetType = *req.PetType
	}
	if err := s.events.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}
	return s.view(ctx, actor, event)
}

// DeleteEvent cancels an event. Only the organizer may do so.
func (s *EventService) DeleteEvent(ctx context.Context, actor models.Identity, id string) error {
	if _, err := s.organizedEvent(ctx, actor, id); err != nil {
		return err
	}
	return s.events.DeleteEvent(ctx, id)
}

// RSVP adds the actor to the attendees
func (s *EventService) RSVP(ctx context.Context, actor models.Identity, id string) (models.RSVPState, error) {
	return s.setAttendance(ctx, actor, id, true)
}

// CancelRSVP removes the actor from the attendees
func (s *EventService) CancelRSVP(ctx context.Context, actor models.Identity, id string) (models.RSVPState, error) {
	return s.setAttendance(ctx, actor, id, false)
}

// ToggleRSVP flips the actor's attendance
func (s *EventService) ToggleRSVP(ctx context.Context, actor models.Identity, id string) (models.RSVPState, error) {
	if err := requireActor(actor); err != nil {
		return models.RSVPState{}, err
	}
	event, err := s.events.GetEventByID(ctx, id)
	if err != nil {
		return models.RSVPState{}, err
	}
	return s.setAttendance(ctx, actor, id, !event.Attendees.Contains(actor.UserID))
}

func (s *EventService) setAttendance(ctx context.Context, actor models.Identity, id string, attend bool) (models.RSVPState, error) {
	if err := requireActor(actor); err != nil {
		return models.RSVPState{}, err
	}
	before, err := s.events.GetEventByID(ctx, id)
	if err != nil {
		return models.RSVPState{}, err
	}
	if before.AuthorID == actor.UserID {
		return models.RSVPState{}, ErrOrganizerCannotRSVP
	}

	var event *models.Event
	if attend {
		event, err = s.events.AddAttendee(ctx, id, actor.UserID)
	} else {
		event, err = s.events.RemoveAttendee(ctx, id, actor.UserID)
	}
	if err != nil {
		return models.RSVPState{}, err
	}

	if attend && !before.Attendees.Contains(actor.UserID) {
		s.notifications.Notify(ctx, models.Notification{
			Type:        models.NotificationRSVP,
			ActorID:     actor.UserID,
			RecipientID: event.AuthorID,
			TargetID:    id,
			TargetType:  "event",
			Message:     "is going to " + event.Title,
		})
	}
	return models.RSVPState{
		EventID:       id,
		Attending:     event.Attendees.Contains(actor.UserID),
		AttendeeCount: event.Attendees.Len(),
	}, nil
}

func (s *EventService) organizedEvent(ctx context.Context, actor models.Identity, id string) (*models.Event, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	event, err := s.events.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.AuthorID != actor.UserID {
		return nil, fmt.Errorf("%w: only the organizer can change this event", ErrForbidden)
	}
	return event, nil
}

func (s *EventService) view(ctx context.Context, actor models.Identity, event *models.Event) (*models.EventView, error) {
	organizers, err := compactUsers(ctx, s.users, []string{event.AuthorID})
	if err != nil {
		return nil, err
	}
	v := toEventView(actor, *event, organizers[event.AuthorID])
	return &v, nil
}

func toEventView(actor models.Identity, e models.Event, organizer models.UserCompact) models.EventView {
	return models.EventView{
		Event:         e,
		Organizer:     organizer,
		AttendeeCount: e.Attendees.Len(),
		Attending:     !actor.IsZero() && e.Attendees.Contains(actor.UserID),
		IsOrganizer:   !actor.IsZero() && e.AuthorID == actor.UserID,
	}
}
