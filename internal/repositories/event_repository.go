package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/petconnect/backend/internal/models"
)

// EventRepository defines the interface for event data operations
type EventRepository interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	GetEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id string) error
	AddAttendee(ctx context.Context, eventID, userID string) (*models.Event, error)
	RemoveAttendee(ctx context.Context, eventID, userID string) (*models.Event, error)
	DeleteAllEvents(ctx context.Context) error
}

// MongoEventRepository implements EventRepository for MongoDB
type MongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new MongoEventRepository
func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{collection: db.Collection("events")}
}

// CreateEvent inserts an event
func (r *MongoEventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	event.ID = primitive.NewObjectID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.Attendees == nil {
		event.Attendees = models.UserSet{}
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// GetEventByID retrieves an event by id
func (r *MongoEventRepository) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&event); err != nil {
		return nil, translateMongo(err)
	}
	return &event, nil
}

// GetEvents lists all events, soonest first
func (r *MongoEventRepository) GetEvents(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEvent saves the organizer-editable fields. Attendees are never overwritten here.
func (r *MongoEventRepository) UpdateEvent(ctx context.Context, event *models.Event) error {
	update := bson.M{
		"$set": bson.M{
			"title":       event.Title,
			"description": event.Description,
			"date":        event.Date,
			"location":    event.Location,
			"petType":     event.PetType,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": event.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEvent deletes an event by id
func (r *MongoEventRepository) DeleteEvent(ctx context.Context, id string) error {
	objID, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddAttendee adds userID to the attendee set
func (r *MongoEventRepository) AddAttendee(ctx context.Context, eventID, userID string) (*models.Event, error) {
	return r.updateAndGet(ctx, eventID, bson.M{"$addToSet": bson.M{"attendees": userID}})
}

// RemoveAttendee removes userID from the attendee set
func (r *MongoEventRepository) RemoveAttendee(ctx context.Context, eventID, userID string) (*models.Event, error) {
	return r.updateAndGet(ctx, eventID, bson.M{"$pull": bson.M{"attendees": userID}})
}

func (r *MongoEventRepository) updateAndGet(ctx context.Context, eventID string, update bson.M) (*models.Event, error) {
	objID, err := objectID(eventID)
	if err != nil {
		return nil, err
	}
	var event models.Event
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&event); err != nil {
		return nil, translateMongo(err)
	}
	return &event, nil
}

// DeleteAllEvents empties the collection
func (r *MongoEventRepository) DeleteAllEvents(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.D{})
	return err
}
