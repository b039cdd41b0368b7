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

// ConversationRepository defines the interface for direct message operations
type ConversationRepository interface {
	EnsureIndexes(ctx context.Context) error
	FindOrCreateConversation(ctx context.Context, userA, userB string) (*models.Conversation, error)
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	GetConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	UpdateLastMessage(ctx context.Context, conversationID primitive.ObjectID, text string, at time.Time) error
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessages(ctx context.Context, conversationID primitive.ObjectID, limit int64) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID primitive.ObjectID, userID string) (int64, error)
	CountUnread(ctx context.Context, conversationID primitive.ObjectID, userID string) (int64, error)
}

// MongoConversationRepository implements ConversationRepository for MongoDB
type MongoConversationRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// NewMongoConversationRepository creates a new MongoConversationRepository
func NewMongoConversationRepository(db *mongo.Database) *MongoConversationRepository {
	return &MongoConversationRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

// EnsureIndexes creates the unique pair key and the message timeline index
func (r *MongoConversationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.conversations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "lastMessageAt", Value: -1}}},
	})
	if err != nil {
		return err
	}
	_, err = r.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

// FindOrCreateConversation returns the thread between two users, creating it atomically if needed
func (r *MongoConversationRepository) FindOrCreateConversation(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	key := models.ConversationKey(userA, userB)
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"key":           key,
			"participants":  models.UserSet{userA}.Add(userB),
			"lastMessage":   "",
			"lastMessageAt": now,
			"createdAt":     now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var conv models.Conversation
	err := r.conversations.FindOneAndUpdate(ctx, bson.M{"key": key}, update, opts).Decode(&conv)
	if mongo.IsDuplicateKeyError(err) {
		// lost the upsert race, the other writer's document is there now
		err = r.conversations.FindOne(ctx, bson.M{"key": key}).Decode(&conv)
	}
	if err != nil {
		return nil, translateMongo(err)
	}
	return &conv, nil
}

// GetConversationByID retrieves a conversation by id
func (r *MongoConversationRepository) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var conv models.Conversation
	if err := r.conversations.FindOne(ctx, bson.M{"_id": objID}).Decode(&conv); err != nil {
		return nil, translateMongo(err)
	}
	return &conv, nil
}

// GetConversationsForUser lists a user's threads, most recently active first
func (r *MongoConversationRepository) GetConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	convs := []models.Conversation{}
	cursor, err := r.conversations.Find(ctx, bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// UpdateLastMessage stores the preview of the latest message. Older writes never overwrite newer ones.
func (r *MongoConversationRepository) UpdateLastMessage(ctx context.Context, conversationID primitive.ObjectID, text string, at time.Time) error {
	_, err := r.conversations.UpdateOne(ctx,
		bson.M{"_id": conversationID, "lastMessageAt": bson.M{"$lte": at}},
		bson.M{"$set": bson.M{"lastMessage": text, "lastMessageAt": at}},
	)
	return err
}

// CreateMessage inserts a message. The sender has always read their own message.
func (r *MongoConversationRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	message.ReadBy = message.ReadBy.Add(message.SenderID)
	_, err := r.messages.InsertOne(ctx, message)
	return err
}

// GetMessages returns the latest limit messages of a conversation in chronological order
func (r *MongoConversationRepository) GetMessages(ctx context.Context, conversationID primitive.ObjectID, limit int64) ([]models.Message, error) {
	messages := []models.Message{}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.messages.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkRead adds userID to readBy of every message in the conversation
func (r *MongoConversationRepository) MarkRead(ctx context.Context, conversationID primitive.ObjectID, userID string) (int64, error) {
	res, err := r.messages.UpdateMany(ctx,
		bson.M{"conversationId": conversationID, "readBy": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"readBy": userID}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountUnread counts messages userID has not read yet
func (r *MongoConversationRepository) CountUnread(ctx context.Context, conversationID primitive.ObjectID, userID string) (int64, error) {
	return r.messages.CountDocuments(ctx, bson.M{
		"conversationId": conversationID,
		"readBy":         bson.M{"$ne": userID},
	})
}
