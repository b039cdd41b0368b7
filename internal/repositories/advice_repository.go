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

// AdviceRepository defines the interface for advice board operations
type AdviceRepository interface {
	CreateAdvice(ctx context.Context, advice *models.AdvicePost) error
	GetAdviceByID(ctx context.Context, id string) (*models.AdvicePost, error)
	GetAllAdvice(ctx context.Context) ([]models.AdvicePost, error)
	DeleteAdvice(ctx context.Context, id string) error
	SetVote(ctx context.Context, adviceID, userID, direction string) (*models.AdvicePost, error)
	ClearVote(ctx context.Context, adviceID, userID string) (*models.AdvicePost, error)
	IncrementCommentCount(ctx context.Context, adviceID string, delta int) error
	DeleteAllAdvice(ctx context.Context) error
}

// MongoAdviceRepository implements AdviceRepository for MongoDB
type MongoAdviceRepository struct {
	collection *mongo.Collection
}

// NewMongoAdviceRepository creates a new MongoAdviceRepository
func NewMongoAdviceRepository(db *mongo.Database) *MongoAdviceRepository {
	return &MongoAdviceRepository{collection: db.Collection("advicePosts")}
}

// CreateAdvice inserts an advice post
func (r *MongoAdviceRepository) CreateAdvice(ctx context.Context, advice *models.AdvicePost) error {
	advice.ID = primitive.NewObjectID()
	if advice.CreatedAt.IsZero() {
		advice.CreatedAt = time.Now().UTC()
	}
	if advice.Upvotes == nil {
		advice.Upvotes = models.UserSet{}
	}
	if advice.Downvotes == nil {
		advice.Downvotes = models.UserSet{}
	}
	_, err := r.collection.InsertOne(ctx, advice)
	return err
}

// GetAdviceByID retrieves an advice post by id
func (r *MongoAdviceRepository) GetAdviceByID(ctx context.Context, id string) (*models.AdvicePost, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var advice models.AdvicePost
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&advice); err != nil {
		return nil, translateMongo(err)
	}
	return &advice, nil
}

// GetAllAdvice lists the board, newest first
func (r *MongoAdviceRepository) GetAllAdvice(ctx context.Context) ([]models.AdvicePost, error) {
	posts := []models.AdvicePost{}
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// DeleteAdvice deletes an advice post by id
func (r *MongoAdviceRepository) DeleteAdvice(ctx context.Context, id string) error {
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

// SetVote records direction for userID and drops any opposite vote in the same update
func (r *MongoAdviceRepository) SetVote(ctx context.Context, adviceID, userID, direction string) (*models.AdvicePost, error) {
	add, pull := "upvotes", "downvotes"
	if direction == models.VoteDown {
		add, pull = pull, add
	}
	return r.updateAndGet(ctx, adviceID, bson.M{
		"$addToSet": bson.M{add: userID},
		"$pull":     bson.M{pull: userID},
	})
}

// ClearVote removes userID from both vote sets
func (r *MongoAdviceRepository) ClearVote(ctx context.Context, adviceID, userID string) (*models.AdvicePost, error) {
	return r.updateAndGet(ctx, adviceID, bson.M{
		"$pull": bson.M{"upvotes": userID, "downvotes": userID},
	})
}

func (r *MongoAdviceRepository) updateAndGet(ctx context.Context, adviceID string, update bson.M) (*models.AdvicePost, error) {
	objID, err := objectID(adviceID)
	if err != nil {
		return nil, err
	}
	var advice models.AdvicePost
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&advice); err != nil {
		return nil, translateMongo(err)
	}
	return &advice, nil
}

// IncrementCommentCount adjusts the denormalized comment counter
func (r *MongoAdviceRepository) IncrementCommentCount(ctx context.Context, adviceID string, delta int) error {
	objID, err := objectID(adviceID)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"commentCount": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllAdvice empties the collection
func (r *MongoAdviceRepository) DeleteAllAdvice(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.D{})
	return err
}
