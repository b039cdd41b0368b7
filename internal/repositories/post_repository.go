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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, error)
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	CountPosts(ctx context.Context, authorID string) (int64, error)
	DeletePost(ctx context.Context, id string) error
	AddLike(ctx context.Context, postID, userID string) (*models.Post, error)
	RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error)
	IncrementCommentCount(ctx context.Context, postID string, delta int) error
	DeleteAllPosts(ctx context.Context) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.Likes == nil {
		post.Likes = models.UserSet{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		return nil, translateMongo(err)
	}
	return &post, nil
}

// GetPostsByAuthor retrieves posts by a specific author, newest first
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{"authorId": authorID}, skip, limit)
}

// GetAllPosts retrieves the feed, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.D{}, skip, limit)
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}, skip, limit int64) ([]models.Post, error) {
	posts := []models.Post{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the number of posts, optionally only those by authorID
func (r *MongoPostRepository) CountPosts(ctx context.Context, authorID string) (int64, error) {
	filter := bson.M{}
	if authorID != "" {
		filter["authorId"] = authorID
	}
	return r.collection.CountDocuments(ctx, filter)
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
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

// AddLike adds userID to the post's likes. Liking twice is a no-op.
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return r.updateAndGet(ctx, postID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLike removes userID from the post's likes
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return r.updateAndGet(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *MongoPostRepository) updateAndGet(ctx context.Context, postID string, update bson.M) (*models.Post, error) {
	objID, err := objectID(postID)
	if err != nil {
		return nil, err
	}

	var post models.Post
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&post); err != nil {
		return nil, translateMongo(err)
	}
	return &post, nil
}

// IncrementCommentCount adjusts the denormalized comment counter
func (r *MongoPostRepository) IncrementCommentCount(ctx context.Context, postID string, delta int) error {
	objID, err := objectID(postID)
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

// DeleteAllPosts empties the collection
func (r *MongoPostRepository) DeleteAllPosts(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.D{})
	return err
}
