package repositories

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist or its id is malformed
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a versioned write keeps losing races
	ErrConflict = errors.New("concurrent update conflict")
)

func translateGorm(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func translateMongo(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func objectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return objID, nil
}
