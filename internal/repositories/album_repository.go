package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/huddle-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlbumNotFound is returned when an album does not exist (or its ID is malformed)
var ErrAlbumNotFound = fmt.Errorf("album not found")

// ErrMediaNotFound is returned when a media item does not exist (or its ID is malformed)
var ErrMediaNotFound = fmt.Errorf("media not found")

// AlbumRepository defines the interface for album and media data operations
type AlbumRepository interface {
	CreateAlbum(ctx context.Context, album *models.Album) error
	GetAlbumByID(ctx context.Context, id string) (*models.Album, error)
	GetAlbumsByUserID(ctx context.Context, userID uint, privacies []models.Privacy) ([]models.Album, error)
	UpdateAlbum(ctx context.Context, id string, album *models.Album) error
	DeleteAlbum(ctx context.Context, id string) error
	AddMedia(ctx context.Context, media *models.Media) error
	GetMediaByID(ctx context.Context, id string) (*models.Media, error)
	GetMediaByAlbumID(ctx context.Context, albumID string, privacies []models.Privacy) ([]models.Media, error)
	DeleteMedia(ctx context.Context, id string) error
	DeleteMediaByAlbumID(ctx context.Context, albumID string) ([]models.Media, error)
}

// MongoAlbumRepository implements AlbumRepository for MongoDB
type MongoAlbumRepository struct {
	albums *mongo.Collection
	media  *mongo.Collection
}

// NewMongoAlbumRepository creates a new MongoAlbumRepository
func NewMongoAlbumRepository(db *mongo.Database) *MongoAlbumRepository {
	return &MongoAlbumRepository{
		albums: db.Collection("albums"),
		media:  db.Collection("media"),
	}
}

// CreateAlbum creates a new album in MongoDB
func (r *MongoAlbumRepository) CreateAlbum(ctx context.Context, album *models.Album) error {
	album.ID = primitive.NewObjectID()
	album.CreatedAt = time.Now()
	album.UpdatedAt = album.CreatedAt
	_, err := r.albums.InsertOne(ctx, album)
	return err
}

// GetAlbumByID retrieves an album by ID from MongoDB
func (r *MongoAlbumRepository) GetAlbumByID(ctx context.Context, id string) (*models.Album, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrAlbumNotFound
	}

	var album models.Album
	err = r.albums.FindOne(ctx, bson.M{"_id": objID}).Decode(&album)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}
	return &album, nil
}

// GetAlbumsByUserID retrieves a user's albums restricted to the given privacy levels
func (r *MongoAlbumRepository) GetAlbumsByUserID(ctx context.Context, userID uint, privacies []models.Privacy) ([]models.Album, error) {
	if len(privacies) == 0 {
		return []models.Album{}, nil
	}

	var albums []models.Album
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	filter := bson.M{"user_id": userID, "privacy": bson.M{"$in": privacies}}
	cursor, err := r.albums.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// UpdateAlbum updates an existing album in MongoDB
func (r *MongoAlbumRepository) UpdateAlbum(ctx context.Context, id string, album *models.Album) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrAlbumNotFound
	}

	album.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":        album.Name,
			"description": album.Description,
			"privacy":     album.Privacy,
			"updated_at":  album.UpdatedAt,
		},
	}
	res, err := r.albums.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

// DeleteAlbum deletes an album by ID from MongoDB
func (r *MongoAlbumRepository) DeleteAlbum(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrAlbumNotFound
	}

	res, err := r.albums.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

// AddMedia inserts a media item and bumps the album's media counter
func (r *MongoAlbumRepository) AddMedia(ctx context.Context, media *models.Media) error {
	media.ID = primitive.NewObjectID()
	media.CreatedAt = time.Now()
	if _, err := r.media.InsertOne(ctx, media); err != nil {
		return err
	}
	_, err := r.albums.UpdateOne(ctx, bson.M{"_id": media.AlbumID}, bson.M{"$inc": bson.M{"media_count": 1}})
	return err
}

// GetMediaByID retrieves a media item by ID from MongoDB
func (r *MongoAlbumRepository) GetMediaByID(ctx context.Context, id string) (*models.Media, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrMediaNotFound
	}

	var media models.Media
	err = r.media.FindOne(ctx, bson.M{"_id": objID}).Decode(&media)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &media, nil
}

// GetMediaByAlbumID retrieves an album's media restricted to the given privacy levels
func (r *MongoAlbumRepository) GetMediaByAlbumID(ctx context.Context, albumID string, privacies []models.Privacy) ([]models.Media, error) {
	objID, err := primitive.ObjectIDFromHex(albumID)
	if err != nil {
		return nil, ErrAlbumNotFound
	}
	if len(privacies) == 0 {
		return []models.Media{}, nil
	}

	var items []models.Media
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	filter := bson.M{"album_id": objID, "privacy": bson.M{"$in": privacies}}
	cursor, err := r.media.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteMedia deletes a media item and bumps the album's media counter
func (r *MongoAlbumRepository) DeleteMedia(ctx context.Context, id string) error {
	media, err := r.GetMediaByID(ctx, id)
	if err != nil {
		return err
	}

	res, err := r.media.DeleteOne(ctx, bson.M{"_id": media.ID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrMediaNotFound
	}
	_, err = r.albums.UpdateOne(ctx, bson.M{"_id": media.AlbumID}, bson.M{"$inc": bson.M{"media_count": -1}})
	return err
}

// DeleteMediaByAlbumID deletes every media item of an album and returns the
// deleted items so callers can clean up their activity rows
func (r *MongoAlbumRepository) DeleteMediaByAlbumID(ctx context.Context, albumID string) ([]models.Media, error) {
	objID, err := primitive.ObjectIDFromHex(albumID)
	if err != nil {
		return nil, ErrAlbumNotFound
	}

	var items []models.Media
	cursor, err := r.media.Find(ctx, bson.M{"album_id": objID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}

	if _, err := r.media.DeleteMany(ctx, bson.M{"album_id": objID}); err != nil {
		return nil, err
	}
	return items, nil
}
