package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Album represents a media album stored in MongoDB
type Album struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      uint               `json:"user_id" bson:"user_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Privacy     Privacy            `json:"privacy" bson:"privacy"`
	MediaCount  int                `json:"media_count" bson:"media_count"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

func (a *Album) OwnerUserID() uint     { return a.UserID }
func (a *Album) PrivacyLevel() Privacy { return a.Privacy }

// Media represents a single media item inside an album. A media item carries
// its own privacy so it can be stricter than the album that contains it.
type Media struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AlbumID   primitive.ObjectID `json:"album_id" bson:"album_id"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	URL       string             `json:"url" bson:"url"`
	Caption   string             `json:"caption,omitempty" bson:"caption,omitempty"`
	Privacy   Privacy            `json:"privacy" bson:"privacy"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

func (m *Media) OwnerUserID() uint     { return m.UserID }
func (m *Media) PrivacyLevel() Privacy { return m.Privacy }

// CreateAlbumRequest defines the request body for creating a new album
type CreateAlbumRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Privacy     Privacy `json:"privacy" validate:"required,oneof=public friends_only private"`
}

// UpdateAlbumRequest defines the request body for updating an existing album
type UpdateAlbumRequest struct {
	Name        string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Privacy     Privacy `json:"privacy,omitempty" validate:"omitempty,oneof=public friends_only private"`
}

// CreateMediaRequest defines the request body for adding media to an album
type CreateMediaRequest struct {
	URL     string  `json:"url" validate:"required,url"`
	Caption string  `json:"caption,omitempty" validate:"omitempty,max=280"`
	Privacy Privacy `json:"privacy" validate:"required,oneof=public friends_only private"`
}
