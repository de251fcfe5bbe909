package models

import "time"

// Activity types. The set is closed but extensible: adding a new
// activity-producing content kind means a new type constant plus a subject
// loader registration.
const (
	ActivityPostCreated  = "post_created"
	ActivityPostLiked    = "post_liked"
	ActivityCommentAdded = "comment_added"
	ActivityAlbumCreated = "album_created"
	ActivityMediaAdded   = "media_added"
)

// Subject type tags for the polymorphic subject reference on Activity.
const (
	SubjectPost    = "post"
	SubjectComment = "comment"
	SubjectAlbum   = "album"
	SubjectMedia   = "media"
)

// Activity is one fan-out row in a single user's feed. One logical action
// produces one row per feed owner (each friend of the actor, plus the actor).
// Rows are write-once: they are only ever created by fan-out and deleted when
// their subject is deleted. Data is a preview snapshot taken at write time and
// is not kept in sync with later edits to the subject.
type Activity struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	UserID      uint              `json:"user_id" gorm:"index:idx_activity_feed,priority:1"` // feed owner
	ActorID     uint              `json:"actor_id" gorm:"index"`
	Type        string            `json:"type" gorm:"size:30"`
	SubjectType string            `json:"subject_type" gorm:"size:20;index:idx_activity_subject,priority:1"`
	SubjectID   string            `json:"subject_id" gorm:"index:idx_activity_subject,priority:2"`
	Data        map[string]string `json:"data" gorm:"serializer:json"`
	CreatedAt   time.Time         `json:"created_at" gorm:"index:idx_activity_feed,priority:2,sort:desc"`
}
