package models

import "gorm.io/gorm"

// Like represents a like on a post. Like visibility follows the parent post.
type Like struct {
	gorm.Model
	PostID string `json:"post_id" gorm:"index;uniqueIndex:idx_like_post_user"` // ID of the post that was liked (MongoDB ObjectID as string)
	UserID uint   `json:"user_id" gorm:"index;uniqueIndex:idx_like_post_user"` // ID of the user who liked the post
}
