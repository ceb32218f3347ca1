package models

import "time"

// WishlistItem marks a course a user wants to buy later.
type WishlistItem struct {
	UserID   string    `gorm:"primaryKey;type:uuid" json:"userId"`
	CourseID string    `gorm:"primaryKey;type:uuid;index" json:"courseId"`
	AddedAt  time.Time `gorm:"autoCreateTime" json:"addedAt"`

	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"course,omitempty"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
