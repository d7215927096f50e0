package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a catalog grouping; top-level categories have a nil parent.
type Category struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name          string     `gorm:"column:name;not null"`
	Slug          string     `gorm:"column:slug;not null;uniqueIndex"`
	ImageURL      *string    `gorm:"column:image_url"`
	ParentID      *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	Subcategories []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
