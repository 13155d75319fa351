package model

import "github.com/google/uuid"

// Tag is a named, colored label accounts can carry. The ID is stable
// for the tag's lifetime; the name is only checked for uniqueness at
// creation time.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultTagColor is used when no color was picked.
const DefaultTagColor = "#6b7280"

// NewTag creates a Tag with a generated ID.
func NewTag(name, color string) Tag {
	if color == "" {
		color = DefaultTagColor
	}
	return Tag{
		ID:    "tag_" + uuid.New().String(),
		Name:  name,
		Color: color,
	}
}
