// Package model holds the persisted entities.
package model

import "time"

// BlogPost is a stored blog post.
// Tags keep their insertion order and are never empty.
type BlogPost struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Category  string    `json:"category" db:"category"`
	Tags      []string  `json:"tags" db:"tags"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BlogPostInput carries the four client-supplied fields of a post.
type BlogPostInput struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}
