package model

import (
	"strconv"

	"github.com/deppfellow/blog-api/internal/validation"
)

// Client-facing messages for request violations.
const (
	MsgTitleRequired    = "Title cannot be empty"
	MsgContentRequired  = "Content cannot be empty"
	MsgCategoryRequired = "Category cannot be empty"
	MsgTagsRequired     = "At least one tag is required"
	MsgTagEmpty         = "Tags cannot contain empty values"
	MsgInvalidPostID    = "Invalid blog post id"
	MsgTermRequired     = "Search term is required"
)

// PostID is a blog post id taken from the request path.
// Only positive integers are accepted.
type PostID int64

// UnmarshalParam implements echo.BindUnmarshaler.
func (id *PostID) UnmarshalParam(param string) error {
	v, err := strconv.ParseInt(param, 10, 64)
	if err != nil || v <= 0 {
		return &validation.InvalidParamError{Message: MsgInvalidPostID}
	}
	*id = PostID(v)
	return nil
}

// Int64 returns the id as stored.
func (id PostID) Int64() int64 {
	return int64(id)
}

var postMessages = validation.Messages{
	"title":    MsgTitleRequired,
	"content":  MsgContentRequired,
	"category": MsgCategoryRequired,
	"tags":     MsgTagsRequired,
	"tags[]":   MsgTagEmpty,
}

// PostPayload is the JSON body accepted by create and update.
type PostPayload struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Tags     []string `json:"tags" validate:"required,min=1,dive,required"`
}

func (p *PostPayload) Validate() error {
	return validation.Struct(p, postMessages)
}

// Input converts the payload into repository input.
func (p *PostPayload) Input() BlogPostInput {
	return BlogPostInput{
		Title:    p.Title,
		Content:  p.Content,
		Category: p.Category,
		Tags:     p.Tags,
	}
}

// ------------------------------------------------------------

type CreatePostRequest struct {
	PostPayload
}

// ------------------------------------------------------------

type UpdatePostRequest struct {
	ID PostID `param:"id" json:"-"`
	PostPayload
}

// ------------------------------------------------------------

// PostIDRequest is used by read and delete; only the path id is checked.
type PostIDRequest struct {
	ID PostID `param:"id" json:"-"`
}

func (r *PostIDRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

type ListPostsRequest struct{}

func (r *ListPostsRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

type SearchPostsRequest struct {
	Term string `query:"term" json:"-" validate:"required"`
}

func (r *SearchPostsRequest) Validate() error {
	return validation.Struct(r, validation.Messages{"term": MsgTermRequired})
}
