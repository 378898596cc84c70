package handler

import (
	"github.com/deppfellow/blog-api/internal/model"
	"github.com/deppfellow/blog-api/internal/service"
	"github.com/labstack/echo/v4"
)

type PostHandler struct {
	Handler
	posts *service.PostService
}

func NewPostHandler(h Handler, posts *service.PostService) *PostHandler {
	return &PostHandler{Handler: h, posts: posts}
}

func (h *PostHandler) CreatePost(c echo.Context, req *model.CreatePostRequest) (model.BlogPost, error) {
	return h.posts.Create(c.Request().Context(), req.Input())
}

func (h *PostHandler) ListPosts(c echo.Context, _ *model.ListPostsRequest) ([]model.BlogPost, error) {
	return h.posts.List(c.Request().Context())
}

func (h *PostHandler) GetPost(c echo.Context, req *model.PostIDRequest) (model.BlogPost, error) {
	return h.posts.Get(c.Request().Context(), req.ID.Int64())
}

func (h *PostHandler) UpdatePost(c echo.Context, req *model.UpdatePostRequest) (model.BlogPost, error) {
	return h.posts.Update(c.Request().Context(), req.ID.Int64(), req.Input())
}

func (h *PostHandler) DeletePost(c echo.Context, req *model.PostIDRequest) error {
	return h.posts.Delete(c.Request().Context(), req.ID.Int64())
}

func (h *PostHandler) SearchPosts(c echo.Context, req *model.SearchPostsRequest) ([]model.BlogPost, error) {
	return h.posts.Search(c.Request().Context(), req.Term)
}
