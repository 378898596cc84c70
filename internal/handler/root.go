package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RootHandler answers the bare liveness greeting on "/".
type RootHandler struct {
	Handler
}

func NewRootHandler(h Handler) *RootHandler {
	return &RootHandler{Handler: h}
}

func (h *RootHandler) Hello(c echo.Context) error {
	return c.String(http.StatusOK, "Hello, World!")
}
