package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/covers"
)

// CoversController serves the cover of the book open on a session's detail screen.
type CoversController struct {
	sessions *SessionsController
	cache    *covers.Cache
}

func NewCoversController(sessions *SessionsController, cache *covers.Cache) *CoversController {
	return &CoversController{sessions: sessions, cache: cache}
}

// Cover handles GET /api/sessions/:id/detail/cover.
func (cc *CoversController) Cover(c *gin.Context) {
	detail, ok := cc.sessions.detail(c)
	if !ok {
		return
	}

	path, err := cc.cache.Path(c.Request.Context(), detail.State().Book)
	switch {
	case errors.Is(err, covers.ErrNoCover):
		respondNotFound(c, "cover")
		return
	case errors.Is(err, covers.ErrHostNotAllowed):
		respondError(c, http.StatusForbidden, "cover host not allowed")
		return
	case err != nil:
		respondError(c, http.StatusBadGateway, "cover unavailable")
		return
	}

	c.Header("Cache-Control", "private, max-age=86400")
	c.File(path)
}
