package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/covers"
)

func setupCoverRouter(t *testing.T, opts covers.Options) *gin.Engine {
	t.Helper()
	cache, err := covers.NewCache(t.TempDir(), opts)
	require.NoError(t, err)
	return NewRouter(RouterConfig{Sessions: newTestRegistry(t, 0), CoverCache: cache})
}

func TestCoversController_Cover(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png bytes"))
	}))
	defer cdn.Close()

	router := setupCoverRouter(t, covers.Options{})
	base := "/api/sessions/" + openSession(t, router)

	// No book open yet
	w := doJSON(t, router, http.MethodGet, base+"/detail/cover", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	book := gin.H{"title": "사피엔스", "authors": []string{"유발 하라리"}, "thumbnail": cdn.URL + "/s.png"}
	w = doJSON(t, router, http.MethodPost, base+"/detail?wait=true", gin.H{"book": book})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, base+"/detail/cover", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age")
}

func TestCoversController_Errors(t *testing.T) {
	router := setupCoverRouter(t, covers.Options{AllowedHosts: []string{"search1.kakaocdn.net"}})
	base := "/api/sessions/" + openSession(t, router)

	w := doJSON(t, router, http.MethodPost, base+"/detail?wait=true", gin.H{"book": gin.H{"title": "no cover"}})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, base+"/detail/cover", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/detail?wait=true", gin.H{"book": gin.H{"title": "elsewhere", "thumbnail": "https://example.com/a.png"}})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, base+"/detail/cover", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_CoverRouteDisabledWithoutCache(t *testing.T) {
	router, _ := setupRouter(t, 0)
	base := "/api/sessions/" + openSession(t, router)

	w := doJSON(t, router, http.MethodGet, base+"/detail/cover", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
