// AngelaMos | 2026
// handler_test.go

package archive

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonyo2/yugwan/internal/board"
	"github.com/joonyo2/yugwan/internal/core"
)

func passthrough(next http.Handler) http.Handler { return next }

type gateRecorder struct {
	denied map[string]bool
	seen   []string
}

func (g *gateRecorder) gate(boardType string, mode board.Mode) func(http.Handler) http.Handler {
	key := boardType + ":" + string(mode)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g.seen = append(g.seen, key)
			if g.denied[key] {
				core.Forbidden(w, "insufficient membership tier for this board")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newRouter(repo *fakeRepo, g *gateRecorder) chi.Router {
	svc, _ := newTestService(repo)
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, passthrough, passthrough, g.gate)
	return r
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestListNoticesEndpoint(t *testing.T) {
	repo := newFakeRepo()
	repo.notices = []Notice{
		{ID: 1, Category: NoticeContest, Title: "Contest rules", Content: "long body", CreatedAt: fixedNow},
	}
	g := &gateRecorder{}
	router := newRouter(repo, g)

	rec := do(router, http.MethodGet, "/archive/notices/?category=contest&page_size=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []NoticeResponse `json:"data"`
		Meta core.PageMeta    `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Data, 1)
	assert.Equal(t, "웅변대회", body.Data[0].CategoryDisplay)
	assert.Empty(t, body.Data[0].Content)
	assert.Equal(t, 5, body.Meta.PageSize)
	assert.Equal(t, []string{"notice:read"}, g.seen)
}

func TestListNoticesBadFilters(t *testing.T) {
	router := newRouter(newFakeRepo(), &gateRecorder{})

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/archive/notices/?is_pinned=maybe", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/archive/notices/?category=gossip", "").Code)
}

func TestGetNoticeEndpoint(t *testing.T) {
	repo := newFakeRepo()
	repo.notices = []Notice{{ID: 3, Category: NoticeGeneral, Content: "full text"}}
	router := newRouter(repo, &gateRecorder{})

	rec := do(router, http.MethodGet, "/archive/notices/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"content":"full text"`)
	assert.Contains(t, rec.Body.String(), `"views":1`)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/archive/notices/4", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/archive/notices/x", "").Code)
}

func TestCreateNoticeGatedByWritePolicy(t *testing.T) {
	g := &gateRecorder{denied: map[string]bool{"notice:write": true}}
	router := newRouter(newFakeRepo(), g)

	body := `{"category":"general","title":"Hello","content":"Body","author":"admin"}`
	rec := do(router, http.MethodPost, "/archive/notices/", body)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []string{"notice:write"}, g.seen)
}

func TestCreateNoticeEndpoint(t *testing.T) {
	repo := newFakeRepo()
	router := newRouter(repo, &gateRecorder{})

	rec := do(router, http.MethodPost, "/archive/notices/", `{"category":"weird","title":"Hello","content":"Body","author":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, "/archive/notices/", `{"category":"general","title":"Hello","content":"Body","author":"admin"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, repo.notices, 1)
}

func TestGetAlbumEndpoint(t *testing.T) {
	repo := newFakeRepo()
	repo.albums = []Album{{ID: 5, Category: AlbumGlobal, EventDate: core.NewDate(2026, time.April, 1), ImageCount: 1}}
	repo.images[5] = []Image{{ID: 50, AlbumID: 5, ImageURL: "https://cdn.example.org/a.jpg"}}
	g := &gateRecorder{}
	router := newRouter(repo, g)

	rec := do(router, http.MethodGet, "/archive/gallery/albums/5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data AlbumResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "국제교류", body.Data.CategoryDisplay)
	assert.Equal(t, "2026-04-01", body.Data.EventDate.String())
	require.Len(t, body.Data.Images, 1)
	assert.Equal(t, []string{"gallery:read"}, g.seen)
}

func TestCreateVideoEndpoint(t *testing.T) {
	repo := newFakeRepo()
	router := newRouter(repo, &gateRecorder{})

	rec := do(router, http.MethodPost, "/archive/gallery/videos/", `{"title":"Final round","youtube_url":"https://youtu.be/abc","duration":"12:30"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(router, http.MethodGet, "/archive/gallery/videos/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"duration":"12:30"`)
}

func TestNewsHasNoDetailRoute(t *testing.T) {
	router := newRouter(newFakeRepo(), &gateRecorder{})

	rec := do(router, http.MethodGet, "/archive/news/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
