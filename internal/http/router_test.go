package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/lore-backend/internal/data/repos"
	"github.com/yungbote/lore-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lore-backend/internal/domain"
	httpH "github.com/yungbote/lore-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lore-backend/internal/http/middleware"
	"github.com/yungbote/lore-backend/internal/platform/identity"
	"github.com/yungbote/lore-backend/internal/platform/objectstore"
	"github.com/yungbote/lore-backend/internal/services"
)

// tokenVerifier accepts "token-<user id>".
type tokenVerifier struct{}

func (tokenVerifier) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	uid, ok := strings.CutPrefix(token, "token-")
	if !ok || uid == "" {
		return nil, errors.New("unknown token")
	}
	return &identity.Identity{UserID: uid, Email: uid + "@example.com"}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)

	r := NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, services.NewAuthService(log, tokenVerifier{})),
		MomentHandler:  httpH.NewMomentHandler(services.NewMomentService(db, log, set.Moments, set.UserMeta, time.UTC)),
		RecapHandler:   httpH.NewRecapHandler(services.NewRecapService(log, set.Recaps, objectstore.NewMemoryStore("https://cdn.example.com"), "")),
		UserHandler:    httpH.NewUserHandler(services.NewUserService(log, set.UserMeta)),
		HealthHandler:  httpH.NewHealthHandler(nil),
	})
	return r, db
}

func do(t *testing.T, r http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer token-"+user)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope %q: %v", rec.Body.String(), err)
	}
	return env.Error.Code
}

func TestPublicRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	if rec := do(t, r, http.MethodGet, "/healthcheck", "", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	do(t, r, http.MethodGet, "/healthcheck", "", "")
	rec := do(t, r, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "lore_api_requests_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/moments"},
		{http.MethodGet, "/api/moments"},
		{http.MethodGet, "/api/recaps"},
		{http.MethodGet, "/api/recaps/1"},
		{http.MethodGet, "/api/user/preferences"},
		{http.MethodPatch, "/api/user/art-style"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := do(t, r, rt.method, rt.path, "", "")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status: got=%d want=401", rec.Code)
			}
			if code := errorCode(t, rec); code != "unauthorized" {
				t.Fatalf("code: got=%q", code)
			}
		})
	}
}

func TestMomentRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/moments", "alice", `{"text":"walked the dog"}`)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Fatalf("add: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodGet, "/api/moments", "alice", "")
	var moments []types.Moment
	if err := json.Unmarshal(rec.Body.Bytes(), &moments); err != nil {
		t.Fatalf("decode moments: %v", err)
	}
	if len(moments) != 1 || moments[0].Text != "walked the dog" || moments[0].UserID != "alice" {
		t.Fatalf("moments: %+v", moments)
	}

	rec = do(t, r, http.MethodGet, "/api/moments", "bob", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("bob should see no moments, got %s", rec.Body.String())
	}

	cases := []struct {
		name string
		body string
	}{
		{"blank", `{"text":"   "}`},
		{"missing", `{}`},
		{"malformed", `{"text":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/moments", "alice", tc.body)
			if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_request" {
				t.Fatalf("got %d %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRecapRoutes(t *testing.T) {
	r, db := newTestRouter(t)
	at := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	own := testutil.SeedRecap(t, db, "alice", "run-a", "a quiet day", at)
	key := "recap-images/1710000000000.jpg"
	if err := db.Model(&types.Recap{}).Where("id = ?", own.ID).Update("image_id", key).Error; err != nil {
		t.Fatalf("set image: %v", err)
	}
	other := testutil.SeedRecap(t, db, "bob", "run-b", "not yours", at)

	rec := do(t, r, http.MethodGet, "/api/recaps", "alice", "")
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0]["text"] != "a quiet day" || list[0]["image_url"] != "https://cdn.example.com/"+key {
		t.Fatalf("list: %+v", list)
	}
	if _, leaked := list[0]["RunKey"]; leaked {
		t.Fatalf("run key must not be serialized")
	}

	rec = do(t, r, http.MethodGet, "/api/recaps/"+itoa(own.ID), "alice", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"a quiet day"`) {
		t.Fatalf("get own: %d %s", rec.Code, rec.Body.String())
	}

	for _, path := range []string{"/api/recaps/" + itoa(other.ID), "/api/recaps/999999"} {
		rec = do(t, r, http.MethodGet, path, "alice", "")
		if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
			t.Fatalf("%s: want null, got %d %s", path, rec.Code, rec.Body.String())
		}
	}

	for _, bad := range []string{"abc", "0", "-4", "1.5"} {
		rec = do(t, r, http.MethodGet, "/api/recaps/"+bad, "alice", "")
		if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_request" {
			t.Fatalf("id %q: got %d %s", bad, rec.Code, rec.Body.String())
		}
	}
}

func TestUserRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/api/user/preferences", "carol", "")
	var meta types.UserMeta
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decode preferences: %v", err)
	}
	if meta.UserID != "carol" || meta.ArtStyle != types.DefaultArtStyle || meta.Email != "carol@example.com" {
		t.Fatalf("preferences: %+v", meta)
	}

	rec = do(t, r, http.MethodPatch, "/api/user/art-style", "carol", `{"style":"childrens book"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update style: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, r, http.MethodGet, "/api/user/preferences", "carol", "")
	if !strings.Contains(rec.Body.String(), `"art_style":"childrens book"`) {
		t.Fatalf("style not persisted: %s", rec.Body.String())
	}

	rec = do(t, r, http.MethodPatch, "/api/user/art-style", "carol", `{"style":"pastel"}`)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_art_style" {
		t.Fatalf("invalid style: %d %s", rec.Code, rec.Body.String())
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
