package forum_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/accounts"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/forum"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/kit"
)

// asUser injects an authenticated request context the way the accounts
// middleware would after resolving a session cookie.
func asUser(r *http.Request, userID, username, role, sessionID string) *http.Request {
	ctx := kit.WithUserID(r.Context(), userID)
	ctx = kit.WithUsername(ctx, username)
	ctx = kit.WithRole(ctx, role)
	ctx = kit.WithSessionID(ctx, sessionID)
	return r.WithContext(ctx)
}

func newRouter(t *testing.T) (*chi.Mux, *forum.Store, *sql.DB) {
	t.Helper()
	store, db := newStore(t)
	r := chi.NewRouter()
	forum.NewHandler(store, nil).RegisterHTTP(r)
	return r, store, db
}

type partialResponse struct {
	HTML    string `json:"html"`
	HasNext bool   `json:"has_next"`
	Page    int    `json:"page"`
}

func getPartial(t *testing.T, r http.Handler, query string) (int, partialResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/forum/partial?"+query, nil)
	req = asUser(req, "u1", "tester", accounts.RoleUser, "sess_t")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body partialResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode partial: %v", err)
		}
	}
	return rec.Code, body
}

func TestPartial_RequiresLogin(t *testing.T) {
	r, _, _ := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/forum/partial", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestPartial_TwoPageContract(t *testing.T) {
	r, store, db := newRouter(t)
	seedPosts(t, store, db, 11)

	code, page1 := getPartial(t, r, "page=1")
	if code != http.StatusOK || !page1.HasNext || page1.Page != 1 {
		t.Fatalf("page 1 = %d %+v", code, page1)
	}
	if got := strings.Count(page1.HTML, "post-card"); got != 6 {
		t.Fatalf("page 1 rendered %d cards, want 6", got)
	}

	code, page2 := getPartial(t, r, "page=2")
	if code != http.StatusOK || page2.HasNext || page2.Page != 2 {
		t.Fatalf("page 2 = %d %+v", code, page2)
	}
	if got := strings.Count(page2.HTML, "post-card"); got != 5 {
		t.Fatalf("page 2 rendered %d cards, want 5", got)
	}
}

// Overrunning the last page returns the empty-state fragment with status 200,
// has_next false, and page reset to 1.
func TestPartial_OutOfRangePage(t *testing.T) {
	r, store, db := newRouter(t)
	seedPosts(t, store, db, 3)

	code, res := getPartial(t, r, "page=999")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if res.HTML != forum.EmptyPartial || res.HasNext || res.Page != 1 {
		t.Fatalf("overrun response = %+v", res)
	}
}

func TestPartial_CategoryFilter(t *testing.T) {
	r, store, _ := newRouter(t)
	ctx := context.Background()
	if _, err := store.CreatePost(ctx, forum.CreatePostInput{
		Title: "Kit launch", CategorySlug: "merch", Body: "jersey baru"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreatePost(ctx, forum.CreatePostInput{
		Title: "Final schedule", CategorySlug: "match", Body: "jadwal final"}); err != nil {
		t.Fatal(err)
	}

	code, res := getPartial(t, r, "category=merch")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(res.HTML, "Kit launch") || strings.Contains(res.HTML, "Final schedule") {
		t.Fatalf("category filter leaked: %q", res.HTML)
	}
}

func TestCreatePost_ReturnsCardFragment(t *testing.T) {
	r, _, _ := newRouter(t)
	form := url.Values{"title": {"Halo"}, "category": {"news"}, "body": {"isi"}}
	req := httptest.NewRequest(http.MethodPost, "/forum/posts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = asUser(req, "u1", "tester", accounts.RoleUser, "sess_t")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		OK   bool   `json:"ok"`
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.OK || !strings.Contains(body.HTML, "Halo") {
		t.Fatalf("create response = %+v", body)
	}
}

func TestCreatePost_MissingBodyIs400(t *testing.T) {
	r, _, _ := newRouter(t)
	form := url.Values{"title": {"Halo"}, "category": {"news"}}
	req := httptest.NewRequest(http.MethodPost, "/forum/posts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = asUser(req, "u1", "tester", accounts.RoleUser, "sess_t")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDelete_RequiresModerator(t *testing.T) {
	r, store, _ := newRouter(t)
	p, err := store.CreatePost(context.Background(), forum.CreatePostInput{
		Title: "Hapus saya", CategorySlug: "news", Body: "x"})
	if err != nil {
		t.Fatal(err)
	}

	// Regular user, AJAX: 403 with the {ok:false} envelope.
	req := httptest.NewRequest(http.MethodPost, "/forum/posts/"+p.Slug+"/delete", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req = asUser(req, "u1", "tester", accounts.RoleUser, "sess_t")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user delete status = %d, want 403", rec.Code)
	}

	// Admin, AJAX: deletes and confirms.
	req = httptest.NewRequest(http.MethodPost, "/forum/posts/"+p.Slug+"/delete", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req = asUser(req, "a1", "admin", accounts.RoleAdmin, "sess_a")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin delete status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	if _, err := store.GetPost(context.Background(), p.Slug); err == nil {
		t.Fatal("post still present after delete")
	}
}

func TestLike_Toggle(t *testing.T) {
	r, store, _ := newRouter(t)
	p, err := store.CreatePost(context.Background(), forum.CreatePostInput{
		Title: "Populer", CategorySlug: "news", Body: "x"})
	if err != nil {
		t.Fatal(err)
	}

	like := func() (bool, int) {
		req := httptest.NewRequest(http.MethodPost, "/forum/posts/"+p.Slug+"/like", nil)
		req = asUser(req, "u1", "tester", accounts.RoleUser, "sess_t")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("like status = %d", rec.Code)
		}
		var body struct {
			Liked     bool `json:"liked"`
			LikeCount int  `json:"like_count"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		return body.Liked, body.LikeCount
	}

	if liked, n := like(); !liked || n != 1 {
		t.Fatalf("first like = %v %d", liked, n)
	}
	if liked, n := like(); liked || n != 0 {
		t.Fatalf("second like = %v %d", liked, n)
	}
}
