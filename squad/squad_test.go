package squad_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/dbopen"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/kit"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/squad"
	_ "modernc.org/sqlite"
)

func newStore(t *testing.T) (*squad.Store, *sql.DB) {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(squad.Schema))
	return squad.NewStore(db), db
}

func TestRoleTagFor(t *testing.T) {
	cases := map[string]string{
		"GK":  squad.RoleGoalkeeper,
		"LWB": squad.RoleDefender,
		"CB":  squad.RoleDefender,
		"RWB": squad.RoleDefender,
		"CDM": squad.RoleMidfielder,
		"CAM": squad.RoleMidfielder,
		"LW":  squad.RoleAttacker,
		"ST":  squad.RoleAttacker,
		"RW":  squad.RoleAttacker,
		"":    squad.RoleMidfielder,
	}
	for pos, want := range cases {
		if got := squad.RoleTagFor(pos); got != want {
			t.Fatalf("RoleTagFor(%q) = %q, want %q", pos, got, want)
		}
	}
}

func TestPlayerAge(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	p := squad.Player{BirthDate: "2004-07-01"}
	if got := p.Age(now); got != 22 {
		t.Fatalf("age = %d, want 22", got)
	}
	// Birthday later this year: not yet 22.
	p.BirthDate = "2004-09-15"
	if got := p.Age(now); got != 21 {
		t.Fatalf("age before birthday = %d, want 21", got)
	}
	p.BirthDate = ""
	if got := p.Age(now); got != -1 {
		t.Fatalf("unknown birth date age = %d, want -1", got)
	}
}

func TestCreate_ValidatesPositions(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	p, err := store.Create(ctx, squad.Input{Name: "Rizky", Position1: "ST", Position2: "RW"})
	if err != nil {
		t.Fatal(err)
	}
	if p.RoleTag() != squad.RoleAttacker {
		t.Fatalf("role = %q, want ATTACKER", p.RoleTag())
	}
	if p.PositionDisplay() != "ST / RW" {
		t.Fatalf("display = %q", p.PositionDisplay())
	}

	if _, err := store.Create(ctx, squad.Input{Name: "Y", BirthDate: "not-a-date"}); !errors.Is(err, squad.ErrInvalidInput) {
		t.Fatalf("bad birth date err = %v, want ErrInvalidInput", err)
	}
}

func TestCreate_CoercesUnknownPositions(t *testing.T) {
	store, _ := newStore(t)

	p, err := store.Create(context.Background(), squad.Input{Name: "X", Position1: "STRIKER"})
	if err != nil {
		t.Fatalf("unknown position must not reject: %v", err)
	}
	if p.Position1 != "" {
		t.Fatalf("position1 = %q, want coerced to empty", p.Position1)
	}
	if p.RoleTag() != squad.RoleMidfielder {
		t.Fatalf("role = %q, want MIDFIELDER fallback", p.RoleTag())
	}
}

func seedRoster(t *testing.T, store *squad.Store, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	players := []squad.Input{
		{Name: "Adi", Position1: "GK"},
		{Name: "Bima", Position1: "CB"},
		{Name: "Candra", Position1: "CM"},
		{Name: "Dimas", Position1: "ST"},
		{Name: "Eko", Position1: "CB"},
	}
	for i, in := range players {
		p, err := store.Create(ctx, in)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.Exec(`UPDATE players SET created_at = ? WHERE id = ?`, int64(100+i), p.ID); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRoster_RoleFilterViaListingEngine(t *testing.T) {
	store, db := newStore(t)
	seedRoster(t, store, db)

	r := chi.NewRouter()
	squad.NewHandler(store, nil).RegisterHTTP(r)

	req := httptest.NewRequest(http.MethodGet, "/squad/partial?role=DEFENDER", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res struct {
		HTML string `json:"html"`
		Page int    `json:"page"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Bima", "Eko"} {
		if !strings.Contains(res.HTML, name) {
			t.Fatalf("defender %s missing from %q", name, res.HTML)
		}
	}
	for _, name := range []string{"Adi", "Candra", "Dimas"} {
		if strings.Contains(res.HTML, name) {
			t.Fatalf("non-defender %s leaked into %q", name, res.HTML)
		}
	}
	// Insertion order survives the filter.
	if strings.Index(res.HTML, "Bima") > strings.Index(res.HTML, "Eko") {
		t.Fatal("roster order lost")
	}
}

func TestRoster_Search(t *testing.T) {
	store, db := newStore(t)
	seedRoster(t, store, db)

	r := chi.NewRouter()
	squad.NewHandler(store, nil).RegisterHTTP(r)

	req := httptest.NewRequest(http.MethodGet, "/squad/partial?q=candra", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var res struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.HTML, "Candra") || strings.Contains(res.HTML, "Bima") {
		t.Fatalf("search result = %q", res.HTML)
	}
}

// Admin mutations answer with {id, role_tag, html} so the client can place
// the card in the right roster section.
func TestCreateHandler_ReturnsRoleTagAndCard(t *testing.T) {
	store, _ := newStore(t)
	r := chi.NewRouter()
	squad.NewHandler(store, nil).RegisterHTTP(r)

	form := url.Values{
		"name":      {"Fajar"},
		"position1": {"gk"},
		"caps":      {"not-a-number"},
		"goals":     {"-2"},
	}
	req := httptest.NewRequest(http.MethodPost, "/squad/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx := kit.WithUserID(req.Context(), "a1")
	ctx = kit.WithRole(ctx, "ADMIN")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		ID      string `json:"id"`
		RoleTag string `json:"role_tag"`
		HTML    string `json:"html"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.ID == "" || body.RoleTag != squad.RoleGoalkeeper {
		t.Fatalf("response = %+v", body)
	}
	if !strings.Contains(body.HTML, "Fajar") {
		t.Fatalf("card fragment = %q", body.HTML)
	}

	// caps/goals took the parse-or-default path.
	p, err := store.Get(context.Background(), body.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Caps != 0 || p.Goals != 0 {
		t.Fatalf("caps %d goals %d, want 0 0", p.Caps, p.Goals)
	}
}

func TestMutations_RequireAdmin(t *testing.T) {
	store, _ := newStore(t)
	r := chi.NewRouter()
	squad.NewHandler(store, nil).RegisterHTTP(r)

	req := httptest.NewRequest(http.MethodPost, "/squad/create", strings.NewReader("name=Z"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx := kit.WithUserID(req.Context(), "u1")
	ctx = kit.WithRole(ctx, "USER")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user create status = %d, want 403", rec.Code)
	}
}

func TestRoster_Pagination(t *testing.T) {
	store, db := newStore(t)
	ctx := context.Background()
	for i := 1; i <= 8; i++ {
		p, err := store.Create(ctx, squad.Input{Name: fmt.Sprintf("Pemain %02d", i), Position1: "CM"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.Exec(`UPDATE players SET created_at = ? WHERE id = ?`, int64(100+i), p.ID); err != nil {
			t.Fatal(err)
		}
	}

	r := chi.NewRouter()
	squad.NewHandler(store, nil).RegisterHTTP(r)

	req := httptest.NewRequest(http.MethodGet, "/squad/partial?page=2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var res struct {
		HTML    string `json:"html"`
		HasNext bool   `json:"has_next"`
		Page    int    `json:"page"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Page != 2 || res.HasNext {
		t.Fatalf("page 2 envelope = %+v", res)
	}
	if got := strings.Count(res.HTML, "player-card"); got != 2 {
		t.Fatalf("page 2 rendered %d cards, want 2", got)
	}
}
