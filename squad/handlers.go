package squad

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/accounts"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/form"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/kit"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/listing"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/observability"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/web"
)

// Handler serves the squad routes.
type Handler struct {
	store  *Store
	events *observability.EventLogger
}

// NewHandler creates the squad handler. events may be nil.
func NewHandler(store *Store, events *observability.EventLogger) *Handler {
	return &Handler{store: store, events: events}
}

// RegisterHTTP mounts the squad routes.
func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Get("/squad", h.handleRoster)
	r.Get("/squad/partial", h.handlePartial)
	r.Get("/squad/json", h.handleJSON)
	r.Get("/squad/json/{id}", h.handleJSONByID)
	r.Get("/squad/{id}", h.handleDetail)

	r.Group(func(r chi.Router) {
		r.Use(accounts.RequireLogin, accounts.RequireAdmin)
		r.Post("/squad/create", h.handleCreate)
		r.Post("/squad/{id}/update", h.handleUpdate)
		r.Post("/squad/{id}/delete", h.handleDelete)
	})
}

// rosterFields wires Player into the in-memory listing engine: the role tag
// plays the category, search spans name, club, and positions, and the roster
// orders ascending by entry time with name as tiebreak.
var rosterFields = listing.Fields[Player]{
	Category: func(p Player) string { return p.RoleTag() },
	Search: []func(Player) string{
		func(p Player) string { return p.Name },
		func(p Player) string { return p.Club },
		func(p Player) string { return p.PositionDisplay() },
	},
	Rank: func(p Player) int64 { return p.CreatedAt },
	ID:   func(p Player) string { return p.Name },
}

// rosterParams reads the roster listing parameters. The role filter comes in
// as "role" (falling back to "category") and the roster always sorts oldest
// entry first.
func rosterParams(q url.Values) listing.Params {
	if role := q.Get("role"); role != "" {
		q = cloneValues(q)
		q.Set("category", strings.ToUpper(role))
	}
	p := listing.FromQuery(q, PageSize)
	p.Sort = listing.SortAsc
	return p
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

func (h *Handler) list(r *http.Request) (listing.Result[Player], error) {
	items, err := h.store.ListAll(r.Context())
	if err != nil {
		return listing.Result[Player]{}, err
	}
	return listing.Apply(items, rosterParams(r.URL.Query()), rosterFields), nil
}

var cardTmpl = template.Must(template.New("card").Parse(`<article class="player-card" data-id="{{.Player.ID}}" data-role="{{.RoleTag}}">
{{- if .Player.PhotoURL}}
<img src="{{.Player.PhotoURL}}" alt="{{.Player.Name}}">
{{- end}}
<h3><a href="/squad/{{.Player.ID}}">{{.Player.Name}}</a></h3>
<div class="role">{{.RoleTag}}</div>
<div class="positions">{{.Player.PositionDisplay}}</div>
{{- if .Player.Club}}
<div class="club">{{.Player.Club}}</div>
{{- end}}
<div class="stats">Caps {{.Player.Caps}} &middot; Gol {{.Player.Goals}} &middot; Assist {{.Player.Assists}}</div>
</article>`))

type cardData struct {
	Player  *Player
	RoleTag string
}

// RenderCard renders one roster card fragment.
func RenderCard(p Player) (string, error) {
	var b strings.Builder
	if err := cardTmpl.Execute(&b, cardData{&p, p.RoleTag()}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderCards concatenates card fragments in result order.
func RenderCards(items []Player) (string, error) {
	if len(items) == 0 {
		return "<p class='muted'>Tidak ada data.</p>", nil
	}
	var b strings.Builder
	for i := range items {
		p := &items[i]
		if err := cardTmpl.Execute(&b, cardData{p, p.RoleTag()}); err != nil {
			return "", err
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

var rosterTmpl = template.Must(template.New("roster").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Skuad Garuda &mdash; Garuda Spot</title></head><body>
<h1>Skuad Garuda</h1>
<nav class="roles">
<a href="/squad"{{if not .HasRole}} class="active"{{end}}>Semua</a>
{{- range .Roles}}
<a href="/squad?role={{.}}"{{if eq . $.Active}} class="active"{{end}}>{{.}}</a>
{{- end}}
</nav>
<form method="get" action="/squad" class="search">
<input type="hidden" name="role" value="{{.Active}}">
<input type="search" name="q" value="{{.Query}}" placeholder="Cari pemain">
<button type="submit">Cari</button>
</form>
<section id="player-list" data-page="{{.Page}}" data-has-next="{{.HasNext}}">
{{.Cards}}
</section>
{{- if .HasNext}}
<button id="load-more" data-next="{{.NextPage}}">Muat lagi</button>
{{- end}}
</body></html>`))

type rosterData struct {
	Roles    []string
	Active   string
	HasRole  bool
	Query    string
	Page     int
	NextPage int
	HasNext  bool
	Cards    template.HTML
}

func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request) {
	params := rosterParams(r.URL.Query())
	res, err := h.list(r)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	cards, err := RenderCards(res.Items)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	rosterTmpl.Execute(w, rosterData{
		Roles:    []string{RoleGoalkeeper, RoleDefender, RoleMidfielder, RoleAttacker},
		Active:   params.Category,
		HasRole:  params.HasCategory(),
		Query:    params.Query,
		Page:     res.Page,
		NextPage: res.Page + 1,
		HasNext:  res.HasNext,
		Cards:    template.HTML(cards),
	})
}

func (h *Handler) handlePartial(w http.ResponseWriter, r *http.Request) {
	res, err := h.list(r)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	html, err := RenderCards(res.Items)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"html":     html,
		"has_next": res.HasNext,
		"page":     res.Page,
	})
}

func (h *Handler) handleJSON(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAll(r.Context())
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []Player{}
	}
	web.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleJSONByID(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		web.NotFound(w)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, http.StatusOK, p)
}

var detailTmpl = template.Must(template.New("detail").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Player.Name}} &mdash; Garuda Spot</title></head><body>
<article class="player">
{{- if .Player.PhotoURL}}
<img src="{{.Player.PhotoURL}}" alt="{{.Player.Name}}">
{{- end}}
<h1>{{.Player.Name}}</h1>
<div class="role">{{.RoleTag}}</div>
<div class="positions">{{.Player.PositionDisplay}}</div>
<dl>
{{- if ge .Age 0}}
<dt>Usia</dt><dd>{{.Age}}</dd>
{{- end}}
{{- if .Player.Club}}
<dt>Klub</dt><dd>{{.Player.Club}}</dd>
{{- end}}
{{- if .Player.HeightCm}}
<dt>Tinggi</dt><dd>{{.Player.HeightCm}} cm</dd>
{{- end}}
<dt>Caps</dt><dd>{{.Player.Caps}}</dd>
<dt>Gol</dt><dd>{{.Player.Goals}}</dd>
<dt>Assist</dt><dd>{{.Player.Assists}}</dd>
</dl>
</article>
</body></html>`))

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	detailTmpl.Execute(w, struct {
		Player  *Player
		RoleTag string
		Age     int
	}{p, p.RoleTag(), p.Age(time.Now())})
}

func inputFromForm(r *http.Request) Input {
	return Input{
		Name:      r.PostFormValue("name"),
		PhotoURL:  r.PostFormValue("photo_url"),
		BirthDate: r.PostFormValue("birth_date"),
		Club:      r.PostFormValue("club"),
		HeightCm:  form.NonNegInt(r.PostFormValue("height_cm"), 0),
		Position1: strings.ToUpper(strings.TrimSpace(r.PostFormValue("position1"))),
		Position2: strings.ToUpper(strings.TrimSpace(r.PostFormValue("position2"))),
		Position3: strings.ToUpper(strings.TrimSpace(r.PostFormValue("position3"))),
		Caps:      form.NonNegInt(r.PostFormValue("caps"), 0),
		Goals:     form.NonNegInt(r.PostFormValue("goals"), 0),
		Assists:   form.NonNegInt(r.PostFormValue("assists"), 0),
	}
}

// respondCard is the mutation response shape: the id, the derived role tag
// (the client moves the card between roster sections with it), and the
// rendered card fragment.
func (h *Handler) respondCard(w http.ResponseWriter, status int, p *Player) {
	html, err := RenderCard(*p)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, status, map[string]any{
		"id":       p.ID,
		"role_tag": p.RoleTag(),
		"html":     html,
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	p, err := h.store.Create(r.Context(), inputFromForm(r))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			web.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logEvent(r, "create", p.ID)
	h.respondCard(w, http.StatusCreated, p)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	p, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), inputFromForm(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			web.NotFound(w)
		case errors.Is(err, ErrInvalidInput):
			web.Error(w, http.StatusBadRequest, err.Error())
		default:
			web.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	h.logEvent(r, "update", p.ID)
	h.respondCard(w, http.StatusOK, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		web.NotFound(w)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logEvent(r, "delete", id)
	web.JSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *Handler) logEvent(r *http.Request, eventType, entityID string) {
	if h.events == nil {
		return
	}
	h.events.LogEvent(r.Context(), observability.BusinessEvent{
		EventType:  eventType,
		EntityType: "player",
		EntityID:   entityID,
		UserID:     kit.GetUserID(r.Context()),
		Success:    true,
	})
}
