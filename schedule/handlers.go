package schedule

import (
	"encoding/xml"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/accounts"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/form"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/kit"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/observability"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/web"
)

// Handler serves the schedule routes.
type Handler struct {
	store  *Store
	events *observability.EventLogger
}

// NewHandler creates the schedule handler. events may be nil.
func NewHandler(store *Store, events *observability.EventLogger) *Handler {
	return &Handler{store: store, events: events}
}

// RegisterHTTP mounts the schedule routes.
func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Get("/schedule/json", h.handleJSON)
	r.Get("/schedule/xml", h.handleXML)
	r.Get("/schedule/json/{id}", h.handleJSONByID)
	r.Get("/schedule/xml/{id}", h.handleXMLByID)

	r.Group(func(r chi.Router) {
		r.Use(accounts.RequireLogin)
		r.Get("/schedule", h.handleMain)
		r.Get("/schedule/{id}", h.handleDetail)
	})

	r.Group(func(r chi.Router) {
		r.Use(accounts.RequireLogin, accounts.RequireAdmin)
		r.Post("/schedule/create", h.handleCreate)
		r.Post("/schedule/{id}/update", h.handleUpdate)
		r.Post("/schedule/{id}/delete", h.handleDelete)
	})
}

func (h *Handler) handleJSON(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []Match{}
	}
	web.JSON(w, http.StatusOK, items)
}

// xmlList mirrors the legacy XML dump shape: a flat list of <match>
// elements ordered newest first.
type xmlList struct {
	XMLName xml.Name `xml:"match-list"`
	Items   []Match  `xml:"match"`
}

func (h *Handler) handleXML(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.XML(w, http.StatusOK, xmlList{Items: items})
}

func (h *Handler) handleJSONByID(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		web.NotFound(w)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, http.StatusOK, m)
}

func (h *Handler) handleXMLByID(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		web.XML(w, http.StatusOK, xmlList{})
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.XML(w, http.StatusOK, xmlList{Items: []Match{*m}})
}

var mainPageTmpl = template.Must(template.New("schedule").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Jadwal Pertandingan &mdash; Garuda Spot</title></head><body>
<h1>Jadwal Pertandingan</h1>
<section id="match-list">
{{- range .Items}}
<article class="match-card" data-id="{{.ID}}">
<h2><a href="/schedule/{{.ID}}">{{.HomeTeam}} vs {{.AwayTeam}}</a></h2>
<div class="score">{{.HomeScore}} - {{.AwayScore}}</div>
<div class="meta">{{.MatchDate}}{{if .Location}} &mdash; {{.Location}}{{end}}</div>
</article>
{{- else}}
<p class="muted">Tidak ada data.</p>
{{- end}}
</section>
</body></html>`))

func (h *Handler) handleMain(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	mainPageTmpl.Execute(w, struct{ Items []Match }{items})
}

var detailPageTmpl = template.Must(template.New("detail").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Match.HomeTeam}} vs {{.Match.AwayTeam}} &mdash; Garuda Spot</title></head><body>
<article class="match">
<h1>{{.Match.HomeTeam}} ({{.Match.HomeCode}}) vs {{.Match.AwayTeam}} ({{.Match.AwayCode}})</h1>
<div class="score">{{.Match.HomeScore}} - {{.Match.AwayScore}}</div>
<div class="meta">{{.Match.MatchDate}}{{if .Match.Location}} &mdash; {{.Match.Location}}{{end}}</div>
<table class="stats">
{{- range .Stats}}
<tr><td>{{.Home}}</td><th>{{.Label}}</th><td>{{.Away}}</td></tr>
{{- end}}
</table>
{{- if .Match.Lineup}}
<section class="lineup"><h2>Susunan Pemain</h2><p>{{.Match.Lineup}}</p></section>
{{- end}}
{{- if .Match.Review}}
<section class="review"><h2>Ulasan</h2><p>{{.Match.Review}}</p></section>
{{- end}}
</article>
</body></html>`))

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	detailPageTmpl.Execute(w, struct {
		Match *Match
		Stats []StatRow
	}{m, m.StatRows()})
}

func statsFromForm(r *http.Request, side string) Stats {
	get := func(name string) int {
		return form.NonNegInt(r.PostFormValue(side+"_"+name), 0)
	}
	return Stats{
		Shots:         get("shots"),
		ShotsOnTarget: get("shots_on_target"),
		Possession:    get("possession"),
		Passes:        get("passes"),
		PassAccuracy:  get("pass_accuracy"),
		Fouls:         get("fouls"),
		YellowCards:   get("yellow_cards"),
		RedCards:      get("red_cards"),
		Offsides:      get("offsides"),
		Corners:       get("corners"),
	}
}

func inputFromForm(r *http.Request) Input {
	return Input{
		HomeTeam:         r.PostFormValue("home_team"),
		AwayTeam:         r.PostFormValue("away_team"),
		HomeCode:         r.PostFormValue("home_code"),
		AwayCode:         r.PostFormValue("away_code"),
		MatchDate:        r.PostFormValue("match_date"),
		Location:         r.PostFormValue("location"),
		Category:         r.PostFormValue("category"),
		HomeScore:        form.NonNegInt(r.PostFormValue("home_score"), 0),
		AwayScore:        form.NonNegInt(r.PostFormValue("away_score"), 0),
		CategoryImageURL: r.PostFormValue("category_image_url"),
		Lineup:           r.PostFormValue("lineup"),
		Review:           r.PostFormValue("review"),
		Home:             statsFromForm(r, "home"),
		Away:             statsFromForm(r, "away"),
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	m, err := h.store.Create(r.Context(), inputFromForm(r))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			web.Error(w, http.StatusBadRequest, "teams and a valid match_date are required")
			return
		}
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logEvent(r, "create", m.ID)
	web.JSON(w, http.StatusCreated, m)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	m, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), inputFromForm(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			web.NotFound(w)
		case errors.Is(err, ErrInvalidInput):
			web.Error(w, http.StatusBadRequest, "teams and a valid match_date are required")
		default:
			web.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	h.logEvent(r, "update", m.ID)
	web.JSON(w, http.StatusOK, m)
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
		EntityType: "match",
		EntityID:   entityID,
		UserID:     kit.GetUserID(r.Context()),
		Success:    true,
	})
}
