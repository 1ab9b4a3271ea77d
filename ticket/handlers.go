package ticket

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

// Handler serves the ticket routes.
type Handler struct {
	store  *Store
	events *observability.EventLogger
}

// NewHandler creates the ticket handler. events may be nil.
func NewHandler(store *Store, events *observability.EventLogger) *Handler {
	return &Handler{store: store, events: events}
}

// RegisterHTTP mounts the ticket routes.
func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Get("/ticket/json", h.handleJSON)
	r.Get("/ticket/xml", h.handleXML)
	r.Get("/ticket/json/{uuid}", h.handleJSONByUUID)

	r.Group(func(r chi.Router) {
		r.Use(accounts.RequireLogin)
		r.Get("/ticket", h.handleMain)
	})

	r.Group(func(r chi.Router) {
		r.Use(accounts.RequireLogin, accounts.RequireAdmin)
		r.Post("/ticket/create", h.handleCreateMatch)
		r.Post("/ticket/{uuid}/update", h.handleUpdateMatch)
		r.Post("/ticket/{uuid}/delete", h.handleDeleteMatch)
		r.Post("/ticket/{uuid}/links", h.handleCreateLink)
		r.Post("/ticket/links/{uuid}/update", h.handleUpdateLink)
		r.Post("/ticket/links/{uuid}/delete", h.handleDeleteLink)
	})
}

// handleJSON dumps every match with its vendor links nested, both ascending
// by insertion.
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

type xmlMatch struct {
	XMLName xml.Name `xml:"match"`
	Match
}

type xmlLink struct {
	XMLName xml.Name `xml:"link"`
	Link
}

// xmlList mirrors the legacy XML dump shape: each match element followed by
// its link elements, interleaved at the top level.
type xmlList struct {
	XMLName xml.Name `xml:"ticket-list"`
	Items   []any
}

func interleave(items []Match) xmlList {
	var out xmlList
	for _, m := range items {
		out.Items = append(out.Items, xmlMatch{Match: m})
		for _, l := range m.Links {
			out.Items = append(out.Items, xmlLink{Link: l})
		}
	}
	return out
}

func (h *Handler) handleXML(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.XML(w, http.StatusOK, interleave(items))
}

func (h *Handler) handleJSONByUUID(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.GetMatch(r.Context(), chi.URLParam(r, "uuid"))
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

var mainPageTmpl = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Tiket &mdash; Garuda Spot</title></head><body>
<h1>Tiket Pertandingan</h1>
<section id="ticket-list">
{{- range .Items}}
<article class="ticket-card" data-uuid="{{.UUID}}">
<h2>{{.Team1}} vs {{.Team2}}</h2>
<div class="meta">{{.Date}}{{if .Place}} &mdash; {{.Place}}{{end}}</div>
<ul class="vendors">
{{- range .Links}}
<li><a href="{{.VendorLink}}" rel="noopener">{{.Vendor}}</a> &mdash; Rp{{.Price}}</li>
{{- end}}
</ul>
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

func matchInputFromForm(r *http.Request) MatchInput {
	return MatchInput{
		Team1:    r.PostFormValue("team1"),
		Team2:    r.PostFormValue("team2"),
		ImgTeam1: r.PostFormValue("img_team1"),
		ImgTeam2: r.PostFormValue("img_team2"),
		ImgCup:   r.PostFormValue("img_cup"),
		Place:    r.PostFormValue("place"),
		Date:     r.PostFormValue("date"),
	}
}

func linkInputFromForm(r *http.Request) LinkInput {
	return LinkInput{
		Vendor:     r.PostFormValue("vendor"),
		VendorLink: r.PostFormValue("vendor_link"),
		Price:      form.NonNegInt(r.PostFormValue("price"), 0),
		ImgVendor:  r.PostFormValue("img_vendor"),
	}
}

func (h *Handler) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	m, err := h.store.CreateMatch(r.Context(), matchInputFromForm(r))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			web.Error(w, http.StatusBadRequest, "both teams are required")
			return
		}
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logEvent(r, "create", "ticket_match", m.UUID)
	web.JSON(w, http.StatusCreated, m)
}

func (h *Handler) handleUpdateMatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	m, err := h.store.UpdateMatch(r.Context(), chi.URLParam(r, "uuid"), matchInputFromForm(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			web.NotFound(w)
		case errors.Is(err, ErrInvalidInput):
			web.Error(w, http.StatusBadRequest, "both teams are required")
		default:
			web.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	h.logEvent(r, "update", "ticket_match", m.UUID)
	web.JSON(w, http.StatusOK, m)
}

func (h *Handler) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")
	err := h.store.DeleteMatch(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		web.NotFound(w)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logEvent(r, "delete", "ticket_match", id)
	web.JSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *Handler) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	l, err := h.store.CreateLink(r.Context(), chi.URLParam(r, "uuid"), linkInputFromForm(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			web.NotFound(w)
		case errors.Is(err, ErrInvalidInput):
			web.Error(w, http.StatusBadRequest, "vendor is required")
		default:
			web.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	h.logEvent(r, "create", "ticket_link", l.UUID)
	web.JSON(w, http.StatusCreated, l)
}

func (h *Handler) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	l, err := h.store.UpdateLink(r.Context(), chi.URLParam(r, "uuid"), linkInputFromForm(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			web.NotFound(w)
		case errors.Is(err, ErrInvalidInput):
			web.Error(w, http.StatusBadRequest, "vendor is required")
		default:
			web.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	h.logEvent(r, "update", "ticket_link", l.UUID)
	web.JSON(w, http.StatusOK, l)
}

func (h *Handler) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")
	err := h.store.DeleteLink(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		web.NotFound(w)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logEvent(r, "delete", "ticket_link", id)
	web.JSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *Handler) logEvent(r *http.Request, eventType, entityType, entityID string) {
	if h.events == nil {
		return
	}
	h.events.LogEvent(r.Context(), observability.BusinessEvent{
		EventType:  eventType,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     kit.GetUserID(r.Context()),
		Success:    true,
	})
}
