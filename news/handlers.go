package news

import (
	"encoding/xml"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/accounts"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/form"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/kit"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/listing"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/observability"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/web"
)

// Handler serves the news routes.
type Handler struct {
	store  *Store
	events *observability.EventLogger
}

// NewHandler creates the news handler. events may be nil.
func NewHandler(store *Store, events *observability.EventLogger) *Handler {
	return &Handler{store: store, events: events}
}

// RegisterHTTP mounts the news routes. The dump and feed endpoints are
// public (they back external widgets); pages need a login and mutation
// needs an admin.
func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Get("/news/feed", h.handleFeed)
	r.Get("/news/json", h.handleJSON)
	r.Get("/news/xml", h.handleXML)
	r.Get("/news/json/{id}", h.handleJSONByID)
	r.Get("/news/xml/{id}", h.handleXMLByID)

	r.Group(func(r chi.Router) {
		r.Use(accounts.RequireLogin)
		r.Get("/news", h.handleMain)
		r.Get("/news/{id}", h.handleDetail)
	})

	r.Group(func(r chi.Router) {
		r.Use(accounts.RequireLogin, accounts.RequireAdmin)
		r.Post("/news/ajax", h.handleCreateAJAX)
		r.Post("/news/{id}/update", h.handleUpdate)
		r.Post("/news/{id}/delete", h.handleDeleteAJAX)
	})
}

// handleFeed is the paged feed: {items, page, page_size, has_next, total}
// with category, q, month, sort, and a caller-bounded page size.
func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	params := listing.FromFeedQuery(r.URL.Query(), FeedPageSize)
	res, err := h.store.List(r.Context(), params)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, http.StatusOK, res)
}

func (h *Handler) handleJSON(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAll(r.Context())
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []News{}
	}
	web.JSON(w, http.StatusOK, items)
}

// xmlList mirrors the legacy XML dump shape: a flat list of <news> elements.
type xmlList struct {
	XMLName xml.Name `xml:"news-list"`
	Items   []News   `xml:"news"`
}

func (h *Handler) handleXML(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAll(r.Context())
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.XML(w, http.StatusOK, xmlList{Items: items})
}

func (h *Handler) handleJSONByID(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		web.NotFound(w)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, http.StatusOK, n)
}

// handleXMLByID keeps the legacy by-id XML shape: a one-element list.
func (h *Handler) handleXMLByID(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		web.XML(w, http.StatusOK, xmlList{})
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.XML(w, http.StatusOK, xmlList{Items: []News{*n}})
}

var mainPageTmpl = template.Must(template.New("news").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Berita &mdash; Garuda Spot</title></head><body>
<h1>Berita</h1>
<section id="news-list">
{{- range .Items}}
<article class="news-card" data-id="{{.ID}}">
<h2><a href="/news/{{.ID}}">{{.Title}}</a></h2>
<div class="meta">{{.Category}}{{if .PublishDate}} &mdash; {{.PublishDate}}{{end}}</div>
</article>
{{- else}}
<p class="muted">Belum ada berita.</p>
{{- end}}
</section>
</body></html>`))

func (h *Handler) handleMain(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAll(r.Context())
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	mainPageTmpl.Execute(w, struct{ Items []News }{items})
}

var detailPageTmpl = template.Must(template.New("detail").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}} &mdash; Garuda Spot</title></head><body>
<article class="news">
<h1>{{.Title}}</h1>
<div class="meta">{{.Category}}{{if .PublishDate}} &mdash; {{.PublishDate}}{{end}}</div>
<div class="content">{{.Content}}</div>
</article>
</body></html>`))

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	detailPageTmpl.Execute(w, n)
}

func (h *Handler) inputFromForm(r *http.Request) Input {
	var month *int
	if m := form.Int(r.PostFormValue("published_month"), 0); m >= 1 && m <= 12 {
		month = &m
	}
	return Input{
		Title:          r.PostFormValue("title"),
		Category:       r.PostFormValue("category"),
		PublishDate:    r.PostFormValue("publish_date"),
		PublishedMonth: month,
		Content:        r.PostFormValue("content"),
	}
}

func (h *Handler) handleCreateAJAX(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	n, err := h.store.Create(r.Context(), h.inputFromForm(r))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			web.Error(w, http.StatusBadRequest, "title, category, content are required")
			return
		}
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logEvent(r, "create", n.ID)
	web.JSON(w, http.StatusCreated, n)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	n, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), h.inputFromForm(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			web.NotFound(w)
		case errors.Is(err, ErrInvalidInput):
			web.Error(w, http.StatusBadRequest, "title, category, content are required")
		default:
			web.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	h.logEvent(r, "update", n.ID)
	web.JSON(w, http.StatusOK, n)
}

func (h *Handler) handleDeleteAJAX(w http.ResponseWriter, r *http.Request) {
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
		EntityType: "news",
		EntityID:   entityID,
		UserID:     kit.GetUserID(r.Context()),
		Success:    true,
	})
}
