package merch

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/accounts"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/form"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/kit"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/listing"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/observability"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/web"
)

// Handler serves the merch routes.
type Handler struct {
	store  *Store
	events *observability.EventLogger
}

// NewHandler creates the merch handler. events may be nil.
func NewHandler(store *Store, events *observability.EventLogger) *Handler {
	return &Handler{store: store, events: events}
}

// RegisterHTTP mounts the merch routes. The catalog, detail, and dump
// endpoints are public; mutation needs a login.
func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Get("/merch", h.handleCatalog)
	r.Get("/merch/partial", h.handlePartial)
	r.Get("/merch/json", h.handleJSON)
	r.Get("/merch/json/{id}", h.handleJSONByID)
	r.Get("/merch/{id}", h.handleDetail)

	r.Group(func(r chi.Router) {
		r.Use(accounts.RequireLogin)
		r.Post("/merch/create", h.handleCreate)
		r.Post("/merch/{id}/update", h.handleUpdate)
		r.Post("/merch/{id}/delete", h.handleDelete)
	})
}

var cardTmpl = template.Must(template.New("card").Parse(`<article class="merch-card" data-id="{{.ID}}">
{{- if .Thumbnail}}
<img src="{{.Thumbnail}}" alt="{{.Name}}">
{{- end}}
<h3><a href="/merch/{{.ID}}">{{.Name}}</a></h3>
<div class="meta">{{.Category}}{{if .Vendor}} &mdash; {{.Vendor}}{{end}}</div>
<div class="price">Rp{{.Price}}</div>
<div class="stock">Stok: {{.Stock}}</div>
</article>`))

// RenderCard renders one catalog card fragment.
func RenderCard(m Merch) (string, error) {
	var b strings.Builder
	if err := cardTmpl.Execute(&b, m); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderCards concatenates card fragments in result order. An empty set
// renders the shared empty-state notice.
func RenderCards(items []Merch) (string, error) {
	if len(items) == 0 {
		return "<p class='muted'>Tidak ada data.</p>", nil
	}
	var b strings.Builder
	for _, m := range items {
		if err := cardTmpl.Execute(&b, m); err != nil {
			return "", err
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

var catalogTmpl = template.Must(template.New("catalog").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Merchandise &mdash; Garuda Spot</title></head><body>
<h1>Merchandise</h1>
<nav class="categories">
<a href="/merch"{{if not .HasCategory}} class="active"{{end}}>Semua</a>
{{- range .Categories}}
<a href="/merch?category={{.}}"{{if eq . $.Active}} class="active"{{end}}>{{.}}</a>
{{- end}}
</nav>
<form method="get" action="/merch" class="search">
<input type="hidden" name="category" value="{{.Active}}">
<input type="search" name="q" value="{{.Query}}" placeholder="Cari merchandise">
<button type="submit">Cari</button>
</form>
<section id="merch-list" data-page="{{.Page}}" data-has-next="{{.HasNext}}">
{{.Cards}}
</section>
{{- if .HasNext}}
<button id="load-more" data-next="{{.NextPage}}">Muat lagi</button>
{{- end}}
</body></html>`))

type catalogData struct {
	Categories  []string
	Active      string
	HasCategory bool
	Query       string
	Page        int
	NextPage    int
	HasNext     bool
	Cards       template.HTML
}

// handleCatalog is the full-page mode: the filtered page plus the filter
// widget state. An out-of-range page clamps to an empty window.
func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	params := listing.FromQuery(r.URL.Query(), PageSize)
	res, err := h.store.List(r.Context(), params)
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
	catalogTmpl.Execute(w, catalogData{
		Categories:  Categories,
		Active:      params.Category,
		HasCategory: params.HasCategory(),
		Query:       params.Query,
		Page:        res.Page,
		NextPage:    res.Page + 1,
		HasNext:     res.HasNext,
		Cards:       template.HTML(cards),
	})
}

// handlePartial is the AJAX mode: {html, has_next, page}. Pagination
// overrun is an empty fragment with has_next false, never an error.
func (h *Handler) handlePartial(w http.ResponseWriter, r *http.Request) {
	params := listing.FromQuery(r.URL.Query(), PageSize)
	res, err := h.store.List(r.Context(), params)
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
		items = []Merch{}
	}
	web.JSON(w, http.StatusOK, items)
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

var detailTmpl = template.Must(template.New("detail").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Name}} &mdash; Garuda Spot</title></head><body>
<article class="merch">
{{- if .Thumbnail}}
<img src="{{.Thumbnail}}" alt="{{.Name}}">
{{- end}}
<h1>{{.Name}}</h1>
<div class="meta">{{.Category}}{{if .Vendor}} &mdash; {{.Vendor}}{{end}}</div>
<div class="price">Rp{{.Price}}</div>
<div class="stock">Stok: {{.Stock}}</div>
<p>{{.Description}}</p>
{{- if .Link}}
<a href="{{.Link}}" rel="noopener">Beli</a>
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
	detailTmpl.Execute(w, m)
}

func inputFromForm(r *http.Request) Input {
	return Input{
		Name:        r.PostFormValue("name"),
		Vendor:      r.PostFormValue("vendor"),
		Price:       form.NonNegInt(r.PostFormValue("price"), 0),
		Stock:       form.NonNegInt(r.PostFormValue("stock"), 0),
		Description: r.PostFormValue("description"),
		Thumbnail:   r.PostFormValue("thumbnail"),
		Category:    r.PostFormValue("category"),
		Link:        r.PostFormValue("link"),
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	m, err := h.store.Create(r.Context(), kit.GetUserID(r.Context()), inputFromForm(r))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			web.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logEvent(r, "create", m.ID)
	web.JSON(w, http.StatusCreated, m)
}

// handleUpdate requires a name field in the form; a payload without one
// is rejected outright.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	if !r.PostForm.Has("name") {
		web.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	m, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), inputFromForm(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			web.NotFound(w)
		case errors.Is(err, ErrInvalidInput):
			web.Error(w, http.StatusBadRequest, "Invalid payload")
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
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logEvent(r *http.Request, eventType, entityID string) {
	if h.events == nil {
		return
	}
	h.events.LogEvent(r.Context(), observability.BusinessEvent{
		EventType:  eventType,
		EntityType: "merch",
		EntityID:   entityID,
		UserID:     kit.GetUserID(r.Context()),
		Success:    true,
	})
}
