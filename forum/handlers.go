package forum

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/accounts"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/kit"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/listing"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/observability"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/shield"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/web"
)

// Handler serves the forum routes.
type Handler struct {
	store  *Store
	events *observability.EventLogger
}

// NewHandler creates the forum handler. events may be nil.
func NewHandler(store *Store, events *observability.EventLogger) *Handler {
	return &Handler{store: store, events: events}
}

// RegisterHTTP mounts the forum routes. Everything requires a login, matching
// the rest of the site; moderation is checked per-route.
func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(accounts.RequireLogin)
		r.Get("/forum", h.handleList)
		r.Get("/forum/partial", h.handlePartial)
		r.Post("/forum/posts", h.handleCreatePost)
		r.Get("/forum/posts/{slug}", h.handleDetail)
		r.Post("/forum/posts/{slug}/comments", h.handleCreateComment)
		r.Post("/forum/posts/{slug}/like", h.handleLike)
		r.Post("/forum/posts/{slug}/delete", h.handleDelete)
	})
}

// handleList serves the full listing page. An out-of-range page clamps to an
// empty window rather than 404ing: stale bookmarked page links should not
// break when posts are deleted.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := listing.FromQuery(r.URL.Query(), PageSize)

	res, err := h.store.ListPosts(ctx, params)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	liked, err := h.store.LikedPostIDs(ctx, kit.GetSessionID(ctx))
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	cards, err := RenderCards(res.Items, liked)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	page, err := RenderPage(PageData{
		Categories:     categories,
		ActiveCategory: params.Category,
		FilterActive:   params.HasCategory(),
		Query:          params.Query,
		Cards:          template.HTML(cards),
		Page:           res.Page,
		NextPage:       res.Page + 1,
		HasNext:        res.HasNext,
	})
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// handlePartial serves the AJAX listing contract: {html, has_next, page}.
// Pagination overrun is a valid empty result, never an error status.
func (h *Handler) handlePartial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := listing.FromQuery(r.URL.Query(), PageSize)

	res, err := h.store.ListPosts(ctx, params)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(res.Items) == 0 {
		web.JSON(w, http.StatusOK, map[string]any{
			"html": EmptyPartial, "has_next": false, "page": 1,
		})
		return
	}
	liked, err := h.store.LikedPostIDs(ctx, kit.GetSessionID(ctx))
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	html, err := RenderCards(res.Items, liked)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"html": html, "has_next": res.HasNext, "page": res.Page,
	})
}

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "errors": "invalid form"})
		return
	}
	ctx := r.Context()
	post, err := h.store.CreatePost(ctx, CreatePostInput{
		Title:        r.PostFormValue("title"),
		AuthorName:   kit.GetUsername(ctx),
		CategorySlug: r.PostFormValue("category"),
		Body:         r.PostFormValue("body"),
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			web.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "errors": err.Error()})
			return
		}
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logEvent(r, "create", post.ID)
	card, err := RenderCard(*post, false)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, http.StatusCreated, map[string]any{"ok": true, "html": card})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	post, err := h.store.GetPost(ctx, chi.URLParam(r, "slug"))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	comments, err := h.store.ListComments(ctx, post.ID)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	var b strings.Builder
	for _, c := range comments {
		frag, err := RenderComment(c)
		if err != nil {
			web.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		b.WriteString(frag)
		b.WriteByte('\n')
	}

	page, err := RenderDetail(post, template.HTML(b.String()))
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "errors": "invalid form"})
		return
	}
	ctx := r.Context()
	comment, err := h.store.CreateComment(ctx, chi.URLParam(r, "slug"),
		kit.GetUsername(ctx), r.PostFormValue("body"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			web.NotFound(w)
		case errors.Is(err, ErrInvalidInput):
			web.JSON(w, http.StatusBadRequest, map[string]any{"ok": false, "errors": err.Error()})
		default:
			web.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	frag, err := RenderComment(*comment)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	web.JSON(w, http.StatusCreated, map[string]any{"ok": true, "html": frag})
}

func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	liked, count, err := h.store.ToggleLike(ctx, kit.GetSessionID(ctx), chi.URLParam(r, "slug"))
	if errors.Is(err, ErrNotFound) {
		web.NotFound(w)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	h.logEvent(r, action, chi.URLParam(r, "slug"))
	web.JSON(w, http.StatusOK, map[string]any{"ok": true, "liked": liked, "like_count": count})
}

// handleDelete removes a post. Moderators only; the capability check happens
// here once, not scattered through the store.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !accounts.CanModerate(kit.GetRole(ctx)) {
		if web.IsAJAX(r) {
			web.JSON(w, http.StatusForbidden, map[string]any{"ok": false, "error": "forbidden"})
			return
		}
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	slug := chi.URLParam(r, "slug")
	err := h.store.DeletePost(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		if web.IsAJAX(r) {
			web.NotFound(w)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logEvent(r, "delete", slug)
	if web.IsAJAX(r) {
		web.JSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	shield.SetFlash(w, shield.FlashSuccess, "Post berhasil dihapus.")
	http.Redirect(w, r, "/forum", http.StatusSeeOther)
}

func (h *Handler) logEvent(r *http.Request, eventType, entityID string) {
	if h.events == nil {
		return
	}
	h.events.LogEvent(r.Context(), observability.BusinessEvent{
		EventType:  eventType,
		EntityType: "post",
		EntityID:   entityID,
		UserID:     kit.GetUserID(r.Context()),
		Success:    true,
	})
}
