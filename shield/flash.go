package shield

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const flashCookie = "flash"

// Flash message types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// FlashMessage is a one-shot notification carried across a redirect.
type FlashMessage struct {
	Type    string
	Message string
}

// SetFlash queues a message for the next page load. The cookie lives just
// long enough to survive the redirect.
func SetFlash(w http.ResponseWriter, flashType, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(flashType + ":" + message),
		Path:     "/",
		MaxAge:   10,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetFlash retrieves the flash message from the request context.
func GetFlash(ctx context.Context) *FlashMessage {
	v, _ := ctx.Value(FlashKey).(*FlashMessage)
	return v
}

// Flash consumes the flash cookie: it parses the message into the request
// context and expires the cookie so the message shows exactly once.
func Flash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(flashCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		http.SetCookie(w, &http.Cookie{Name: flashCookie, MaxAge: -1, Path: "/"})

		raw, _ := url.QueryUnescape(cookie.Value)
		msg := parseFlash(raw)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), FlashKey, msg)))
	})
}

// parseFlash splits "type:message". Unknown types read as errors so a
// mangled cookie never renders as a success banner.
func parseFlash(raw string) *FlashMessage {
	if typ, rest, ok := strings.Cut(raw, ":"); ok {
		if typ == FlashSuccess || typ == FlashError {
			return &FlashMessage{Type: typ, Message: rest}
		}
	}
	return &FlashMessage{Type: FlashError, Message: raw}
}
