package accounts

import (
	"net/http"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/kit"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/web"
)

// Middleware resolves the session cookie and attaches user id, username,
// role, and session id to the request context. Soft: requests without a
// valid session pass through unauthenticated.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		u, sess, err := s.Resolve(r.Context(), cookie.Value)
		if err != nil {
			// Expired or unknown session: clear the stale cookie.
			ClearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}
		ctx := kit.WithUserID(r.Context(), u.ID)
		ctx = kit.WithUsername(ctx, u.Username)
		ctx = kit.WithRole(ctx, u.Role)
		ctx = kit.WithSessionID(ctx, sess.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLogin rejects requests without an authenticated user.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if kit.GetUserID(r.Context()) == "" {
			web.Error(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose user cannot moderate. The policy check
// happens here, once, at the boundary.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CanModerate(kit.GetRole(r.Context())) {
			web.Error(w, http.StatusForbidden, "admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetSessionCookie writes the HttpOnly session cookie.
func SetSessionCookie(w http.ResponseWriter, sess *Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
