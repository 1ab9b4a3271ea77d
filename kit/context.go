// Package kit holds the request-context keys shared across service packages.
// The accounts middleware writes these once at the boundary; handlers read
// them instead of probing the session store again.
package kit

import "context"

type contextKey string

const (
	UserIDKey    contextKey = "kit_user_id"
	UsernameKey  contextKey = "kit_username"
	RoleKey      contextKey = "kit_role"
	SessionIDKey contextKey = "kit_session_id"
	TraceIDKey   contextKey = "kit_trace_id"
)

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(UserIDKey).(string)
	return v
}

func WithUsername(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, UsernameKey, name)
}
func GetUsername(ctx context.Context) string {
	v, _ := ctx.Value(UsernameKey).(string)
	return v
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, RoleKey, role)
}
func GetRole(ctx context.Context) string {
	v, _ := ctx.Value(RoleKey).(string)
	return v
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}
func GetSessionID(ctx context.Context) string {
	v, _ := ctx.Value(SessionIDKey).(string)
	return v
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}
func GetTraceID(ctx context.Context) string {
	v, _ := ctx.Value(TraceIDKey).(string)
	return v
}
