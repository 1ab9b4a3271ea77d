// Package accounts owns users, roles, and cookie sessions. It deliberately
// stays thin: password verification is a bcrypt wrapper, and the only policy
// the rest of the site asks about is CanModerate, evaluated once at the
// route boundary instead of per-handler attribute probing.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/idgen"
)

// Roles. Staff and superuser distinctions from older variants collapse into
// ADMIN; everything else is USER.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// SessionTTL is how long a login cookie stays valid.
const SessionTTL = 30 * 24 * time.Hour

// CookieName is the session cookie set on login.
const CookieName = "garuda_session"

var (
	ErrNotFound           = errors.New("accounts: not found")
	ErrInvalidCredentials = errors.New("accounts: invalid credentials")
	ErrUsernameTaken      = errors.New("accounts: username already taken")
)

// User is a site account.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

// Session is one login. Its ID keys the forum like state.
type Session struct {
	ID        string
	UserID    string
	CreatedAt int64
	ExpiresAt int64
}

// CanModerate reports whether a role may delete other users' content.
func CanModerate(role string) bool {
	return role == RoleAdmin
}

// Service provides user and session operations on the site database.
type Service struct {
	db       *sql.DB
	newID    idgen.Generator
	newToken idgen.Generator
}

// NewService creates an accounts service. Entity ids are UUIDv7; session
// tokens are 24-char NanoIDs with a "sess_" prefix.
func NewService(db *sql.DB) *Service {
	return &Service{
		db:       db,
		newID:    idgen.Default,
		newToken: idgen.Prefixed("sess_", idgen.NanoID(24)),
	}
}

// Register creates a USER-role account. Usernames are trimmed and must be
// non-empty and unused.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("accounts: hash password: %w", err)
	}
	u := &User{
		ID:        s.newID(),
		Username:  username,
		Role:      RoleUser,
		CreatedAt: time.Now().Unix(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, string(hash), u.Role, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("accounts: create user: %w", err)
	}
	return u, nil
}

// Authenticate verifies a username/password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	var u User
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`,
		strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &hash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("accounts: lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// GetUser fetches a user by id.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, role, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("accounts: get user: %w", err)
	}
	return &u, nil
}

// CreateSession opens a new session for the user.
func (s *Service) CreateSession(ctx context.Context, userID string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        s.newToken(),
		UserID:    userID,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(SessionTTL).Unix(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("accounts: create session: %w", err)
	}
	return sess, nil
}

// Resolve returns the user and session for a session id, or ErrNotFound when
// the session does not exist or has expired.
func (s *Service) Resolve(ctx context.Context, sessionID string) (*User, *Session, error) {
	var sess Session
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.user_id, s.created_at, s.expires_at, u.username, u.role, u.created_at
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.id = ?`, sessionID).
		Scan(&sess.ID, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt, &u.Username, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("accounts: resolve session: %w", err)
	}
	if sess.ExpiresAt < time.Now().Unix() {
		return nil, nil, ErrNotFound
	}
	u.ID = sess.UserID
	return &u, &sess, nil
}

// DeleteSession logs a session out. Deleting an unknown session is not an
// error.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

// SeedAdmin creates the admin account when no ADMIN-role user exists yet.
func (s *Service) SeedAdmin(ctx context.Context, username, password string) error {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = ?`, RoleAdmin).Scan(&count); err != nil {
		return fmt.Errorf("accounts: count admins: %w", err)
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("accounts: hash admin password: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.newID(), username, string(hash), RoleAdmin, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("accounts: seed admin: %w", err)
	}
	return nil
}
