// Package session owns the console's authenticated-user state: who is
// logged in, the bearer token backing it, and the lifecycle around both.
// It is the single writer of the persisted token; views only read.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenhouse-iot/console/internal/console/api"
	"github.com/greenhouse-iot/console/internal/console/models"
	"github.com/greenhouse-iot/console/internal/console/storage"
)

// TokenKey is the durable-storage key the bearer token lives under.
const TokenKey = "jwt"

// ErrIncorrectOldPassword reports that the current password supplied to
// ChangePassword was rejected by the platform.
var ErrIncorrectOldPassword = errors.New("incorrect old password")

// API is the remote collaborator surface the store needs. *api.Client
// satisfies it.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	ListUsers(ctx context.Context) ([]models.DirectoryUser, error)
	ChangeOwnPassword(ctx context.Context, current, newPassword string) error
	SetToken(token string)
	ClearToken()
}

// Store holds the session singleton. All transitions that touch the user
// also touch the token and the persisted copy in the same call, so a reload
// between two paints restores the same state.
type Store struct {
	api API
	kv  storage.Repository
	log zerolog.Logger
	now func() time.Time

	token string
	user  *models.User
}

// NewStore builds an anonymous store. Call Initialize once before use.
func NewStore(api API, kv storage.Repository, log zerolog.Logger) *Store {
	return &Store{api: api, kv: kv, log: log, now: time.Now}
}

// User returns a copy of the authenticated user, or nil when anonymous.
func (s *Store) User() *models.User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	u.Roles = append([]string(nil), s.user.Roles...)
	return &u
}

// Authed reports whether a user is logged in.
func (s *Store) Authed() bool {
	return s.user != nil
}

// Initialize restores the session from durable storage. It runs once per
// process, makes no network calls, and has no observable effect when no
// token was persisted. A malformed or expired stored token is fatal for the
// credential: all persisted state is cleared and the store stays anonymous.
func (s *Store) Initialize(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("session: restore token: %w", err)
	}
	if raw == nil {
		return nil
	}

	token := string(raw)
	cl, err := decodeClaims(token, s.now())
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding persisted token")
		if derr := s.kv.Delete(ctx, TokenKey); derr != nil {
			return fmt.Errorf("session: clear stale token: %w", derr)
		}
		return nil
	}

	s.token = token
	s.user = userFromClaims(cl, "")
	s.api.SetToken(token)
	s.log.Debug().Str("user", s.user.UserName).Msg("session restored")
	return nil
}

// Login exchanges credentials for a token and transitions to Authenticated.
// It resolves to true on success and false on any failure (bad
// credentials, network trouble, an undecodable token), never an error,
// so views react to the boolean rather than to error plumbing.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	token, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.log.Info().Err(err).Str("user", username).Msg("login failed")
		return false
	}

	cl, err := decodeClaims(token, s.now())
	if err != nil {
		s.log.Warn().Err(err).Msg("server issued undecodable token")
		return false
	}

	// a fresh login replaces all persisted session state in one transaction
	if err := s.kv.Replace(ctx, TokenKey, []byte(token)); err != nil {
		s.log.Error().Err(err).Msg("persisting token failed")
	}
	s.api.SetToken(token)

	user := userFromClaims(cl, username)

	// Administrators get one best-effort directory lookup for the richer
	// profile fields the token does not carry, isFirstLogin in particular.
	if user.HasRole(models.RoleAdmin) {
		s.enrichFromDirectory(ctx, user)
	}

	s.token = token
	s.user = user
	s.log.Info().Str("user", user.UserName).Msg("logged in")
	return true
}

// Logout clears the authorization header, the persisted token, and the
// in-memory user. Safe to call when already anonymous.
func (s *Store) Logout(ctx context.Context) {
	s.api.ClearToken()
	if err := s.kv.Delete(ctx, TokenKey); err != nil {
		s.log.Error().Err(err).Msg("removing persisted token failed")
	}
	s.token = ""
	s.user = nil
}

// ChangePassword submits a password change for the logged-in user.
// oldPassword is empty only on the forced first-login change, which needs
// no prior secret. The user's IsFirstLogin flag is not touched here; call
// Refresh once the platform confirms the change.
func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	err := s.api.ChangeOwnPassword(ctx, oldPassword, newPassword)
	if err == nil {
		return nil
	}
	if errors.Is(err, api.ErrIncorrectPassword) {
		return ErrIncorrectOldPassword
	}
	return fmt.Errorf("session: change password: %w", err)
}

// Refresh re-derives the user from the held token claims plus a fresh
// directory lookup. No-op when anonymous.
func (s *Store) Refresh(ctx context.Context) {
	if s.user == nil {
		return
	}
	cl, err := decodeClaims(s.token, s.now())
	if err != nil {
		s.log.Warn().Err(err).Msg("held token no longer decodes")
		return
	}
	user := userFromClaims(cl, s.user.UserName)
	if user.HasRole(models.RoleAdmin) {
		s.enrichFromDirectory(ctx, user)
	}
	s.user = user
}

// enrichFromDirectory overlays directory profile fields onto user, matching
// on id first and username second. Lookup failure is tolerated: the
// provisional claims-derived profile stands.
func (s *Store) enrichFromDirectory(ctx context.Context, user *models.User) {
	dir, err := s.api.ListUsers(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("directory lookup failed, using claim defaults")
		return
	}
	for i := range dir {
		d := &dir[i]
		if (user.ID != "" && d.ID == user.ID) || d.UserName == user.UserName {
			user.IsFirstLogin = d.IsFirstLogin
			if len(d.Roles) > 0 {
				user.Roles = append([]string(nil), d.Roles...)
			}
			if d.UserName != "" {
				user.UserName = d.UserName
			}
			return
		}
	}
}

// userFromClaims builds the provisional profile a token alone can support.
// fallbackName covers tokens without a display-name claim, e.g. the login
// form's username.
func userFromClaims(cl *claims, fallbackName string) *models.User {
	name := cl.Name
	if name == "" {
		name = fallbackName
	}
	return &models.User{
		ID:       cl.Subject,
		UserName: name,
		Roles:    append([]string(nil), cl.Roles...),
	}
}
