// Package gate is the login/logout boundary: a per-browser-session state
// machine (anonymous or authenticated) backed by a swappable auth-session
// store, with an HMAC-signed cookie carrying the session ID.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/user/sessionboard/internal/types"
)

const cookieName = "sessionboard_session"

// ErrMissingUserID is returned when a login is submitted without a user
// ID; the session stays anonymous.
var ErrMissingUserID = errors.New("user ID is required")

// ErrNotAuthorized covers both "not a member of the organization" and
// "membership could not be verified" — the two are deliberately not
// distinguishable by the caller.
var ErrNotAuthorized = errors.New("user is not a member of the authorized organization")

// Identity is the identity-provider surface the gate needs.
type Identity interface {
	IssueToken(ctx context.Context, userID string) (string, error)
	IsOrganizationMember(ctx context.Context, userID string) (bool, error)
}

// Gate decides per request whether the caller is authenticated and
// manages the server-side auth-session record.
type Gate struct {
	store    types.AuthSessionStore
	identity Identity
	secret   []byte
	ttl      time.Duration
}

func New(store types.AuthSessionStore, identity Identity, secret string, ttl time.Duration) *Gate {
	return &Gate{store: store, identity: identity, secret: []byte(secret), ttl: ttl}
}

// Login moves the browser session from anonymous to authenticated. Any
// membership-check failure is logged and treated as a denial, never
// propagated as a hard error.
func (g *Gate) Login(ctx context.Context, w http.ResponseWriter, userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}

	member, err := g.identity.IsOrganizationMember(ctx, userID)
	if err != nil {
		slog.Warn("organization membership check failed", "user_id", userID, "error", err)
		return ErrNotAuthorized
	}
	if !member {
		return ErrNotAuthorized
	}

	token, err := g.identity.IssueToken(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	sess := &types.AuthSession{
		ID:            types.NewAuthSessionID(),
		Authenticated: true,
		UserID:        userID,
		Token:         token,
		CreatedAt:     now,
		ExpiresAt:     now.Add(g.ttl),
	}
	if err := g.store.Put(ctx, sess); err != nil {
		return fmt.Errorf("store auth session: %w", err)
	}

	g.setCookie(w, g.signCookie(sess.ID))
	slog.Info("user logged in", "user_id", userID)
	return nil
}

// Logout clears the session record and cookie unconditionally, whatever
// state the session was in.
func (g *Gate) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if id, ok := g.sessionIDFromRequest(r); ok {
		if err := g.store.Delete(ctx, id); err != nil {
			slog.Warn("delete auth session failed", "error", err)
		}
	}
	g.clearCookie(w)
}

// Session returns the live authenticated session for the request, or nil.
func (g *Gate) Session(r *http.Request) *types.AuthSession {
	id, ok := g.sessionIDFromRequest(r)
	if !ok {
		return nil
	}
	sess, err := g.store.Get(r.Context(), id)
	if err != nil {
		slog.Warn("load auth session failed", "error", err)
		return nil
	}
	if sess == nil || !sess.Authenticated {
		return nil
	}
	return sess
}

type contextKey struct{}

// SessionFrom returns the AuthSession placed on the context by
// RequireAuth.
func SessionFrom(ctx context.Context) *types.AuthSession {
	sess, _ := ctx.Value(contextKey{}).(*types.AuthSession)
	return sess
}

// RequireAuth redirects unauthenticated requests to /login (no return-URL
// mechanism; the user re-navigates). After the handler runs, the session
// record is written back so token refreshes issued during the request
// persist; last write wins across concurrent requests.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := g.Session(r)
		if sess == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, sess)))

		if err := g.store.Put(r.Context(), sess); err != nil {
			slog.Warn("persist auth session failed", "user_id", sess.UserID, "error", err)
		}
	})
}
