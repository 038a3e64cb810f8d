package gate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/sessionboard/internal/identity"
	"github.com/user/sessionboard/internal/state"
)

type fakeIdentity struct {
	member    bool
	memberErr error
	token     string
	tokenErr  error
}

func (f *fakeIdentity) IssueToken(_ context.Context, userID string) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return f.token, nil
}

func (f *fakeIdentity) IsOrganizationMember(_ context.Context, userID string) (bool, error) {
	return f.member, f.memberErr
}

func setupGate(t *testing.T, idp *fakeIdentity) (*Gate, *state.MemoryStore) {
	t.Helper()
	store := state.NewMemoryStore()
	return New(store, idp, "signing-secret", time.Hour), store
}

// loginCookie runs a login and returns the cookie it set.
func loginCookie(t *testing.T, g *Gate, userID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := g.Login(context.Background(), rec, userID); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func TestLoginMissingUserID(t *testing.T) {
	g, _ := setupGate(t, &fakeIdentity{member: true, token: "tok"})

	rec := httptest.NewRecorder()
	err := g.Login(context.Background(), rec, "")
	if !errors.Is(err, ErrMissingUserID) {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie may be set on a failed login")
	}
}

func TestLoginNotAMember(t *testing.T) {
	g, _ := setupGate(t, &fakeIdentity{member: false, token: "tok"})

	err := g.Login(context.Background(), httptest.NewRecorder(), "user_1")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestLoginMembershipErrorIsDenialNotFailure(t *testing.T) {
	idp := &fakeIdentity{member: true, memberErr: &identity.AuthError{Message: "identity provider down"}, token: "tok"}
	g, _ := setupGate(t, idp)

	err := g.Login(context.Background(), httptest.NewRecorder(), "user_1")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("membership errors must deny, got %v", err)
	}
	var authErr *identity.AuthError
	if errors.As(err, &authErr) {
		t.Error("identity error must not propagate out of the gate")
	}
}

func TestLoginSuccess(t *testing.T) {
	g, store := setupGate(t, &fakeIdentity{member: true, token: "tok_1"})
	cookie := loginCookie(t, g, "user_1")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess := g.Session(req)
	if sess == nil {
		t.Fatal("expected an authenticated session")
	}
	if sess.UserID != "user_1" || sess.Token != "tok_1" || !sess.Authenticated {
		t.Errorf("unexpected session %+v", sess)
	}

	stored, err := store.Get(context.Background(), sess.ID)
	if err != nil || stored == nil {
		t.Fatalf("session record not stored: %v", err)
	}
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	g, _ := setupGate(t, &fakeIdentity{member: true, token: "tok"})
	cookie := loginCookie(t, g, "user_1")
	cookie.Value += "0"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	if g.Session(req) != nil {
		t.Error("tampered cookie must not authenticate")
	}
}

func TestLogoutResetsState(t *testing.T) {
	g, _ := setupGate(t, &fakeIdentity{member: true, token: "tok"})
	cookie := loginCookie(t, g, "user_1")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	g.Logout(context.Background(), rec, req)

	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.AddCookie(cookie)
	if g.Session(again) != nil {
		t.Error("session must be anonymous after logout")
	}

	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Errorf("expected cookie clear, got %+v", cleared)
	}
}

func TestLogoutWithoutSessionIsFine(t *testing.T) {
	g, _ := setupGate(t, &fakeIdentity{})
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	g.Logout(context.Background(), httptest.NewRecorder(), req)
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	g, _ := setupGate(t, &fakeIdentity{})
	handler := g.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for anonymous requests")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected /login with no return url, got %q", loc)
	}
}

func TestRequireAuthPassesSessionAndPersistsTokenWrites(t *testing.T) {
	g, store := setupGate(t, &fakeIdentity{member: true, token: "tok"})
	cookie := loginCookie(t, g, "user_1")

	handler := g.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		if sess == nil {
			t.Fatal("expected session on context")
		}
		sess.Token = "tok_refreshed"
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.AddCookie(cookie)
	sess := g.Session(again)
	if sess == nil {
		t.Fatal("expected session to survive")
	}
	if sess.Token != "tok_refreshed" {
		t.Errorf("token write not persisted, got %q", sess.Token)
	}
	if stored, _ := store.Get(context.Background(), sess.ID); stored == nil || stored.Token != "tok_refreshed" {
		t.Error("store does not hold the refreshed token")
	}
}
