package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestIssueToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/sign_in_tokens" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected secret bearer, got %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["user_id"] != "user_1" {
			t.Errorf("expected user_1, got %v", body["user_id"])
		}
		if body["expires_in_seconds"] != float64(20) {
			t.Errorf("expected 20s expiry, got %v", body["expires_in_seconds"])
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok_abc"})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", "org_1", time.Second)
	token, err := c.IssueToken(context.Background(), "user_1")
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok_abc" {
		t.Errorf("expected tok_abc, got %q", token)
	}
}

func TestIssueTokenUpstreamErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"json message", `{"message":"invalid user"}`, "invalid user"},
		{"errors array", `{"errors":[{"message":"no such user"}]}`, "no such user"},
		{"raw body", `gateway timeout`, "non-JSON response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, "secret", "org_1", time.Second)
			_, err := c.IssueToken(context.Background(), "user_1")
			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected AuthError, got %v", err)
			}
			if !strings.Contains(authErr.Error(), tt.want) {
				t.Errorf("expected message containing %q, got %q", tt.want, authErr.Error())
			}
		})
	}
}

func TestIssueTokenTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, "secret", "org_1", time.Second)
	_, err := c.IssueToken(context.Background(), "user_1")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Unwrap() == nil {
		t.Error("expected wrapped transport cause")
	}
}

func membershipServer(t *testing.T, orgIDs ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v1/users/") || !strings.HasSuffix(r.URL.Path, "/organization_memberships") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		type org struct {
			Organization map[string]string `json:"organization"`
		}
		data := make([]org, 0, len(orgIDs))
		for _, id := range orgIDs {
			data = append(data, org{Organization: map[string]string{"id": id}})
		}
		json.NewEncoder(w).Encode(map[string]any{"total_count": len(data), "data": data})
	}))
}

func TestIsOrganizationMember(t *testing.T) {
	srv := membershipServer(t, "org_other", "org_1")
	defer srv.Close()

	c := New(srv.URL, "secret", "org_1", time.Second)
	member, err := c.IsOrganizationMember(context.Background(), "user_1")
	if err != nil {
		t.Fatal(err)
	}
	if !member {
		t.Error("expected membership")
	}
}

func TestIsOrganizationMemberNotListed(t *testing.T) {
	srv := membershipServer(t, "org_other")
	defer srv.Close()

	c := New(srv.URL, "secret", "org_1", time.Second)
	member, err := c.IsOrganizationMember(context.Background(), "user_1")
	if err != nil {
		t.Fatal(err)
	}
	if member {
		t.Error("expected no membership")
	}
}

func TestIsOrganizationMemberUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"forbidden"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", "org_1", time.Second)
	_, err := c.IsOrganizationMember(context.Background(), "user_1")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}
