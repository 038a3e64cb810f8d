// internal/gate/cookie.go
package gate

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/user/sessionboard/internal/types"
)

// Cookie value format: "<session-id>.<hex hmac-sha256 of the id>". The
// server-side store holds all state; the cookie only names the record.

func (g *Gate) signCookie(id types.AuthSessionID) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(id))
	return string(id) + "." + hex.EncodeToString(mac.Sum(nil))
}

func (g *Gate) verifyCookie(value string) (types.AuthSessionID, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(id))
	expected := hex.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) != 1 {
		return "", false
	}
	return types.AuthSessionID(id), true
}

func (g *Gate) sessionIDFromRequest(r *http.Request) (types.AuthSessionID, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return "", false
	}
	return g.verifyCookie(cookie.Value)
}

func (g *Gate) setCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (g *Gate) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
