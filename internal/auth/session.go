package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie set on login and cleared on logout.
const CookieName = "trendie_session"

var ErrInvalidSession = errors.New("invalid session")

// SessionManager issues and verifies the signed tokens carried in the
// session cookie. Sessions are stateless: the token holds the user id
// and an expiry, nothing is stored server-side.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (m *SessionManager) Issue(userID string) (token string, expires time.Time, err error) {
	now := time.Now()
	expires = now.Add(m.ttl)
	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	return token, expires, err
}

// Verify returns the user id carried by a session token.
func (m *SessionManager) Verify(token string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	})
	if err != nil || claims.UserID == "" {
		return "", ErrInvalidSession
	}
	return claims.UserID, nil
}

func (m *SessionManager) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
