package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "trendie_flash"

// Flash is a one-shot notification shown on the next rendered page.
// Category is "success" or "danger".
type Flash struct {
	Category string
	Message  string
}

func SetFlash(w http.ResponseWriter, category, message string) {
	v := base64.RawURLEncoding.EncodeToString([]byte(category + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    v,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads and clears the flash cookie. Returns nil when there is
// none or it does not decode.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(string(b), "|")
	if !ok {
		return nil
	}
	return &Flash{Category: category, Message: message}
}
