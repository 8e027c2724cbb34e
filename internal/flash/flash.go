// Package flash keeps one-shot messages that survive exactly one redirect.
package flash

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

// CookieName carries either the signed message or the redis key, depending on the store.
const CookieName = "skincare_flash"

type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

func Error(text string) Message {
	return Message{Kind: KindError, Text: text}
}

func Success(text string) Message {
	return Message{Kind: KindSuccess, Text: text}
}

// Store persists a message for the next request. Take returns nil when nothing is pending.
type Store interface {
	Put(c echo.Context, m Message) error
	Take(c echo.Context) (*Message, error)
}

func setCookie(c echo.Context, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
