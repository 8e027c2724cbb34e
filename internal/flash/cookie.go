package flash

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type flashClaims struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	jwt.RegisteredClaims
}

// CookieStore keeps the message itself in an HS256-signed cookie.
type CookieStore struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCookieStore(secret string, ttl time.Duration) *CookieStore {
	return &CookieStore{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *CookieStore) Put(c echo.Context, m Message) error {
	now := s.now()
	claims := flashClaims{
		Kind: m.Kind,
		Text: m.Text,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign flash: %w", err)
	}
	setCookie(c, signed, s.ttl)
	return nil
}

// Take clears the cookie whether or not its token verifies.
func (s *CookieStore) Take(c echo.Context) (*Message, error) {
	ck, err := c.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && ck.Value == "") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	clearCookie(c)

	claims := &flashClaims{}
	_, err = jwt.ParseWithClaims(ck.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("verify flash: %w", err)
	}
	return &Message{Kind: claims.Kind, Text: claims.Text}, nil
}
