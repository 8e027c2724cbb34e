package flash

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"skincare/internal/cache"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "flash:"

// RedisStore keeps the message in redis; the cookie only holds a random id.
type RedisStore struct {
	cache cache.Cache
	ttl   time.Duration
	newID func() string
}

func NewRedisStore(c cache.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl, newID: uuid.NewString}
}

func (s *RedisStore) Put(c echo.Context, m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode flash: %w", err)
	}
	id := s.newID()
	if err := s.cache.Set(c.Request().Context(), keyPrefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store flash: %w", err)
	}
	setCookie(c, id, s.ttl)
	return nil
}

func (s *RedisStore) Take(c echo.Context) (*Message, error) {
	ck, err := c.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && ck.Value == "") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	clearCookie(c)

	ctx := c.Request().Context()
	key := keyPrefix + ck.Value
	raw, err := s.cache.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load flash: %w", err)
	}
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		return nil, fmt.Errorf("delete flash: %w", err)
	}

	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode flash: %w", err)
	}
	return &m, nil
}
