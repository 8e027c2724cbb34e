// Package static serves the front-end assets with per-pattern cache lifetimes.
package static

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Rule maps a URL pattern to a cache lifetime. "/dir/**" matches anything below dir;
// other patterns use path.Match, where * stays within one segment.
type Rule struct {
	Pattern string
	MaxAge  time.Duration
}

var DefaultRules = []Rule{
	{Pattern: "/css/**", MaxAge: time.Hour},
	{Pattern: "/js/**", MaxAge: time.Hour},
	{Pattern: "/images/**", MaxAge: time.Hour},
	{Pattern: "/*.html", MaxAge: time.Hour},
	{Pattern: "/*.css", MaxAge: time.Hour},
	{Pattern: "/*.js", MaxAge: time.Hour},
	{Pattern: "/Pics/**", MaxAge: 24 * time.Hour},
}

func (r Rule) Match(p string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "**"); ok {
		return strings.HasPrefix(p, prefix) && len(p) > len(prefix)
	}
	ok, err := path.Match(r.Pattern, p)
	return err == nil && ok
}

func lookup(rules []Rule, p string) (Rule, bool) {
	for _, r := range rules {
		if r.Match(p) {
			return r, true
		}
	}
	return Rule{}, false
}

// Handler 依規則從 root 提供檔案；"/" 對應 index.html 且不設快取
func Handler(root string, rules []Rule) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := path.Clean("/" + c.Request().URL.Path)
		if p == "/" {
			return serve(c, root, "/index.html", "")
		}
		r, ok := lookup(rules, p)
		if !ok {
			return echo.ErrNotFound
		}
		return serve(c, root, p, fmt.Sprintf("max-age=%d", int(r.MaxAge.Seconds())))
	}
}

func serve(c echo.Context, root, p, cacheControl string) error {
	file := filepath.Join(root, filepath.FromSlash(p))
	fi, err := os.Stat(file)
	if err != nil || fi.IsDir() {
		return echo.ErrNotFound
	}
	if cacheControl != "" {
		c.Response().Header().Set(echo.HeaderCacheControl, cacheControl)
	}
	return c.File(file)
}
