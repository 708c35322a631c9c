package httpclient

import (
	"strconv"
	"strings"
	"time"
)

// CacheControl holds request cache directives. Durations are sent in
// whole seconds; a zero duration omits the directive.
type CacheControl struct {
	NoCache      bool          `yaml:"no_cache" mapstructure:"no_cache"`
	NoStore      bool          `yaml:"no_store" mapstructure:"no_store"`
	MaxAge       time.Duration `yaml:"max_age" mapstructure:"max_age" validate:"gte=0"`
	MaxStale     time.Duration `yaml:"max_stale" mapstructure:"max_stale" validate:"gte=0"`
	MinFresh     time.Duration `yaml:"min_fresh" mapstructure:"min_fresh" validate:"gte=0"`
	OnlyIfCached bool          `yaml:"only_if_cached" mapstructure:"only_if_cached"`
	NoTransform  bool          `yaml:"no_transform" mapstructure:"no_transform"`
	Immutable    bool          `yaml:"immutable" mapstructure:"immutable"`
}

// IsZero reports whether no directive is set.
func (c *CacheControl) IsZero() bool {
	return c == nil || *c == CacheControl{}
}

// String renders the Cache-Control header value, e.g. "no-cache, max-age=60".
func (c *CacheControl) String() string {
	if c.IsZero() {
		return ""
	}
	var directives []string
	if c.NoCache {
		directives = append(directives, "no-cache")
	}
	if c.NoStore {
		directives = append(directives, "no-store")
	}
	if s := seconds(c.MaxAge); s != "" {
		directives = append(directives, "max-age="+s)
	}
	if s := seconds(c.MaxStale); s != "" {
		directives = append(directives, "max-stale="+s)
	}
	if s := seconds(c.MinFresh); s != "" {
		directives = append(directives, "min-fresh="+s)
	}
	if c.OnlyIfCached {
		directives = append(directives, "only-if-cached")
	}
	if c.NoTransform {
		directives = append(directives, "no-transform")
	}
	if c.Immutable {
		directives = append(directives, "immutable")
	}
	return strings.Join(directives, ", ")
}

func seconds(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return strconv.FormatInt(int64(d/time.Second), 10)
}
