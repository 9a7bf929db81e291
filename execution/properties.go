package execution

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Properties configure a Context. Keys are namespaced by transport, e.g.
// "http.base_url".
type Properties map[string]string

// WithPrefix returns the properties whose keys start with prefix. Keys are
// kept unchanged.
func (p Properties) WithPrefix(prefix string) Properties {
	out := make(Properties)
	for k, v := range p {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}

	return out
}

// Get returns the value of key, or def if it is missing or blank.
func (p Properties) Get(key, def string) string {
	if v := strings.TrimSpace(p[key]); v != "" {
		return v
	}

	return def
}

// Duration reads key as a duration such as "30s"; plain numbers are taken as
// milliseconds.
func (p Properties) Duration(key string, def time.Duration) (time.Duration, error) {
	v := p.Get(key, "")
	if v == "" {
		return def, nil
	}

	if ms, err := cast.ToInt64E(strings.TrimLeft(v, "0")); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	return cast.ToDurationE(v)
}
