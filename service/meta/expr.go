package meta

import (
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnv replaces every ${env.KEY} with the value returned by lookup (empty if unset).
// Other placeholders, such as build parameters, are left for the parameter resolver.
func expandEnv(value string, lookup func(key string) (string, bool)) string {
	var b strings.Builder
	for {
		idx := strings.Index(value, envPrefix)
		if idx < 0 {
			b.WriteString(value)
			return b.String()
		}
		b.WriteString(value[:idx])
		rest := value[idx+len(envPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(value[idx:])
			return b.String()
		}
		key := rest[:end]
		if !isEnvKey(key) {
			// keep the prefix literal and rescan after it, nested expressions still expand
			b.WriteString(envPrefix)
			value = rest
			continue
		}
		if v, ok := lookup(key); ok {
			b.WriteString(v)
		}
		value = rest[end+1:]
	}
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
