package template

import (
	"os"
	"strings"
)

// Render substitutes {key} placeholders with values from vars.
// Unknown keys are left verbatim so templates written for other versions keep
// working. A "{" that does not open a key is literal. "{{" and "}}" render as
// literal braces.
func Render(tpl string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(tpl))

	for i := 0; i < len(tpl); {
		c := tpl[i]
		switch {
		case c == '{' && strings.HasPrefix(tpl[i:], "{{"):
			b.WriteByte('{')
			i += 2
		case c == '}' && strings.HasPrefix(tpl[i:], "}}"):
			b.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(tpl[i+1:], '}')
			if end < 0 {
				b.WriteString(tpl[i:])
				return b.String()
			}
			key := tpl[i+1 : i+1+end]
			if !isKey(key) {
				// A stray brace; keep scanning so later placeholders still render.
				b.WriteByte('{')
				i++
				continue
			}
			if v, ok := vars[key]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(tpl[i : i+end+2])
			}
			i += end + 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func isKey(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// LoadFile reads a user template. A missing, unreadable or blank file
// returns ok=false, meaning "use the built-in template".
func LoadFile(path string) (text string, ok bool) {
	if strings.TrimSpace(path) == "" {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return "", false
	}
	return string(data), true
}
