package gen

import "strings"

// initialisms are segments rendered fully upper-case in exported Go names,
// following the usual Go naming conventions.
var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uri":  "URI",
	"api":  "API",
	"uuid": "UUID",
	"ip":   "IP",
	"http": "HTTP",
}

// exportedName converts a schema identifier (snake_case or PascalCase) into
// an exported Go identifier.
func exportedName(name string) string {
	var b strings.Builder

	for _, seg := range splitIdent(name) {
		lower := strings.ToLower(seg)
		if repl, ok := initialisms[lower]; ok {
			b.WriteString(repl)

			continue
		}

		b.WriteString(strings.ToUpper(seg[:1]))
		b.WriteString(seg[1:])
	}

	return b.String()
}

// splitIdent breaks an identifier into segments at underscores and at
// lower-to-upper case transitions.
func splitIdent(name string) []string {
	var segs []string
	start := 0

	flush := func(end int) {
		if end > start {
			segs = append(segs, name[start:end])
		}
		start = end
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' {
			flush(i)
			start = i + 1

			continue
		}

		if i > start && c >= 'A' && c <= 'Z' && name[i-1] >= 'a' && name[i-1] <= 'z' {
			flush(i)
		}
	}
	flush(len(name))

	return segs
}
