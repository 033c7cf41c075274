package repositories

import (
	"strconv"
	"strings"
)

// dialect captures the only SQL difference between the two stores:
// positional placeholders.
type dialect int

const (
	sqliteDialect dialect = iota
	postgresDialect
)

// rebind rewrites "?" placeholders to "$n" for postgres.
func (d dialect) rebind(q string) string {
	if d != postgresDialect {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
