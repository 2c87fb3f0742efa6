package sqlrepo

import (
	"strconv"
	"strings"
)

// Dialect names the SQL flavour a repository talks to. Queries are written
// once with ? placeholders and rebound per dialect.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Rebind rewrites ? placeholders into the dialect's bind syntax.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			sb.WriteByte(query[i])
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}
