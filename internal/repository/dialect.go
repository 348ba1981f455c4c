package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// dialect captures what differs between the supported backends: the
// placeholder style and how an auto-generated id is read back after an
// insert.  Queries are written once with "?" placeholders.
type dialect struct {
	name      string
	numbered  bool // $1, $2 ... placeholders
	returning bool // INSERT ... RETURNING id instead of LastInsertId
}

var dialects = map[string]dialect{
	"mysql":    {name: "mysql"},
	"postgres": {name: "postgres", numbered: true, returning: true},
	"sqlite3":  {name: "sqlite3"},
}

// rebind rewrites "?" placeholders for dialects that number them.  The
// queries in this package never contain a literal question mark.
func (d dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

// insert executes an INSERT and returns the generated id.
func (d dialect) insert(ctx context.Context, db *sql.DB, q string, args ...interface{}) (int64, error) {
	if d.returning {
		var id int64
		if err := db.QueryRowContext(ctx, d.rebind(q)+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := db.ExecContext(ctx, d.rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
