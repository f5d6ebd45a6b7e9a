package tracker

import (
	"strconv"
	"time"
)

// ID is the stable identity of a record: its creation time in milliseconds,
// made strictly increasing within a Store.
type ID int64

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseID parses the decimal form of an ID.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(v), nil
}

// idGenerator hands out IDs from a clock. Two records created within the
// same millisecond still get distinct IDs.
type idGenerator struct {
	last ID
}

func (g *idGenerator) next(now time.Time) ID {
	id := ID(now.UnixMilli())
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// observe makes sure ids already in use are never handed out again.
func (g *idGenerator) observe(id ID) {
	if id > g.last {
		g.last = id
	}
}
