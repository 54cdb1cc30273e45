package plans

import "time"

// DayKey buckets usage counters by calendar day. All days are computed in UTC
// so the quota window does not depend on the server's local zone.
type DayKey string

const dayKeyLayout = "2006-01-02"

func DayKeyAt(t time.Time) DayKey {
	return DayKey(t.UTC().Format(dayKeyLayout))
}

func Today() DayKey {
	return DayKeyAt(time.Now())
}

func (d DayKey) String() string {
	return string(d)
}
