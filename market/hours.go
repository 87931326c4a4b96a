package market

import (
	"time"
)

// Session open/close in seconds since midnight, exchange local time.
// Both boundaries are exclusive: 09:15:00 sharp and 15:30:00 sharp are
// treated as closed.
const (
	sessionOpen  = 9*3600 + 15*60
	sessionClose = 15*3600 + 30*60
)

// Hours answers whether the exchange is open at a given instant.
type Hours struct {
	loc *time.Location
}

// NewHours builds an Hours for the named IANA timezone, e.g.
// "Asia/Kolkata" for the NSE session.
func NewHours(tz string) (Hours, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Hours{}, err
	}
	return Hours{loc: loc}, nil
}

// Open reports whether t falls strictly inside the trading session.
func (h Hours) Open(t time.Time) bool {
	lt := t.In(h.loc)
	sec := lt.Hour()*3600 + lt.Minute()*60 + lt.Second()
	return sec > sessionOpen && sec < sessionClose
}
