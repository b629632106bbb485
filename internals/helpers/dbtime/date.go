// file: internals/helpers/dbtime/date.go
package dbtime

import (
	"os"
	"time"
)

var tenantLocation *time.Location

func init() {
	// Zona operasional default untuk "hari ini" saat live check-in.
	name := os.Getenv("TENANT_TIMEZONE")
	if name == "" {
		name = "Asia/Jakarta"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}
	tenantLocation = loc
}

// Location zona operasional tenant.
func Location() *time.Location {
	return tenantLocation
}

// DateOnly memotong timestamp ke hari kalender (00:00 di zona tenant).
func DateOnly(t time.Time) time.Time {
	tt := t.In(tenantLocation)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, tenantLocation)
}

// Today = hari kalender saat ini di zona tenant.
func Today() time.Time {
	return DateOnly(time.Now())
}
