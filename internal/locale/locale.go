// Package locale describes where a batch ran, from the system timezone.
package locale

import (
	"strings"

	tz "github.com/medama-io/go-timezone-country"
	"github.com/thlib/go-timezone-local/tzlocal"
)

// Zone is an IANA timezone and the country it belongs to, when known.
type Zone struct {
	Name    string
	Country string
}

// String formats the zone for reports, e.g. "Europe/London (United Kingdom)".
func (z Zone) String() string {
	switch {
	case z.Name == "":
		return "unknown"
	case z.Country == "":
		return z.Name
	default:
		return z.Name + " (" + z.Country + ")"
	}
}

// Local returns the zone of the running process.
// Detection failure yields an empty Zone rather than an error.
func Local() Zone {
	timezone, err := tzlocal.RuntimeTZ()
	if err != nil {
		return Zone{}
	}
	return ForTimezone(timezone)
}

// ForTimezone resolves the country for an IANA timezone name.
// Exported for testing with specific timezones.
func ForTimezone(timezone string) Zone {
	zone := Zone{Name: timezone}

	// UTC/GMT have no country association
	if timezone == "" || timezone == "UTC" || timezone == "GMT" || strings.HasPrefix(timezone, "Etc/") {
		return zone
	}

	tzMap, err := tz.NewTimezoneCountryMap()
	if err != nil {
		return zone
	}

	country, err := tzMap.GetCountry(timezone)
	if err != nil {
		return zone
	}
	zone.Country = country
	return zone
}
