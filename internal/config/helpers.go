package config

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"

	"github.com/petdex/analytics/internal/analytics"
)

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// ServerAddress returns the HTTP listen address
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// Location returns the analytics timezone, UTC if unset or invalid.
// Supports formats:
//   - IANA timezone names: "America/Sao_Paulo", "UTC"
//   - Offset format: "-03:00", "+00:00"
func (c *AnalyticsConfig) Location() *time.Location {
	loc, err := parseTimezone(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Limits builds the analytics limits from configuration
func (c *AnalyticsConfig) Limits() analytics.Limits {
	return analytics.Limits{
		HeartRateMin:       c.HeartRateMin,
		HeartRateMax:       c.HeartRateMax,
		SanityMax:          c.SanityMax,
		OutlierK:           c.OutlierK,
		WindowDays:         c.WindowDays,
		WindowHours:        c.WindowHours,
		MinReferencePoints: c.MinReferencePoints,
		ProjectionRows:     c.ProjectionRows,
		ForecastHorizon:    c.ForecastHorizon,
		ForecastStep:       c.ForecastStep,
		JoinGranularity:    c.JoinGranularity,
		IncludeGyroscope:   c.IncludeGyroscope,
		Location:           c.Location(),
	}
}

func parseTimezone(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}

	// Offsets first: LoadLocation would treat "-03:00" as a file name
	if loc, err := parseOffsetTimezone(tz); err == nil {
		return loc, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q", tz)
	}
	return loc, nil
}

// parseOffsetTimezone parses timezone offset format like "+09:00", "-03:00"
func parseOffsetTimezone(offset string) (*time.Location, error) {
	matches := offsetPattern.FindStringSubmatch(offset)
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid offset format: %s", offset)
	}

	sign := 1
	if matches[1] == "-" {
		sign = -1
	}

	hours, _ := strconv.Atoi(matches[2])
	minutes, _ := strconv.Atoi(matches[3])
	if hours > 14 || minutes > 59 {
		return nil, fmt.Errorf("offset out of range: %s", offset)
	}

	return time.FixedZone(offset, sign*(hours*3600+minutes*60)), nil
}
