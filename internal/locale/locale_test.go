package locale

import "testing"

func TestForTimezone(t *testing.T) {
	tests := []struct {
		timezone string
		want     string
	}{
		{"America/New_York", "United States"},
		{"America/Toronto", "Canada"},
		{"America/Mexico_City", "Mexico"},
		{"Asia/Seoul", "South Korea"},
		{"Asia/Taipei", "Taiwan"},
		{"Asia/Tokyo", "Japan"},

		// Edge cases
		{"UTC", ""},
		{"GMT", ""},
		{"Etc/UTC", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			got := ForTimezone(tt.timezone)
			if got.Country != tt.want {
				t.Errorf("ForTimezone(%q).Country = %q, want %q", tt.timezone, got.Country, tt.want)
			}
			if got.Name != tt.timezone {
				t.Errorf("ForTimezone(%q).Name = %q", tt.timezone, got.Name)
			}
		})
	}
}

func TestZoneString(t *testing.T) {
	tests := []struct {
		zone Zone
		want string
	}{
		{Zone{}, "unknown"},
		{Zone{Name: "UTC"}, "UTC"},
		{Zone{Name: "Asia/Tokyo", Country: "Japan"}, "Asia/Tokyo (Japan)"},
	}

	for _, tt := range tests {
		if got := tt.zone.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.zone, got, tt.want)
		}
	}
}

func TestLocal(t *testing.T) {
	// Just verify it does not panic and stays self-consistent
	zone := Local()
	if zone.Name == "" && zone.Country != "" {
		t.Errorf("Local() = %+v, country without timezone", zone)
	}
}
