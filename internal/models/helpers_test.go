package models

import "testing"

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{"zero", 0, "0:00"},
		{"negative", -500, "0:00"},
		{"sub-second floors", 999, "0:00"},
		{"seconds padded", 5_000, "0:05"},
		{"minutes", 65_400, "1:05"},
		{"long match", 940_000, "15:40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatClock(tt.in)
			if got != tt.want {
				t.Errorf("FormatClock(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{"plain seconds", "90", 90_000, false},
		{"minutes and seconds", "1:30", 90_000, false},
		{"padded", "02:05", 125_000, false},
		{"whitespace", " 0:10 ", 10_000, false},
		{"empty", "", 0, true},
		{"seconds overflow", "1:60", 0, true},
		{"garbage", "abc", 0, true},
		{"negative", "-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
