package domain

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"17:30", 1050, false},
		{"23:59", 1439, false},
		{" 08:15 ", 495, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"0900", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	for _, minute := range []int{0, 540, 1050, 1439} {
		formatted := FormatClock(minute)
		parsed, err := ParseClock(formatted)
		if err != nil {
			t.Fatalf("ParseClock(FormatClock(%d)): %v", minute, err)
		}
		if parsed != minute {
			t.Errorf("round trip %d -> %q -> %d", minute, formatted, parsed)
		}
	}
}

func TestCrossesMidnight(t *testing.T) {
	tests := []struct {
		name  string
		start int
		end   int
		want  bool
	}{
		{"day shift", 540, 1020, false},
		{"night shift", 1320, 360, true},
		{"equal start and end", 540, 540, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Shift{StartMinute: tc.start, EndMinute: tc.end}
			if got := s.CrossesMidnight(); got != tc.want {
				t.Errorf("CrossesMidnight() = %v, want %v", got, tc.want)
			}
		})
	}
}
