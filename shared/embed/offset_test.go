package embed

import (
	"strconv"
	"testing"
)

func TestParseOffsetSeconds(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{name: "Plain seconds", input: "90", want: 90, wantOK: true},
		{name: "Leading zeros", input: "007", want: 7, wantOK: true},
		{name: "Surrounding whitespace", input: "  42 ", want: 42, wantOK: true},
		{name: "Seconds unit", input: "90s", want: 90, wantOK: true},
		{name: "Full composite", input: "1h2m3s", want: 3723, wantOK: true},
		{name: "Hours and seconds", input: "1h5s", want: 3605, wantOK: true},
		{name: "Minutes only", input: "15m", want: 900, wantOK: true},
		{name: "Uppercase units", input: "1H2M3S", want: 3723, wantOK: true},
		{name: "Minutes over sixty", input: "90m", want: 5400, wantOK: true},
		{name: "Empty", input: "", wantOK: false},
		{name: "Whitespace only", input: "   ", wantOK: false},
		{name: "Zero", input: "0", wantOK: false},
		{name: "Zero composite", input: "0h0m0s", wantOK: false},
		{name: "Units out of order", input: "3s2m", wantOK: false},
		{name: "Separators", input: "1h 2m", wantOK: false},
		{name: "Colon format", input: "1:02:03", wantOK: false},
		{name: "Free text", input: "start here", wantOK: false},
		{name: "Trailing garbage", input: "10sx", wantOK: false},
		{name: "Negative", input: "-5", wantOK: false},
		{name: "Overflow", input: "99999999999999999999999", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOffsetSeconds(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseOffsetSeconds(%q) ok = %t, want %t", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseOffsetSeconds(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseOffsetSecondsDigitStrings(t *testing.T) {
	for _, n := range []int{1, 9, 10, 59, 60, 3600, 86399, 123456} {
		got, ok := ParseOffsetSeconds(strconv.Itoa(n))
		if !ok || got != n {
			t.Errorf("ParseOffsetSeconds(%q) = %d, %t; want %d, true", strconv.Itoa(n), got, ok, n)
		}
	}
}
