package ass

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTime renders ms in the container notation H:MM:SS.cc. Negative
// values are clamped to zero and sub-centisecond precision is truncated;
// the exact value travels in the TIME tag.
func FormatTime(ms int) string {
	if ms < 0 {
		ms = 0
	}
	cs := ms / 10
	h := cs / 360000
	cs -= h * 360000
	m := cs / 6000
	cs -= m * 6000
	s := cs / 100
	cs -= s * 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// ParseTime reads H:MM:SS.cc (the fraction may have any number of digits)
// into milliseconds.
func ParseTime(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	secPart, fracPart, _ := strings.Cut(parts[2], ".")
	sec, err := strconv.Atoi(secPart)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q", s)
	}
	frac := 0
	if fracPart != "" {
		// Normalise to milliseconds: "5" -> 500, "05" -> 50, "0512" -> 51.
		digits := fracPart
		if len(digits) > 3 {
			digits = digits[:3]
		}
		for len(digits) < 3 {
			digits += "0"
		}
		frac, err = strconv.Atoi(digits)
		if err != nil {
			return 0, fmt.Errorf("invalid fraction in %q", s)
		}
	}
	sign := 1
	if h < 0 {
		sign, h = -1, -h
	}
	return sign * (((h*60+m)*60+sec)*1000 + frac), nil
}
