package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Normalize parses a language code in POSIX ("en_US.UTF-8"), BCP 47
// ("en-us") or ISO 639-2 ("eng") form and returns it the way spell check
// dictionaries are named: base language, then an underscore and the region
// when one was given. Empty input stays empty.
func Normalize(code string) (string, error) {
	tag, ok, err := parse(code)
	if err != nil || !ok {
		return "", err
	}
	base, _ := tag.Base()
	out := base.String()
	if region, conf := tag.Region(); conf == language.Exact {
		out += "_" + region.String()
	}
	return out, nil
}

// DisplayName returns the English name of code, "Unknown" when it is empty
// or not a language.
func DisplayName(code string) string {
	tag, ok, err := parse(code)
	if err != nil || !ok {
		return "Unknown"
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

func parse(code string) (language.Tag, bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return language.Und, false, nil
	}
	if i := strings.IndexByte(code, '.'); i >= 0 {
		code = code[:i]
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return language.Und, false, fmt.Errorf("unknown language %q: %w", code, err)
	}
	if base, _ := tag.Base(); base.String() == "und" {
		return language.Und, false, fmt.Errorf("unknown language %q", code)
	}
	return tag, true, nil
}
