package logging

import (
	"log/slog"
	"slices"
	"strings"
	"time"
)

type infoField struct {
	label string
	value string
}

const infoAttrLimit = 8

// infoHighlightKeys are listed first, in this order, when present.
var infoHighlightKeys = []string{
	FieldEventType,
	"invocation",
	"error",
	FieldErrorHint,
	FieldImpact,
	FieldPath,
	"source",
	"name",
	"generation",
	"names",
	"menu_items",
	"events",
	"styles",
	"took",
}

// selectInfoFields formats attrs for bullet display, highlight keys first.
// limit=0 means no limit. Without includeDebug, debug-only keys and very
// long values are left out.
func selectInfoFields(attrs []kv, limit int, includeDebug bool) []infoField {
	used := make([]bool, len(attrs))
	var result []infoField

	consider := func(idx int) {
		used[idx] = true
		attr := attrs[idx]
		if skipInfoKey(attr.key) || (limit > 0 && len(result) >= limit) {
			return
		}
		if !includeDebug && isDebugOnlyKey(attr.key) {
			return
		}
		val := formatValueForKey(attr.key, attr.value)
		if !includeDebug && shouldHideInfoValue(attr.key, val) {
			return
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: val})
	}

	for _, key := range infoHighlightKeys {
		if idx := slices.IndexFunc(attrs, func(a kv) bool { return a.key == key }); idx >= 0 && !used[idx] {
			consider(idx)
		}
	}
	for idx := range attrs {
		if !used[idx] {
			consider(idx)
		}
	}
	return result
}

func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	value := formatValue(v)
	if key == "error" {
		value = truncateErrorValue(value)
	}
	return value
}

func truncateErrorValue(value string) string {
	value = strings.TrimSpace(value)
	const maxLen = 200
	if len(value) > maxLen {
		value = value[:maxLen] + "…"
	}
	return value
}

// skipInfoKey reports keys already rendered in the header.
func skipInfoKey(key string) bool {
	switch key {
	case "", FieldComponent, FieldBatchID, FieldCommand, FieldRunID:
		return true
	default:
		return false
	}
}

func isDebugOnlyKey(key string) bool {
	switch key {
	case "", "stack", "previous_source", "state":
		return true
	}
	return strings.HasSuffix(key, "_id")
}

func shouldHideInfoValue(key, value string) bool {
	switch key {
	case "error", "invocation", FieldErrorHint:
		return false
	}
	return len(value) > 120
}

func displayLabel(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	case "menu_items":
		return "Menu"
	case "names":
		return "Commands"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	if key == "" {
		return ""
	}
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		parts[i] = capitalizeASCII(part)
	}
	return strings.Join(parts, " ")
}

func capitalizeASCII(value string) string {
	switch len(value) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(value)
	default:
		lower := strings.ToLower(value)
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
}

func infoSummaryKey(head header) string {
	if head.batchID != "" {
		return "batch:" + head.batchID
	}
	return head.component
}
