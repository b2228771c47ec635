package sections

import (
	"fmt"
	"strings"
)

func propString(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

func propStrings(props map[string]any, key string) []string {
	switch v := props[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	}
	return nil
}

func propMap(props map[string]any, key string) map[string]any {
	if v, ok := props[key].(map[string]any); ok {
		return v
	}
	return nil
}

// propList returns the map items of a list prop; non-map entries are skipped.
func propList(props map[string]any, key string) []map[string]any {
	switch v := props[key].(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

var safeSchemes = []string{"http://", "https://", "mailto:", "tel:", "#", "/"}

// safeHref drops hrefs with schemes that could execute script.
func safeHref(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	lower := strings.ToLower(href)
	for _, prefix := range safeSchemes {
		if strings.HasPrefix(lower, prefix) {
			return href
		}
	}
	if !strings.Contains(lower, ":") {
		return href
	}
	return "#"
}

// link reads a {label, href} prop. It returns nil when no label is set.
func link(props map[string]any, key string) map[string]any {
	raw := propMap(props, key)
	label := propString(raw, "label")
	if label == "" {
		return nil
	}
	href := safeHref(propString(raw, "href"))
	if href == "" {
		href = "#"
	}
	return map[string]any{"label": label, "href": href}
}
