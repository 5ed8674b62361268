package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the frontmatter and admin date formats we accept, in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func GetString(m map[string]interface{}, k string) string {
	if v, ok := m[k]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func GetSlice(m map[string]interface{}, k string) []string {
	res := []string{}
	v, ok := m[k]
	if !ok || v == nil {
		return res
	}
	switch l := v.(type) {
	case []interface{}:
		for _, i := range l {
			if i == nil {
				continue
			}
			res = append(res, fmt.Sprintf("%v", i))
		}
	case []string:
		res = append(res, l...)
	case string:
		// "go, testing" style tag lists
		for _, part := range strings.Split(l, ",") {
			if p := strings.TrimSpace(part); p != "" {
				res = append(res, p)
			}
		}
	}
	return res
}

// GetBool returns the boolean at k, or def when the key is absent or not a
// recognizable boolean.
func GetBool(m map[string]interface{}, k string, def bool) bool {
	v, ok := m[k]
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	return def
}

func GetTime(m map[string]interface{}, k string) (time.Time, bool) {
	v, ok := m[k]
	if !ok || v == nil {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return ParseDate(t)
	case int:
		return time.UnixMilli(int64(t)).UTC(), true
	case int64:
		return time.UnixMilli(t).UTC(), true
	}
	return time.Time{}, false
}

// ParseDate parses s with the first matching layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
