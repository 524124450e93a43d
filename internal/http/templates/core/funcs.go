// Package core provides the template helpers shared by every console page.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/mxc-foundation/lpwan-console/internal/util"
)

// Deps holds the dependencies of the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Now is the clock used by relativeTime; defaults to time.Now.
	Now func() time.Time
}

// Funcs returns the core template.FuncMap.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": friendlyTime,
		"relativeTime": func(ts any) string {
			t0, ok := toTime(ts)
			if !ok {
				return ""
			}
			return util.FriendlyRelativeTime(t0, now())
		},
		"timeTag":      timeTag,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"formatNumber": formatNumber,
		"truncateText": TruncateText,
		"badgeClass":   BadgeClass,
		"dict":         dict,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - output of our own html/template set; values were escaped during execution.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func toTime(ts any) (time.Time, bool) {
	switch v := ts.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v != nil && !v.IsZero() {
			return *v, true
		}
	}
	return time.Time{}, false
}

func friendlyTime(ts any) string {
	t0, ok := toTime(ts)
	if !ok {
		return ""
	}
	return util.FormatFriendlyDateTime(t0)
}

func timeTag(ts any) template.HTML {
	t0, ok := toTime(ts)
	if !ok {
		return ""
	}
	// #nosec G203 - built from escaped values only
	return template.HTML(fmt.Sprintf(
		`<time datetime="%s" title="%s">%s</time>`,
		t0.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(t0.UTC().Format(time.RFC1123)),
		template.HTMLEscapeString(util.FormatFriendlyDateTime(t0)),
	))
}

// formatNumber formats signed integers with thousands separators.
func formatNumber(v any) string {
	switch x := v.(type) {
	case int:
		return util.FormatThousands(int64(x))
	case int32:
		return util.FormatThousands(int64(x))
	case int64:
		return util.FormatThousands(x)
	default:
		return fmt.Sprint(v)
	}
}

// BadgeClass maps a cell badge style to its CSS class.
func BadgeClass(style string) string {
	switch style {
	case "success", "danger", "warning", "info":
		return "badge badge-" + style
	case "":
		return ""
	default:
		return "badge badge-light"
	}
}

// TruncateText truncates s to at most maxLen runes, ending with an ellipsis.
// maxLen may be any numeric type for template convenience.
func TruncateText(s string, maxLen any) string {
	var n int
	switch v := maxLen.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	default:
		return s
	}
	if n <= 0 {
		return s
	}
	return util.TruncateWithEllipsis(s, n)
}

// dict builds a map from alternating keys and values so templates can pass
// several values to a nested template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
