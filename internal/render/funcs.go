// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/iotcentral/internal/catalog"
	"github.com/olegiv/iotcentral/internal/view"
)

// TemplateFuncs returns the function map shared by every template, with any
// functions added through AddTemplateFuncs layered on top.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"formatTime": func(t time.Time) string {
			return t.Format("15:04:05")
		},
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
		"viewPath":  func(id view.ID) string { return view.Path(id) },
		"viewTitle": func(id view.ID) string { return view.Title(id) },
		"formatNumber": func(v any) string {
			f, ok := toFloat(v)
			if !ok {
				return fmt.Sprint(v)
			}
			return catalog.FormatNumber(f)
		},
		"percent":   percent,
		"sparkline": sparkline,
		"toJSON": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return template.JS(b)
		},
		"recaptchaEnabled": func() bool { return false },
		"recaptchaSiteKey": func() string { return "" },
		"chatEnabled":      func() bool { return false },
	}

	if r != nil {
		r.mu.RLock()
		maps.Copy(funcs, r.extraFuncs)
		r.mu.RUnlock()
	}
	return funcs
}

// percent returns value as a whole-number share of total, clamped to 0-100.
func percent(value, total any) int {
	v, ok1 := toFloat(value)
	t, ok2 := toFloat(total)
	if !ok1 || !ok2 || t <= 0 {
		return 0
	}
	p := int(v / t * 100)
	return min(max(p, 0), 100)
}

// sparkline returns SVG polyline points plotting values across a
// width x height box, highest value at the top.
func sparkline(values []int, width, height int) string {
	if len(values) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	step := 0.0
	if len(values) > 1 {
		step = float64(width) / float64(len(values)-1)
	}

	var b strings.Builder
	for i, v := range values {
		y := float64(height) / 2
		if span > 0 {
			y = float64(height) - float64(v-lo)/float64(span)*float64(height)
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(float64(i)*step, 'f', 1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(y, 'f', 1, 64))
	}
	return b.String()
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
