package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/maisonvault/backfill/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	trailingPointZeroRegex = regexp.MustCompile(`\.0$`)
	allDigitsRegex         = regexp.MustCompile(`^\d+$`)
)

// isBlank reports whether a raw attribute value is absent for practical
// purposes: empty after trimming, or the literal "nan" a spreadsheet
// round-trip leaves behind.
func isBlank(raw string) bool {
	v := strings.TrimSpace(raw)
	return v == "" || strings.EqualFold(v, "nan")
}

// FirstOfListish resolves a loosely-typed attribute value that may be a
// plain string or a textually encoded list (JSON array or
// bracket-delimited, quoted, comma-separated). List-shaped input yields
// the first element; plain input is returned trimmed. The second return
// is false when no usable value exists.
func FirstOfListish(raw string) (string, bool) {
	if isBlank(raw) {
		return "", false
	}
	v := strings.TrimSpace(raw)

	if !strings.HasPrefix(v, "[") || !strings.HasSuffix(v, "]") {
		return v, true
	}

	// Strict JSON decode first
	var parsed []any
	if err := json.Unmarshal([]byte(v), &parsed); err == nil {
		if len(parsed) == 0 || parsed[0] == nil {
			return "", false
		}
		return strings.TrimSpace(stringify(parsed[0])), true
	}

	// Lenient fallback: strip list punctuation and split on commas
	v2 := strings.NewReplacer("[", "", "]", "", `"`, "", `\`, "").Replace(v)
	for _, part := range strings.Split(v2, ",") {
		if p := strings.TrimSpace(part); p != "" {
			return p, true
		}
	}
	return "", false
}

// stringify renders a decoded JSON value as a plain string. Whole
// numbers print without a decimal part.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// NormalizeDimensions converts a JSON-encoded list of measurement
// objects into typed dimensions. Values that parse cleanly as whole
// numbers become ints, other parseable values floats, the rest are kept
// raw; unit spellings of centimeters collapse to "cm". Any decode
// failure, or a decode yielding no usable elements, degrades to the
// original raw string; blank input yields nil.
func NormalizeDimensions(raw string) any {
	if isBlank(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)

	var parsed []any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return s
	}

	out := make([]domain.Dimension, 0, len(parsed))
	for _, elem := range parsed {
		d, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		unit, _ := d["unit"].(string)
		unit = strings.ToLower(unit)
		unit = strings.ReplaceAll(unit, "centimeters", "cm")
		unit = strings.ReplaceAll(unit, "centimetres", "cm")

		out = append(out, domain.Dimension{
			Value: coerceNumeric(d["value"]),
			Unit:  unit,
		})
	}

	if len(out) == 0 {
		return s
	}
	return out
}

// coerceNumeric turns a raw measurement value into an int when it is a
// whole number, a float64 when it is numeric at all, and leaves it
// untouched otherwise.
func coerceNumeric(v any) any {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) {
			return int(t)
		}
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return t
		}
		if f == math.Trunc(f) {
			return int(f)
		}
		return f
	default:
		return v
	}
}

// NormalizeProductID canonicalizes a row identifier into the catalog's
// global identifier form. Numeric identifiers (including the ".0"
// spreadsheet float artifact) are wrapped as gid://shopify/Product/<id>;
// identifiers already in gid form pass through; anything else is
// returned trimmed on the assumption it is intentionally non-numeric.
// Blank input yields "".
func NormalizeProductID(raw string) string {
	if isBlank(raw) {
		return ""
	}
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "gid://") {
		return s
	}

	s2 := trailingPointZeroRegex.ReplaceAllString(s, "")
	if allDigitsRegex.MatchString(s2) {
		return fmt.Sprintf("gid://shopify/Product/%s", s2)
	}
	return s
}
