// Package template resolves {{dotted.path}} tokens in action configuration
// against the triggering entity.
package template

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Interpolate replaces every {{path}} token in the input with the value
// resolved from the entity bag. Unresolved tokens render as the empty string;
// interpolation never fails.
func Interpolate(input string, entity map[string]any) string {
	return tokenPattern.ReplaceAllStringFunc(input, func(token string) string {
		path := strings.TrimSpace(token[2 : len(token)-2])

		value, ok := Resolve(path, entity)
		if !ok {
			return ""
		}

		return Stringify(value)
	})
}

// InterpolateMap interpolates every value of a string map, e.g. a webhook
// payload definition.
func InterpolateMap(input map[string]string, entity map[string]any) map[string]string {
	if input == nil {
		return nil
	}

	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = Interpolate(value, entity)
	}

	return out
}

// Resolve looks a dotted path up in the entity bag. Lookup falls back from
// the literal path to its camelCase form (templates are commonly authored in
// snake_case against camelCase entity fields), and finally to a flattened bag
// that supports both the {{entity.x}} and {{x}} authoring styles.
func Resolve(path string, entity map[string]any) (any, bool) {
	if value, ok := lookup(entity, path); ok {
		return value, true
	}

	if strings.Contains(path, "_") {
		if value, ok := lookup(entity, camelPath(path)); ok {
			return value, true
		}
	}

	flattened := map[string]any{"entity": entity}
	for key, value := range entity {
		flattened[key] = value
	}

	if value, ok := lookup(flattened, path); ok {
		return value, true
	}

	if strings.Contains(path, "_") {
		if value, ok := lookup(flattened, camelPath(path)); ok {
			return value, true
		}
	}

	return nil, false
}

func lookup(bag map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")

	var current any = bag

	for _, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// camelPath converts each snake_case segment of a dotted path to camelCase.
func camelPath(path string) string {
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		segments[i] = camelCase(segment)
	}

	return strings.Join(segments, ".")
}

func camelCase(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}

		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}

	return strings.Join(parts, "")
}

// Stringify renders a resolved value for embedding in a template. Whole
// floats render without a decimal point since JSON decoding widens every
// number to float64.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}

		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(encoded)
	}
}
