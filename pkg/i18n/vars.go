package i18n

import (
	"fmt"
	"maps"
	"strconv"
	"time"
)

// Value is an interpolation-safe value. Build one with String, Int, Float,
// Bool or Date; the zero Value renders as the empty string.
type Value struct {
	s string
}

// String returns the text substituted for a placeholder.
func (v Value) String() string {
	return v.s
}

// String wraps a string value.
func String(s string) Value { return Value{s: s} }

// Int wraps an integer value.
func Int(n int64) Value { return Value{s: strconv.FormatInt(n, 10)} }

// Float wraps a floating point value using the shortest exact decimal form.
func Float(f float64) Value { return Value{s: strconv.FormatFloat(f, 'f', -1, 64)} }

// Bool wraps a boolean as "true" or "false".
func Bool(b bool) Value { return Value{s: strconv.FormatBool(b)} }

// Date wraps a calendar date as YYYY-MM-DD. Locale-aware date formatting
// belongs to the caller.
func Date(t time.Time) Value { return Value{s: t.Format(time.DateOnly)} }

// Vars binds placeholder names to values.
type Vars map[string]Value

// Merge returns a new Vars with the entries of all sets; later sets win.
func Merge(sets ...Vars) Vars {
	out := make(Vars)
	for _, s := range sets {
		maps.Copy(out, s)
	}
	return out
}

// VarsFrom validates a dynamically typed map and converts it to Vars.
// Supported kinds are strings, integers, floats, booleans, time.Time (as a
// date), fmt.Stringer and Value. Anything else fails with
// ErrUnsupportedValue naming the key.
func VarsFrom(m map[string]any) (Vars, error) {
	out := make(Vars, len(m))
	for k, raw := range m {
		v, err := valueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is %T", err, k, raw)
		}
		out[k] = v
	}
	return out, nil
}

func valueOf(raw any) (Value, error) {
	switch v := raw.(type) {
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Value{s: strconv.FormatUint(uint64(v), 10)}, nil
	case uint64:
		return Value{s: strconv.FormatUint(v, 10)}, nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case time.Time:
		return Date(v), nil
	case fmt.Stringer:
		return String(v.String()), nil
	default:
		return Value{}, ErrUnsupportedValue
	}
}
