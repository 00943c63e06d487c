package generator

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Config keys understood by the built-in strategies.
const (
	KeySampleSize        = "sample_size"
	KeyDetectionWindow   = "detection_window"
	KeyBaselineWindow    = "baseline_window"
	KeyMomentumThreshold = "momentum_threshold"
	KeyTopNPool          = "top_n_pool"
	KeyShape             = "shape"
	KeyPlacement         = "placement"
	KeyRotation          = "rotation"
)

// Defaults for the built-in strategies.
const (
	DefaultSampleSize        = 100
	DefaultDetectionWindow   = 5
	DefaultBaselineWindow    = 50
	DefaultMomentumThreshold = 1.5
	DefaultTopNPool          = 15
)

// Config is a small set of strategy options. Missing or mistyped values fall
// back to the caller's default.
type Config map[string]any

// Int returns the integer option for key, or def.
func (c Config) Int(key string, def int) int {
	v, ok := c[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float32:
		return floatToInt(float64(n), def)
	case float64:
		return floatToInt(n, def)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f, def)
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}

// Float returns the float option for key, or def.
func (c Config) Float(key string, def float64) float64 {
	v, ok := c[key]
	if !ok || v == nil {
		return def
	}
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// String returns the string option for key, or def.
func (c Config) String(key, def string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return def
	}
	switch s := v.(type) {
	case string:
		if s == "" {
			return def
		}
		return s
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return def
}

// Canonical returns an order-independent serialization of the config.
// encoding/json writes map keys in sorted order, nested maps included.
// Numeric and boolean strings serialize like the values they spell, so a
// command line "50" and a YAML 50 give the same key.
func (c Config) Canonical() []byte {
	if len(c) == 0 {
		return []byte("{}")
	}
	normalized := make(map[string]any, len(c))
	for k, v := range c {
		if str, ok := v.(string); ok {
			v = ParseValue(str)
		}
		normalized[k] = v
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		// Unserializable values still need a stable key.
		return []byte(strconv.Quote(sortedKeysString(c)))
	}
	return data
}

// ParseValue converts a textual option into an int, float64 or bool when it
// spells one, and otherwise returns the trimmed string.
func ParseValue(raw string) any {
	s := strings.TrimSpace(raw)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// Clone returns a shallow copy of the config.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func floatToInt(f float64, def int) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return int(math.Floor(f))
}
