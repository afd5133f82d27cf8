package ecoflow

import (
	"math"
	"sort"
)

// truncatePreview returns a truncated string for error messages.
func truncatePreview(data []byte) string {
	s := string(data)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// QuotaKeys returns all quota keys in sorted order.
// Useful for discovering what telemetry a device reports.
func QuotaKeys(q Quota) []string {
	keys := make([]string, 0, len(q))
	for key := range q {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GetString returns a string quota value.
// Returns the value and true if found, or empty string and false if not.
//
// Example:
//
//	fw, ok := ecoflow.GetString(quota, "ems.emsVersion")
func GetString(q Quota, key string) (string, bool) {
	val, ok := q[key]
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// GetInt returns an int quota value.
// Handles JSON's float64 representation of numbers.
// Returns false if the value is outside the valid int range.
//
// Example:
//
//	watts, ok := ecoflow.GetInt(quota, "inv.outputWatts")
func GetInt(q Quota, key string) (int, bool) {
	val, ok := q[key]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		// Check for overflow before conversion
		if v > float64(math.MaxInt) || v < float64(math.MinInt) || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		if v > int64(math.MaxInt) || v < int64(math.MinInt) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// GetFloat returns a float64 quota value.
//
// Example:
//
//	soc, ok := ecoflow.GetFloat(quota, "bms_bmsStatus.soc")
func GetFloat(q Quota, key string) (float64, bool) {
	val, ok := q[key]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// GetBool returns a bool quota value.
func GetBool(q Quota, key string) (bool, bool) {
	val, ok := q[key]
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}
