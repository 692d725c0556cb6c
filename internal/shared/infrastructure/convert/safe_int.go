// Package convert provides safe type conversion utilities.
package convert

import (
	"fmt"
	"math"
)

// IntToInt32Safe safely converts an int to int32, panicking if overflow occurs.
// Use this only for values that are guaranteed by business logic to be within bounds.
func IntToInt32Safe(v int) int32 {
	if v > math.MaxInt32 || v < math.MinInt32 {
		panic(fmt.Sprintf("integer overflow: %d cannot be converted to int32", v))
	}
	return int32(v)
}

// IntToUintSafe safely converts an int to uint, panicking if negative.
func IntToUintSafe(v int) uint {
	if v < 0 {
		panic(fmt.Sprintf("cannot convert negative int to uint: %d", v))
	}
	return uint(v)
}

// IntToUintClamped converts an int to uint, clamping negative values to 0.
func IntToUintClamped(v int) uint {
	if v < 0 {
		return 0
	}
	return uint(v)
}
