// Package format renders values for people.
package format

import (
	"fmt"
	"math"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FileSize renders a byte count using base-1024 units with two decimals,
// e.g. 1023 -> "1023.00 Bytes", 1024 -> "1.00 KB". Zero renders as "0 Bytes".
// Sizes past the largest unit stay in GB.
func FileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}

	// Magnitude without negating, so math.MinInt64 does not overflow.
	sign, mag := "", uint64(bytes)
	if bytes < 0 {
		sign, mag = "-", uint64(-(bytes+1))+1
	}

	i := int(math.Floor(math.Log(float64(mag)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}

	return fmt.Sprintf("%s%.2f %s", sign, float64(mag)/math.Pow(1024, float64(i)), sizeUnits[i])
}
