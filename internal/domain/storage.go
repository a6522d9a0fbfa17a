package domain

import (
	"fmt"
	"math"
	"strconv"
)

var storageUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// HumanReadableStorage formats a byte count such as 1536 as "2 KB" (decimals=0)
// or "1.50 KB" (decimals=2). Zero bytes is reported as "None".
//
// The unit is picked from the number of decimal digits (three per step) while
// the value is divided by powers of 1024, so 1000 bytes reads "0.98 KB".
func HumanReadableStorage(bytes int64, decimals int) string {
	if bytes <= 0 {
		return "None"
	}

	factor := (len(strconv.FormatInt(bytes, 10)) - 1) / 3
	if factor >= len(storageUnits) {
		factor = len(storageUnits) - 1
	}

	if factor == 0 || decimals < 0 {
		decimals = 0
	}

	value := float64(bytes) / math.Pow(1024, float64(factor))

	return fmt.Sprintf("%.*f %s", decimals, value, storageUnits[factor])
}
