// Package units formats byte sizes and bit rates for reports.
package units

import (
	"fmt"
	"math"
	"strconv"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders bytes with binary (1024) multiples and at most two
// decimals, trailing zeros trimmed.
//
//	FormatSize(0)          // "0 B"
//	FormatSize(1536)       // "1.5 KB"
//	FormatSize(5 << 30)    // "5 GB"
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64) + " " + sizeUnits[i]
}

// FormatBitrate renders a kbps value, switching to Mbps at 1000.
func FormatBitrate(kbps int) string {
	if kbps < 1000 {
		return fmt.Sprintf("%d kbps", kbps)
	}
	return fmt.Sprintf("%.2f Mbps", float64(kbps)/1000)
}

// Megabytes formats bytes as MiB with two decimals, as used in CSV reports.
func Megabytes(bytes int64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/1024/1024)
}
