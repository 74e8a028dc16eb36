package cli

import (
	"math"

	"github.com/dustin/go-humanize"
)

// unit is a fixed unit for size formatting.
type unit int

const (
	unitBytes unit = iota
	unitKB
	unitMB
	unitGB
	unitKiB
	unitMiB
	unitGiB
)

// formatSize renders size in the given unit. Gigabytes keep two decimals,
// megabytes one and kilobytes none; all values carry thousands separators.
func formatSize(size int64, u unit) string {
	value := float64(size)

	switch u {
	case unitKB:
		return humanize.Comma(int64(math.Round(value/humanize.KByte))) + " kB"
	case unitMB:
		return roundf(value/humanize.MByte, 1) + " MB"
	case unitGB:
		return roundf(value/humanize.GByte, 2) + " GB"
	case unitKiB:
		return humanize.Comma(int64(math.Round(value/humanize.KiByte))) + " KiB"
	case unitMiB:
		return roundf(value/humanize.MiByte, 1) + " MiB"
	case unitGiB:
		return roundf(value/humanize.GiByte, 2) + " GiB"
	default:
		return humanize.Comma(size) + " bytes"
	}
}

// roundf rounds v to the given decimals and drops trailing zeros.
func roundf(v float64, decimals int) string {
	p := math.Pow10(decimals)

	return humanize.CommafWithDigits(math.Round(v*p)/p, decimals)
}

// autoSize renders size in the largest decimal unit it reaches.
func autoSize(size int64) string {
	switch {
	case size >= humanize.GByte:
		return formatSize(size, unitGB)
	case size >= humanize.MByte:
		return formatSize(size, unitMB)
	case size >= humanize.KByte:
		return formatSize(size, unitKB)
	default:
		return formatSize(size, unitBytes)
	}
}
