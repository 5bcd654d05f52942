package sensors

import (
	"fmt"

	"codeberg.org/mutker/barfeed/internal/errors"
)

const (
	iconVolumeMuted = "\ueee8"
	iconVolume      = "\uf028"
)

var byteUnits = [...]string{"B", "KB", "MB", "GB", "TB", "PB"}

// ReadableBytes renders a byte count with binary (1024) unit steps.
// Values of 1024 PB or more are out of range rather than wrapped.
func ReadableBytes(n float64) (string, error) {
	for _, unit := range byteUnits {
		if n < 1024 {
			return fmt.Sprintf("%.2f%s", n, unit), nil
		}
		n /= 1024
	}

	return "", errors.New().WithData(errors.ErrValueOutOfRange, n)
}

// FormatVolume renders the volume with its icon. Zero shows the muted
// icon; the numeric value is always the exact input.
func FormatVolume(volume int) string {
	icon := iconVolume
	if volume == 0 {
		icon = iconVolumeMuted
	}

	return fmt.Sprintf("%s  %d", icon, volume)
}
