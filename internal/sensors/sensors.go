// Package sensors reads the individual metrics shown on the bar. Every
// reader is a stateless function: it takes at most a path or interface
// name, and returns a typed value or an error. An unavailable sensor is
// an expected condition, never a reason to abort.
package sensors

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/barfeed/internal/errors"
)

// LoadAverages holds the 1, 5 and 15 minute load averages.
type LoadAverages struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// Sysfs reads hardware attributes below a sysfs root. The root is
// parameterized so tests can point it at a fixture tree.
type Sysfs struct {
	root string
}

func NewSysfs() *Sysfs {
	return &Sysfs{root: "/sys"}
}

func NewSysfsAt(root string) *Sysfs {
	return &Sysfs{root: root}
}

// ReadIntFile reads a whole file and parses it as a single integer.
func ReadIntFile(path string) (int, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrSensorUnavailable, err)
	}

	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrParseFailure, err)
	}

	return value, nil
}

// ReadLoadAvg parses the first three fields of a loadavg-format file.
func ReadLoadAvg(path string) (LoadAverages, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(path)
	if err != nil {
		return LoadAverages{}, errFactory.Wrap(errors.ErrSensorUnavailable, err)
	}

	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return LoadAverages{}, errFactory.WithData(errors.ErrParseFailure, string(data))
	}

	var loads [3]float64
	for i := 0; i < 3; i++ {
		loads[i], err = strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return LoadAverages{}, errFactory.Wrap(errors.ErrParseFailure, err)
		}
	}

	return LoadAverages{Load1: loads[0], Load5: loads[1], Load15: loads[2]}, nil
}

// Brightness returns the backlight level of the given device as a
// percentage of its maximum. Both sysfs attributes must be readable.
func (s *Sysfs) Brightness(device string) (int, error) {
	dir := filepath.Join(s.root, "class", "backlight", device)

	current, err := ReadIntFile(filepath.Join(dir, "brightness"))
	if err != nil {
		return 0, err
	}

	max, err := ReadIntFile(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return 0, err
	}
	if max <= 0 {
		return 0, errors.New().WithData(errors.ErrValueOutOfRange, max)
	}

	return int(float64(current) / float64(max) * 100), nil
}

// InterfaceCarrier reports link-layer signal presence, distinct from
// the administrative up/down state.
func (s *Sysfs) InterfaceCarrier(iface string) bool {
	value, err := ReadIntFile(filepath.Join(s.root, "class", "net", iface, "carrier"))

	return err == nil && value == 1
}

// InterfaceUp reports whether the interface operstate is "up".
func (s *Sysfs) InterfaceUp(iface string) bool {
	data, err := os.ReadFile(filepath.Join(s.root, "class", "net", iface, "operstate"))
	if err != nil {
		return false
	}

	return strings.TrimSpace(string(data)) == "up"
}

// InterfaceBytes returns the cumulative received and transmitted byte
// counters for an interface.
func (s *Sysfs) InterfaceBytes(iface string) (rx, tx uint64, err error) {
	errFactory := errors.New()
	statsDir := filepath.Join(s.root, "class", "net", iface, "statistics")

	rxVal, err := ReadIntFile(filepath.Join(statsDir, "rx_bytes"))
	if err != nil {
		return 0, 0, err
	}
	txVal, err := ReadIntFile(filepath.Join(statsDir, "tx_bytes"))
	if err != nil {
		return 0, 0, err
	}
	if rxVal < 0 || txVal < 0 {
		return 0, 0, errFactory.WithData(errors.ErrValueOutOfRange, [2]int{rxVal, txVal})
	}

	return uint64(rxVal), uint64(txVal), nil
}
