package sensors

import (
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/mutker/barfeed/internal/errors"
)

// Runner abstracts command invocation so sensors that scrape external
// tools can be tested against canned output.
type Runner interface {
	Output(name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// NewRunner returns a Runner backed by os/exec.
func NewRunner() Runner {
	return execRunner{}
}

var volumePattern = regexp.MustCompile(`/\s*(\d+)%`)

// Volume queries the default sink volume through pactl and returns it
// as a percentage. A missing default sink is an ordinary failure.
func Volume(r Runner) (int, error) {
	errFactory := errors.New()

	out, err := r.Output("pactl", "get-sink-volume", "@DEFAULT_SINK@")
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrSensorUnavailable, err)
	}

	matches := volumePattern.FindSubmatch(out)
	if len(matches) < 2 {
		return 0, errFactory.WithData(errors.ErrParseFailure, "no volume percentage in pactl output")
	}

	volume, err := strconv.Atoi(string(matches[1]))
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrParseFailure, err)
	}

	return volume, nil
}

// CountryCode derives a two-letter location code from the NordVPN
// status output: the first two characters of the hostname field,
// uppercased.
func CountryCode(r Runner) (string, error) {
	errFactory := errors.New()

	out, err := r.Output("nordvpn", "status")
	if err != nil {
		return "", errFactory.Wrap(errors.ErrSensorUnavailable, err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "Hostname:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		hostname := strings.ToUpper(fields[1])
		if len(hostname) < 2 {
			return "", errFactory.WithData(errors.ErrParseFailure, line)
		}

		return hostname[:2], nil
	}

	return "", errFactory.WithData(errors.ErrParseFailure, "no Hostname line in nordvpn status")
}

// IPAddresses lists every non-loopback inet address as
// "interface address" pairs, in the order the ip utility reports them.
func IPAddresses(r Runner) ([]string, error) {
	errFactory := errors.New()

	out, err := r.Output("ip", "a")
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrSensorUnavailable, err)
	}

	var addresses []string
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "inet ") || strings.Contains(line, "127.0.0.1") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		addresses = append(addresses, fields[len(fields)-1]+" "+fields[1])
	}

	return addresses, nil
}
