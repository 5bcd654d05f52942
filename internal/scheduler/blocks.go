package scheduler

import (
	"fmt"
	"time"

	"codeberg.org/mutker/barfeed/internal/bar"
	"codeberg.org/mutker/barfeed/internal/errors"
	"codeberg.org/mutker/barfeed/internal/sensors"
)

// Theme accent colors (Tokyo Night)
const (
	colorBlack   = "#15161E"
	colorRed     = "#f7768e"
	colorGreen   = "#9ece6a"
	colorYellow  = "#e0af68"
	colorBlue    = "#7aa2f7"
	colorMagenta = "#bb9af7"
	colorCyan    = "#7dcfff"
	colorWhite   = "#a9b1d6"
)

const (
	iconBrightness = "\uf522"
	iconClock      = "\U000f0954"
	iconDate       = "\uf073"
	iconLoad       = "\U000f04c5"
	iconFan        = "\uefa7"
	iconIP         = "\uf0ac"
	iconEthernet   = "\uef44"
	iconWifi       = "\uf1eb"
	iconLock       = "\uf023"
	iconUp         = "\uf062"
	iconDown       = "\uf063"
	iconThermo     = "\uf2c9"
	iconDegree     = "\ue33e"
)

const loadavgPath = "/proc/loadavg"

// buildFunc produces the blocks for one sensor. A sensor failure omits
// its blocks from the snapshot; it never aborts the build.
type buildFunc func(now time.Time, volume int) ([]bar.Block, error)

// rateTracker turns cumulative interface byte counters into rates.
// One tracker follows whichever interface is currently active; after a
// switch the first sample reports zero rather than a bogus delta.
type rateTracker struct {
	iface    string
	lastRx   uint64
	lastTx   uint64
	lastTime time.Time
}

func (t *rateTracker) rates(iface string, rx, tx uint64, now time.Time) (rxRate, txRate float64) {
	elapsed := now.Sub(t.lastTime).Seconds()
	sameIface := t.iface == iface

	if sameIface && elapsed > 0 && rx >= t.lastRx && tx >= t.lastTx {
		rxRate = float64(rx-t.lastRx) / elapsed
		txRate = float64(tx-t.lastTx) / elapsed
	}

	t.iface = iface
	t.lastRx = rx
	t.lastTx = tx
	t.lastTime = now

	return rxRate, txRate
}

func (s *Scheduler) resolveBuilders(names []string) error {
	errFactory := errors.New()

	for _, name := range names {
		var fn buildFunc
		switch name {
		case "volume":
			fn = s.buildVolume
		case "brightness":
			fn = s.buildBrightness
		case "clock":
			fn = s.buildClock
		case "date":
			fn = s.buildDate
		case "load":
			fn = s.buildLoad
		case "fan":
			fn = s.buildFan
		case "ip":
			fn = s.buildIP
		case "net":
			fn = s.buildNet
		case "gpu":
			fn = s.buildGPU
		default:
			return errFactory.WithData(errors.ErrUnknownBlock, name)
		}
		s.builders = append(s.builders, fn)
	}

	return nil
}

func one(b bar.Block) []bar.Block {
	return []bar.Block{b}
}

func (s *Scheduler) buildVolume(_ time.Time, volume int) ([]bar.Block, error) {
	return one(bar.Block{
		FullText: sensors.FormatVolume(volume),
		Name:     "volume",
	}), nil
}

func (s *Scheduler) buildBrightness(_ time.Time, _ int) ([]bar.Block, error) {
	brightness, err := s.sysfs.Brightness(s.cfg.BacklightDevice)
	if err != nil {
		return nil, err
	}

	return one(bar.Block{
		FullText: fmt.Sprintf("%s  %d", iconBrightness, brightness),
		Name:     "brightness",
	}), nil
}

func (s *Scheduler) buildClock(now time.Time, _ int) ([]bar.Block, error) {
	return one(bar.Block{
		FullText: fmt.Sprintf("%s  %s ", iconClock, now.Format("15:04:05")),
		Name:     "clock",
	}), nil
}

func (s *Scheduler) buildDate(now time.Time, _ int) ([]bar.Block, error) {
	return one(bar.Block{
		FullText: fmt.Sprintf("%s  %s", iconDate, now.Format("Monday, 02 January 2006")),
		Name:     "date",
	}), nil
}

func (s *Scheduler) buildLoad(_ time.Time, _ int) ([]bar.Block, error) {
	loads, err := sensors.ReadLoadAvg(s.loadavg)
	if err != nil {
		return nil, err
	}

	return one(bar.Block{
		FullText: fmt.Sprintf("%s %.1f", iconLoad, loads.Load1),
		Name:     "load",
	}), nil
}

func (s *Scheduler) buildFan(_ time.Time, _ int) ([]bar.Block, error) {
	rpm, err := sensors.ReadIntFile(s.cfg.FanSensorPath)
	if err != nil {
		return nil, err
	}

	return one(bar.Block{
		FullText: fmt.Sprintf("%s %d RPM", iconFan, rpm),
		Name:     "fan",
	}), nil
}

func (s *Scheduler) buildIP(_ time.Time, _ int) ([]bar.Block, error) {
	addresses, err := sensors.IPAddresses(s.runner)
	if err != nil {
		return nil, err
	}

	blocks := make([]bar.Block, 0, len(addresses))
	for _, addr := range addresses {
		blocks = append(blocks, bar.Block{
			FullText: fmt.Sprintf("%s %s", iconIP, addr),
			Name:     "ip",
		})
	}

	return blocks, nil
}

func (s *Scheduler) buildGPU(_ time.Time, _ int) ([]bar.Block, error) {
	if s.gpu == nil {
		return nil, errors.New().New(errors.ErrSensorUnavailable)
	}

	temp, err := s.gpu.Temperature()
	if err != nil {
		return nil, err
	}

	return one(bar.Block{
		FullText: fmt.Sprintf("%s %d%sC", iconThermo, temp, iconDegree),
		Name:     "gpu",
	}), nil
}

// buildNet reports throughput on the most preferred live link:
// VPN over ethernet, VPN alone, ethernet, then wifi. The VPN branches
// include the exit country code; the plain ethernet link carries the
// blue accent.
func (s *Scheduler) buildNet(now time.Time, _ int) ([]bar.Block, error) {
	errFactory := errors.New()

	vpnUp := s.sysfs.InterfaceCarrier(s.cfg.VPNInterface)
	ethUp := s.sysfs.InterfaceUp(s.cfg.EthernetInterface)
	wifiUp := s.sysfs.InterfaceUp(s.cfg.WifiInterface)

	var (
		iface string
		icon  string
		color string
		vpn   bool
	)
	switch {
	case vpnUp && ethUp:
		iface, icon, vpn = s.cfg.VPNInterface, iconEthernet, true
	case vpnUp:
		iface, icon, vpn = s.cfg.VPNInterface, iconWifi, true
	case ethUp:
		iface, icon, color = s.cfg.EthernetInterface, iconEthernet, colorBlue
	case wifiUp:
		iface, icon = s.cfg.WifiInterface, iconWifi
	default:
		return nil, errFactory.WithMessage(errors.ErrSensorUnavailable, "no network link")
	}

	rx, tx, err := s.sysfs.InterfaceBytes(iface)
	if err != nil {
		return nil, err
	}
	rxRate, txRate := s.net.rates(iface, rx, tx, now)

	down, err := sensors.ReadableBytes(rxRate)
	if err != nil {
		return nil, err
	}
	up, err := sensors.ReadableBytes(txRate)
	if err != nil {
		return nil, err
	}

	var text string
	if vpn {
		country, err := sensors.CountryCode(s.runner)
		if err != nil {
			country = ".."
		}
		text = fmt.Sprintf("%s  %s %s %s %ss %s %ss", icon, iconLock, country, iconUp, up, iconDown, down)
	} else {
		text = fmt.Sprintf("%s  %s %ss %s %ss", icon, iconUp, up, iconDown, down)
	}

	return one(bar.Block{
		FullText: text,
		Color:    color,
		Name:     "net",
	}), nil
}
