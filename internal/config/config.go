package config

import (
	"os"

	"codeberg.org/mutker/barfeed/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval = 1
	DefaultLogLevel = "warning"

	defaultWifiInterface     = "wlp2s0"
	defaultEthernetInterface = "enp3s0f0"
	defaultVPNInterface      = "nordlynx"
	defaultBacklightDevice   = "acpi_video0"
	defaultFanSensorPath     = "/sys/class/hwmon/hwmon0/device/fan1_input"
	defaultTelemetryDB       = "/var/lib/barfeed/telemetry.db"
)

// DefaultBlocks is the block set emitted when no configuration is present.
func DefaultBlocks() []string {
	return []string{"volume", "brightness", "clock"}
}

type Config struct {
	Interval          int      `mapstructure:"interval"`
	Blocks            []string `mapstructure:"blocks"`
	WifiInterface     string   `mapstructure:"wifi_interface"`
	EthernetInterface string   `mapstructure:"ethernet_interface"`
	VPNInterface      string   `mapstructure:"vpn_interface"`
	BacklightDevice   string   `mapstructure:"backlight_device"`
	FanSensorPath     string   `mapstructure:"fan_sensor_path"`
	LogLevel          string   `mapstructure:"log_level"`
	Debug             bool     `mapstructure:"debug"`
	Verbose           bool     `mapstructure:"verbose"`
	Telemetry         bool     `mapstructure:"telemetry"`
	TelemetryDB       string   `mapstructure:"database"`
}

func Load() (*Config, error) {
	errFactory := errors.New()
	v := viper.New()

	setDefaults(v)

	// Define flags on a fresh set so Load stays re-entrant for tests
	flags := pflag.NewFlagSet("barfeed", pflag.ContinueOnError)
	flags.Int("interval", DefaultInterval, "Seconds between scheduled updates")
	flags.StringSlice("blocks", DefaultBlocks(), "Ordered list of enabled status blocks")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")
	flags.Bool("telemetry", false, "Record snapshot telemetry to the database")
	flags.String("database", defaultTelemetryDB, "Path to the telemetry database")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	// Load configuration from file
	if configPath := os.Getenv("BARFEED_CONFIG"); configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("barfeed.toml")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Command line flags override file values
	var flagErr error
	flags.Visit(func(f *pflag.Flag) {
		key := f.Name
		if key == "log-level" {
			key = "log_level"
		}
		if key == "blocks" {
			val, err := flags.GetStringSlice("blocks")
			if err != nil {
				flagErr = err
				return
			}
			v.Set(key, val)
			return
		}
		v.Set(key, f.Value.String())
	})
	if flagErr != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, flagErr)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("blocks", DefaultBlocks())
	v.SetDefault("wifi_interface", defaultWifiInterface)
	v.SetDefault("ethernet_interface", defaultEthernetInterface)
	v.SetDefault("vpn_interface", defaultVPNInterface)
	v.SetDefault("backlight_device", defaultBacklightDevice)
	v.SetDefault("fan_sensor_path", defaultFanSensorPath)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", defaultTelemetryDB)
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry enabled without database path")
	}

	return nil
}
