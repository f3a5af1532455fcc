package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wheelibin/klyqa/internal/constants"
)

var ErrInvalidConfig = errors.New("invalid config")

type DeviceConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	AccessToken string `mapstructure:"accessToken"`
	Name        string `mapstructure:"name"`
	// optional, used for the device registry connection
	MAC string `mapstructure:"mac"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`
	File         string `mapstructure:"file"`
	MaxSizeMB    int    `mapstructure:"maxSizeMb"`
	MaxBackups   int    `mapstructure:"maxBackups"`
	MaxAgeDays   int    `mapstructure:"maxAgeDays"`
	ReportCaller bool   `mapstructure:"reportCaller"`
}

type APIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

type MQTTConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Broker          string        `mapstructure:"broker"`
	ClientID        string        `mapstructure:"clientId"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	TopicPrefix     string        `mapstructure:"topicPrefix"`
	QoS             int           `mapstructure:"qos"`
	CommandInterval time.Duration `mapstructure:"commandInterval"`
}

type Config struct {
	Device         DeviceConfig  `mapstructure:"device"`
	ScanInterval   time.Duration `mapstructure:"scanInterval"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
	Log            LogConfig     `mapstructure:"log"`
	API            APIConfig     `mapstructure:"api"`
	MQTT           MQTTConfig    `mapstructure:"mqtt"`
}

// ReadConfig loads the config from path, or from the standard search paths
// when path is empty. Environment variables prefixed KLYQA_ override the file,
// e.g. KLYQA_DEVICE_HOST.
func ReadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("KLYQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/klyqa/")
		v.AddConfigPath("$HOME/.config/klyqa/")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// no file on the search path is fine, env and defaults may be enough
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// keys without a default are invisible to AutomaticEnv when unmarshalling
	v.SetDefault("device.host", "")
	v.SetDefault("device.accessToken", "")
	v.SetDefault("device.port", constants.DefaultPort)
	v.SetDefault("device.name", constants.DefaultDeviceName)
	v.SetDefault("device.mac", "")
	v.SetDefault("scanInterval", constants.ScanInterval)
	v.SetDefault("requestTimeout", constants.RequestTimeout)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSizeMb", 10)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAgeDays", 3)
	v.SetDefault("log.reportCaller", false)
	v.SetDefault("api.enabled", true)
	v.SetDefault("api.listen", ":8080")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.clientId", "klyqad")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topicPrefix", "klyqa")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.commandInterval", constants.MQTTCommandInterval)
}

func (c *Config) Validate() error {
	var errs []error

	if c.Device.Host == "" {
		errs = append(errs, errors.New("device.host is required"))
	}
	if c.Device.AccessToken == "" {
		errs = append(errs, errors.New("device.accessToken is required"))
	}
	if c.Device.Port < 1 || c.Device.Port > 65535 {
		errs = append(errs, fmt.Errorf("device.port %d out of range", c.Device.Port))
	}
	if c.ScanInterval <= 0 {
		errs = append(errs, errors.New("scanInterval must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("requestTimeout must be positive"))
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			errs = append(errs, errors.New("mqtt.broker is required when mqtt is enabled"))
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, fmt.Errorf("mqtt.qos %d must be 0, 1 or 2", c.MQTT.QoS))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
