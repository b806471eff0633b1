package gcnctrl

import (
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Adapter AdapterConfig `yaml:"adapter"`
	NATS    NATSConfig    `yaml:"nats"`
}

type AdapterConfig struct {
	Devices        []DeviceID
	ReadTimeout    time.Duration
	RescanInterval time.Duration
}

func (cfg *AdapterConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Devices        []DeviceID `yaml:"devices"`
		ReadTimeout    string     `yaml:"readTimeout"`
		RescanInterval string     `yaml:"rescanInterval"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	cfg.Devices = raw.Devices

	if raw.ReadTimeout != "" {
		timeout, err := time.ParseDuration(raw.ReadTimeout)
		if err != nil {
			return err
		}

		cfg.ReadTimeout = timeout
	}

	if raw.RescanInterval != "" {
		interval, err := time.ParseDuration(raw.RescanInterval)
		if err != nil {
			return err
		}

		cfg.RescanInterval = interval
	}

	return nil
}

type NATSConfig struct {
	Subject string `yaml:"subject"`
}

// ApplyDefaults fills unset fields so a partial (or absent) config file
// still yields a working service.
func (cfg *Config) ApplyDefaults() {
	if len(cfg.Adapter.Devices) == 0 {
		cfg.Adapter.Devices = DefaultDeviceIDs
	}

	if cfg.Adapter.ReadTimeout <= 0 {
		cfg.Adapter.ReadTimeout = DefaultReadTimeout
	}

	if cfg.Adapter.RescanInterval <= 0 {
		cfg.Adapter.RescanInterval = time.Second
	}

	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = "gcnctrl.states"
	}
}

func (id *DeviceID) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := ParseDeviceID(raw)
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}
