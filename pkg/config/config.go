package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the cockpit configuration loaded from cockpit_config.yaml
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Server    ServerConfig    `yaml:"server" json:"server"`
	ZeroMQ    ZeroMQConfig    `yaml:"zeromq" json:"zeromq"`
	Teleop    TeleopConfig    `yaml:"teleop" json:"teleop"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	LogPath string `yaml:"log_path,omitempty" json:"log_path,omitempty"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPPort int `yaml:"http_port" json:"http_port"`
}

// ZeroMQConfig holds ZeroMQ-specific configuration
type ZeroMQConfig struct {
	// Address of the robot gateway the command PUB socket connects to.
	CommandConnectAddress string `yaml:"command_connect_address" json:"command_connect_address"`
	// Address of the robot gateway the telemetry SUB socket connects to.
	TelemetryConnectAddress string `yaml:"telemetry_connect_address" json:"telemetry_connect_address"`
}

// TeleopConfig holds the command pipeline tuning parameters
type TeleopConfig struct {
	// Channel the velocity commands are published on.
	CommandChannel string `yaml:"command_channel" json:"command_channel"`
	// Minimum interval between accepted touch move events, in milliseconds.
	TouchThrottleMs int `yaml:"touch_throttle_ms" json:"touch_throttle_ms"`
	// Gamepad axis magnitude below which input reads as zero.
	GamepadDeadzone float64 `yaml:"gamepad_deadzone" json:"gamepad_deadzone"`
	// Gamepad polling rate, frames per second.
	FrameRateHz int               `yaml:"frame_rate_hz" json:"frame_rate_hz"`
	Multipliers MultipliersConfig `yaml:"multipliers" json:"multipliers"`
}

// MultipliersConfig holds the velocity scale factors and their UI bounds
type MultipliersConfig struct {
	Linear     float64 `yaml:"linear" json:"linear"`
	Angular    float64 `yaml:"angular" json:"angular"`
	LinearMax  float64 `yaml:"linear_max" json:"linear_max"`
	AngularMax float64 `yaml:"angular_max" json:"angular_max"`
}

// TelemetryConfig lists the sensor channels relayed to the UI
type TelemetryConfig struct {
	Channels []string `yaml:"channels" json:"channels"`
}

// Defaults applied when the config file omits a value.
const (
	DefaultCommandChannel  = "teleop.control.velocity"
	DefaultTouchThrottleMs = 30
	DefaultGamepadDeadzone = 0.1
	DefaultFrameRateHz     = 60
	DefaultLinearMax       = 2.0
	DefaultAngularMax      = 3.0
)

// LoadConfig loads configuration from the specified file path
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file '%s': %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file '%s': %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Teleop.CommandChannel == "" {
		c.Teleop.CommandChannel = DefaultCommandChannel
	}
	if c.Teleop.TouchThrottleMs == 0 {
		c.Teleop.TouchThrottleMs = DefaultTouchThrottleMs
	}
	if c.Teleop.GamepadDeadzone == 0 {
		c.Teleop.GamepadDeadzone = DefaultGamepadDeadzone
	}
	if c.Teleop.FrameRateHz == 0 {
		c.Teleop.FrameRateHz = DefaultFrameRateHz
	}
	if c.Teleop.Multipliers.Linear == 0 {
		c.Teleop.Multipliers.Linear = 1.0
	}
	if c.Teleop.Multipliers.Angular == 0 {
		c.Teleop.Multipliers.Angular = 1.0
	}
	if c.Teleop.Multipliers.LinearMax == 0 {
		c.Teleop.Multipliers.LinearMax = DefaultLinearMax
	}
	if c.Teleop.Multipliers.AngularMax == 0 {
		c.Teleop.Multipliers.AngularMax = DefaultAngularMax
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
}

func (c *Config) validate() error {
	if c.ZeroMQ.CommandConnectAddress == "" {
		return fmt.Errorf("missing required field in config: zeromq.command_connect_address")
	}
	if c.Teleop.GamepadDeadzone < 0 || c.Teleop.GamepadDeadzone >= 1 {
		return fmt.Errorf("teleop.gamepad_deadzone must be in [0,1), got %v", c.Teleop.GamepadDeadzone)
	}
	if c.Teleop.TouchThrottleMs < 0 {
		return fmt.Errorf("teleop.touch_throttle_ms must be non-negative, got %d", c.Teleop.TouchThrottleMs)
	}
	if c.Teleop.Multipliers.Linear < 0 || c.Teleop.Multipliers.Linear > c.Teleop.Multipliers.LinearMax {
		return fmt.Errorf("teleop.multipliers.linear must be in [0,%v], got %v",
			c.Teleop.Multipliers.LinearMax, c.Teleop.Multipliers.Linear)
	}
	if c.Teleop.Multipliers.Angular < 0 || c.Teleop.Multipliers.Angular > c.Teleop.Multipliers.AngularMax {
		return fmt.Errorf("teleop.multipliers.angular must be in [0,%v], got %v",
			c.Teleop.Multipliers.AngularMax, c.Teleop.Multipliers.Angular)
	}
	return nil
}
