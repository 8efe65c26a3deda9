package robot

import (
	"fmt"
	"os"
	"time"

	"github.com/golang/geo/r3"
	"gopkg.in/yaml.v2"

	"github.com/gwillem/uarm/pkg/draw"
	"github.com/gwillem/uarm/pkg/swift"
)

const DefaultConfigFile = "uarm.yaml"

// Config holds the arm and drawing configuration
type Config struct {
	Port            string        `yaml:"port"`
	BaudRate        int           `yaml:"baud_rate"`
	Timeout         time.Duration `yaml:"timeout"`
	ConnectAttempts int           `yaml:"connect_attempts"`
	WaitMotion      bool          `yaml:"wait_motion"`

	Workspace draw.Workspace `yaml:"workspace"`
	Canvas    draw.Canvas    `yaml:"canvas"`
	Jog       JogConfig      `yaml:"jog"`
	Export    draw.Options   `yaml:"export"`
	Pencil    PencilConfig   `yaml:"pencil"`
	Vision    VisionConfig   `yaml:"vision"`
}

// PencilConfig locates the pencil holder used by the grab routine
type PencilConfig struct {
	Holder    r3.Vector `yaml:"holder"`
	Clearance float64   `yaml:"clearance"`
	Speed     float64   `yaml:"speed"`
}

// VisionConfig tunes edge extraction from photographs
type VisionConfig struct {
	MaxWidth      uint    `yaml:"max_width"`
	MaxHeight     uint    `yaml:"max_height"`
	Blur          int     `yaml:"blur"`
	LowThreshold  float32 `yaml:"low_threshold"`
	HighThreshold float32 `yaml:"high_threshold"`
	MinPoints     int     `yaml:"min_points"`
}

// DefaultConfig returns the configuration of a Swift Pro drawing on an A5
// sheet in front of its base
func DefaultConfig() *Config {
	return &Config{
		BaudRate:        swift.DefaultBaudRate,
		Timeout:         swift.DefaultTimeout,
		ConnectAttempts: swift.DefaultAttempts,
		WaitMotion:      true,
		Workspace: draw.Workspace{
			XMin: 155, XMax: 250,
			YMin: -75, YMax: 75,
			ZDraw: 0, ZLift: 10,
			Home: r3.Vector{X: 150, Y: 0, Z: 150},
		},
		Canvas: draw.Canvas{Width: 500, Height: 500},
		Jog: JogConfig{
			X:     Range{Min: 150, Max: 300},
			Y:     Range{Min: -100, Max: 100},
			Z:     Range{Min: 10, Max: 200},
			Step:  5,
			Speed: 2000,
			Start: r3.Vector{X: 150, Y: 0, Z: 150},
		},
		Export: draw.DefaultOptions(),
		Pencil: PencilConfig{
			Holder:    r3.Vector{X: 200, Y: 150, Z: 40},
			Clearance: 60,
			Speed:     2000,
		},
		Vision: VisionConfig{
			MaxWidth:      500,
			MaxHeight:     500,
			Blur:          5,
			LowThreshold:  100,
			HighThreshold: 200,
			MinPoints:     10,
		},
	}
}

// Validate checks the parts of the configuration that would make motion unsafe
func (c *Config) Validate() error {
	if err := c.Workspace.Validate(); err != nil {
		return err
	}
	if err := c.Canvas.Validate(); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	for _, a := range AllAxes() {
		if r := c.Jog.Range(a); r.Max <= r.Min {
			return fmt.Errorf("jog range %s: max %g <= min %g", a, r.Max, r.Min)
		}
	}
	return nil
}

// SwiftConfig returns the connection settings for the driver
func (c *Config) SwiftConfig() swift.Config {
	return swift.Config{
		Port:       c.Port,
		BaudRate:   c.BaudRate,
		Timeout:    c.Timeout,
		Attempts:   c.ConnectAttempts,
		WaitMotion: c.WaitMotion,
	}
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file. Settings missing
// from the file keep their defaults; a missing file yields the defaults.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
