package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // market.timezone must resolve in minimal images

	"ev-charge-planner/internal/model"
	"ev-charge-planner/internal/theme"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load vehicle parameters from a separate YAML (e.g. examples/vehicles/*.yaml).
	// If both VehicleFile and Vehicle are provided, Vehicle overrides VehicleFile.
	VehicleFile string        `yaml:"vehicle_file"`
	Vehicle     VehicleConfig `yaml:"vehicle"`
	Defaults    model.Inputs  `yaml:"defaults"`

	Server  ServerConfig  `yaml:"server"`
	Market  MarketConfig  `yaml:"market"`
	Cache   CacheConfig   `yaml:"cache"`
	Planner PlannerConfig `yaml:"planner"`
	Theme   ThemeConfig   `yaml:"theme"`
	Logging LoggingConfig `yaml:"logging"`
}

type VehicleConfig struct {
	Name                   string  `yaml:"name"`
	CapacityKWh            float64 `yaml:"capacity_kwh"`
	ChargingRateKWhPerHour float64 `yaml:"charging_rate_kw"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	Env            string   `yaml:"env"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MarketConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	WindowBefore time.Duration `yaml:"window_before"`
	WindowAfter  time.Duration `yaml:"window_after"`
	// Timezone for hour labels and clock times; empty means the process local zone.
	Timezone string `yaml:"timezone"`
}

type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
}

type PlannerConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

type ThemeConfig struct {
	Preference    string `yaml:"preference"`
	SystemDefault string `yaml:"system_default"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{Defaults: model.DefaultInputs()}
	c.SetDefaults()
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.SetDefaults()
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// Inputs are pre-filled so keys absent from defaults: keep their default
	// while explicit zeros (e.g. pay 0 = only charge when free) survive.
	c := Config{Defaults: model.DefaultInputs()}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If vehicle_file is set, load it and merge in any explicit overrides from c.Vehicle.
	if c.VehicleFile != "" {
		vehiclePath := c.VehicleFile
		if !filepath.IsAbs(vehiclePath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), vehiclePath)
			if _, err := os.Stat(cand); err == nil {
				vehiclePath = cand
			}
		}
		loaded, err := LoadVehicleFile(vehiclePath)
		if err != nil {
			return nil, err
		}
		c.Vehicle = MergeVehicle(loaded, c.Vehicle)
	}
	return &c, nil
}

// SetDefaults fills every unset field except Defaults, where zero is a valid
// value; Default and LoadUnchecked seed it with model.DefaultInputs.
func (c *Config) SetDefaults() {
	if c.Vehicle.CapacityKWh == 0 {
		c.Vehicle.CapacityKWh = model.DefaultCapacityKWh
	}
	if c.Vehicle.ChargingRateKWhPerHour == 0 {
		c.Vehicle.ChargingRateKWhPerHour = model.DefaultChargingRateKWhPerHour
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Market.Timeout == 0 {
		c.Market.Timeout = 30 * time.Second
	}
	if c.Market.WindowBefore == 0 {
		c.Market.WindowBefore = 5 * time.Hour
	}
	if c.Market.WindowAfter == 0 {
		c.Market.WindowAfter = 36 * time.Hour
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 15 * time.Minute
	}
	if c.Planner.Debounce == 0 {
		c.Planner.Debounce = 300 * time.Millisecond
	}
	if c.Theme.Preference == "" {
		c.Theme.Preference = string(theme.PreferSystem)
	}
	if c.Theme.SystemDefault == "" {
		c.Theme.SystemDefault = string(theme.Light)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// ApplyEnv overlays the deployment environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	// Validate vehicle params by building a full parameter set.
	if err := c.Vehicle.ToParameters(c.Defaults, time.Now(), nil).Validate(); err != nil {
		return fmt.Errorf("vehicle config invalid: %w", err)
	}
	if c.Market.WindowBefore < 0 || c.Market.WindowAfter <= 0 {
		return errors.New("market window must be non-negative before and positive after now")
	}
	if c.Planner.Debounce < 0 {
		return errors.New("planner.debounce must be >= 0")
	}
	if _, err := theme.ParsePreference(c.Theme.Preference); err != nil {
		return err
	}
	if _, err := theme.ParseMode(c.Theme.SystemDefault); err != nil {
		return fmt.Errorf("theme.system_default: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// Location resolves Market.Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Market.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Market.Timezone)
	if err != nil {
		return nil, fmt.Errorf("market.timezone: %w", err)
	}
	return loc, nil
}

// Window returns the fetch window around now.
func (c *Config) Window(now time.Time) (start, end time.Time) {
	return now.Add(-c.Market.WindowBefore), now.Add(c.Market.WindowAfter)
}

func (v VehicleConfig) ToParameters(in model.Inputs, now time.Time, loc *time.Location) model.ChargingParameters {
	return in.Apply(model.ChargingParameters{
		CapacityKWh:            v.CapacityKWh,
		ChargingRateKWhPerHour: v.ChargingRateKWhPerHour,
		Now:                    now,
		Location:               loc,
	})
}

type vehicleFileWrapper struct {
	Vehicle VehicleConfig `yaml:"vehicle"`
}

func LoadVehicleFile(path string) (VehicleConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return VehicleConfig{}, err
	}
	var w vehicleFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return VehicleConfig{}, err
	}
	return w.Vehicle, nil
}

// MergeVehicle overlays non-zero fields from override onto base.
func MergeVehicle(base, override VehicleConfig) VehicleConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityKWh != 0 {
		out.CapacityKWh = override.CapacityKWh
	}
	if override.ChargingRateKWhPerHour != 0 {
		out.ChargingRateKWhPerHour = override.ChargingRateKWhPerHour
	}
	return out
}
