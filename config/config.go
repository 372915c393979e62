// Package config holds the simulator and dashboard configuration. Defaults
// mirror the test stations' fixed parameters; a YAML file and a few
// environment variables can override them.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// BurnInConfig parameterizes the burn-in simulator.
type BurnInConfig struct {
	// DurationSeconds is the simulated test duration
	DurationSeconds float64 `yaml:"duration_seconds"`
	// TempLimit is the failure threshold in °C
	TempLimit float64 `yaml:"temp_limit"`
	// VoltageMean / VoltageStd parameterize the supply voltage in V
	VoltageMean float64 `yaml:"voltage_mean"`
	VoltageStd  float64 `yaml:"voltage_std"`
	VoltageLow  float64 `yaml:"voltage_low"`
	VoltageHigh float64 `yaml:"voltage_high"`
	// CurrentMean / CurrentStd parameterize the load current in A
	CurrentMean float64 `yaml:"current_mean"`
	CurrentStd  float64 `yaml:"current_std"`
	CurrentLow  float64 `yaml:"current_low"`
	CurrentHigh float64 `yaml:"current_high"`
}

// HiPotConfig parameterizes the HiPot simulator.
type HiPotConfig struct {
	DurationSeconds float64 `yaml:"duration_seconds"`
	// VoltageScale converts the normalized analog reading to kV
	VoltageScale float64 `yaml:"voltage_scale"`
	// CurrentScale converts the normalized analog reading to mA
	CurrentScale float64 `yaml:"current_scale"`
	// LeakageLimit is the pass threshold for leakage current in mA
	LeakageLimit float64 `yaml:"leakage_limit"`
	VoltageLow   float64 `yaml:"voltage_low"`
	VoltageHigh  float64 `yaml:"voltage_high"`
}

// IsolationConfig parameterizes the isolation resistance simulator.
type IsolationConfig struct {
	DurationSeconds float64 `yaml:"duration_seconds"`
	// ResistanceScale converts the analog reading to MΩ
	ResistanceScale float64 `yaml:"resistance_scale"`
	// VoltageScale converts the analog reading to V
	VoltageScale float64 `yaml:"voltage_scale"`
	// ResistanceMin is the pass threshold in MΩ
	ResistanceMin float64 `yaml:"resistance_min"`
}

// LaserConfig parameterizes the laser profile simulator.
type LaserConfig struct {
	DurationSeconds float64 `yaml:"duration_seconds"`
	// PowerMeterAddr / AnalyzerAddr are the simulated instrument endpoints
	PowerMeterAddr string `yaml:"power_meter_addr"`
	AnalyzerAddr   string `yaml:"analyzer_addr"`
	// ConnectFailure is the probability an instrument refuses the session
	ConnectFailure float64 `yaml:"connect_failure"`
	PacketLoss     float64 `yaml:"packet_loss"`
	PowerLow       float64 `yaml:"power_low"`
	PowerHigh      float64 `yaml:"power_high"`
	WavelengthLow  float64 `yaml:"wavelength_low"`
	WavelengthHigh float64 `yaml:"wavelength_high"`
}

// ParametricConfig parameterizes the parametric simulator.
type ParametricConfig struct {
	DurationSeconds float64 `yaml:"duration_seconds"`
	// VoltageScale converts the analog reading to mV
	VoltageScale float64 `yaml:"voltage_scale"`
	// CurrentScale converts the analog reading to mA
	CurrentScale float64 `yaml:"current_scale"`
	VoltageLow   float64 `yaml:"voltage_low"`
	VoltageHigh  float64 `yaml:"voltage_high"`
	CurrentLow   float64 `yaml:"current_low"`
	CurrentHigh  float64 `yaml:"current_high"`
}

// ICTConfig parameterizes the in-circuit test simulator.
type ICTConfig struct {
	ContinuityPoints []string `yaml:"continuity_points"`
	ContinuityLimit  float64  `yaml:"continuity_limit"` // Ω
	ResistorPoints   []string `yaml:"resistor_points"`
	ResistorNominal  float64  `yaml:"resistor_nominal"` // Ω
	ResistorTol      float64  `yaml:"resistor_tol"`
	CapacitorPoints  []string `yaml:"capacitor_points"`
	CapacitorNominal float64  `yaml:"capacitor_nominal"` // µF
	CapacitorTol     float64  `yaml:"capacitor_tol"`
	PowerPoints      []string `yaml:"power_points"`
	PowerNominal     float64  `yaml:"power_nominal"` // V
	PowerTol         float64  `yaml:"power_tol"`
}

// DashboardConfig configures the web dashboard.
type DashboardConfig struct {
	Host string `yaml:"host"`
	// Port is the first port tried; occupied ports fall through to the next
	Port int `yaml:"port"`
	// PortAttempts bounds the port search
	PortAttempts int `yaml:"port_attempts"`
}

// Config is the root configuration.
type Config struct {
	// ReportsDir is where per-test-type artifact directories are written
	ReportsDir string `yaml:"reports_dir"`
	// Seed for the simulators' RNG; 0 means derive from the clock
	Seed int64 `yaml:"seed"`
	// Sigma is the control limit multiplier (mean ± Sigma·σ)
	Sigma float64 `yaml:"sigma"`

	Dashboard  DashboardConfig  `yaml:"dashboard"`
	BurnIn     BurnInConfig     `yaml:"burnin"`
	HiPot      HiPotConfig      `yaml:"hipot"`
	Isolation  IsolationConfig  `yaml:"isolation"`
	Laser      LaserConfig      `yaml:"laser"`
	Parametric ParametricConfig `yaml:"parametric"`
	ICT        ICTConfig        `yaml:"ict"`
}

// DefaultConfig returns a Config with the stations' default parameters.
func DefaultConfig() *Config {
	return &Config{
		ReportsDir: "reports",
		Seed:       0,
		Sigma:      3.0,
		Dashboard: DashboardConfig{
			Host:         "localhost",
			Port:         8050,
			PortAttempts: 10,
		},
		BurnIn: BurnInConfig{
			DurationSeconds: 10,
			TempLimit:       90,
			VoltageMean:     3.3,
			VoltageStd:      0.1,
			VoltageLow:      3.0,
			VoltageHigh:     3.6,
			CurrentMean:     0.5,
			CurrentStd:      0.05,
			CurrentLow:      0.3,
			CurrentHigh:     0.7,
		},
		HiPot: HiPotConfig{
			DurationSeconds: 60,
			VoltageScale:    5.0,
			CurrentScale:    1.0,
			LeakageLimit:    1.0,
			VoltageLow:      4.5,
			VoltageHigh:     5.5,
		},
		Isolation: IsolationConfig{
			DurationSeconds: 60,
			ResistanceScale: 1e6,
			VoltageScale:    1000,
			ResistanceMin:   100,
		},
		Laser: LaserConfig{
			DurationSeconds: 60,
			PowerMeterAddr:  "localhost:5025",
			AnalyzerAddr:    "localhost:5026",
			ConnectFailure:  0.05,
			PacketLoss:      0.01,
			PowerLow:        10,
			PowerHigh:       100,
			WavelengthLow:   800,
			WavelengthHigh:  850,
		},
		Parametric: ParametricConfig{
			DurationSeconds: 60,
			VoltageScale:    1000,
			CurrentScale:    1000,
			VoltageLow:      4500,
			VoltageHigh:     5500,
			CurrentLow:      90,
			CurrentHigh:     110,
		},
		ICT: ICTConfig{
			ContinuityPoints: []string{"TP1", "TP2", "TP3", "TP4", "TP5"},
			ContinuityLimit:  1.0,
			ResistorPoints:   []string{"R1", "R2", "R3", "R4"},
			ResistorNominal:  1000,
			ResistorTol:      0.05,
			CapacitorPoints:  []string{"C1", "C2", "C3"},
			CapacitorNominal: 10,
			CapacitorTol:     0.10,
			PowerPoints:      []string{"VCC", "GND"},
			PowerNominal:     3.3,
			PowerTol:         0.05,
		},
	}
}

// Load reads configuration from the YAML file at path, layered over the
// defaults and under any environment overrides. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers INSTRSIM_* environment variables over the file values.
// A .env file in the working directory is honored if present.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("INSTRSIM_REPORTS_DIR"); v != "" {
		cfg.ReportsDir = v
	}
	if v := os.Getenv("INSTRSIM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
	if v := os.Getenv("INSTRSIM_DASHBOARD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Dashboard.Port = port
		}
	}
}

// Validate rejects configurations the simulators cannot run with.
func (c *Config) Validate() error {
	if c.ReportsDir == "" {
		return fmt.Errorf("reports_dir must not be empty")
	}
	if c.Sigma <= 0 {
		return fmt.Errorf("sigma must be positive, got %v", c.Sigma)
	}
	if c.Dashboard.Port <= 0 || c.Dashboard.Port > 65535 {
		return fmt.Errorf("dashboard port %d out of range", c.Dashboard.Port)
	}
	if c.Dashboard.PortAttempts < 1 {
		return fmt.Errorf("dashboard port_attempts must be at least 1")
	}
	for name, d := range map[string]float64{
		"burnin":     c.BurnIn.DurationSeconds,
		"hipot":      c.HiPot.DurationSeconds,
		"isolation":  c.Isolation.DurationSeconds,
		"laser":      c.Laser.DurationSeconds,
		"parametric": c.Parametric.DurationSeconds,
	} {
		if d <= 0 {
			return fmt.Errorf("%s duration_seconds must be positive, got %v", name, d)
		}
	}
	return nil
}
