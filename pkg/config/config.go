// Package config provides configuration management for the goppa CLI tool
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Davincible/goppa/internal/validation"
)

// ErrProfileNotFound is returned for unknown parameter profiles.
var ErrProfileNotFound = errors.New("config: profile not found")

// Config represents the main configuration structure
type Config struct {
	Version  string          `json:"version"`
	Defaults DefaultSettings `json:"defaults"`
	UI       UIConfig        `json:"ui"`
}

// DefaultSettings contains default values for command flags
type DefaultSettings struct {
	FieldDegree     int    `json:"field_degree"`     // GF(2^m) for field and goppa commands
	GoppaDegree     int    `json:"goppa_degree"`     // error correcting capability t
	ExtensionDegree int    `json:"extension_degree"` // GF(2^n) for convert
	MatrixSize      int    `json:"matrix_size"`      // scramble and perm
	Basis           string `json:"basis"`            // polynomial or normal
	Encoding        string `json:"encoding"`         // hex or base64
	Seed            string `json:"seed"`             // empty: system randomness
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor  bool   `json:"use_color"`
	Verbosity string `json:"verbosity"` // quiet, normal, verbose
}

// ParameterProfile is a named Goppa parameter set.
type ParameterProfile struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	FieldDegree int      `json:"field_degree"`
	GoppaDegree int      `json:"goppa_degree"`
	Tags        []string `json:"tags"`
}

// ConfigManager manages configuration loading and saving
type ConfigManager struct {
	config     *Config
	configPath string
	profiles   map[string]*ParameterProfile
}

// NewConfigManager loads the configuration from the default path,
// writing the defaults there on first use.
func NewConfigManager() (*ConfigManager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return NewConfigManagerAt(configPath)
}

// NewConfigManagerAt is NewConfigManager with an explicit file path.
func NewConfigManagerAt(configPath string) (*ConfigManager, error) {
	cm := &ConfigManager{
		configPath: configPath,
		profiles:   make(map[string]*ParameterProfile),
	}

	if err := cm.LoadConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cm.config = DefaultConfig()
		if err := cm.SaveConfig(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	// Profiles are optional
	if err := cm.LoadProfiles(); err != nil {
		return nil, err
	}

	return cm, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			FieldDegree:     11,
			GoppaDegree:     50,
			ExtensionDegree: 113,
			MatrixSize:      64,
			Basis:           "polynomial",
			Encoding:        "hex",
			Seed:            "",
		},
		UI: UIConfig{
			UseColor:  true,
			Verbosity: "normal",
		},
	}
}

// DefaultProfiles are the classic McEliece parameter sets.
func DefaultProfiles() []*ParameterProfile {
	return []*ParameterProfile{
		{Name: "mceliece-1024", Description: "original McEliece parameters", FieldDegree: 10, GoppaDegree: 50, Tags: []string{"classic"}},
		{Name: "mceliece-2048", Description: "80-bit security level", FieldDegree: 11, GoppaDegree: 27, Tags: []string{"classic"}},
		{Name: "mceliece-4096", Description: "128-bit security level", FieldDegree: 12, GoppaDegree: 66, Tags: []string{"classic"}},
	}
}

// Validate checks the defaults against the CLI limits.
func (c *Config) Validate() error {
	d := c.Defaults
	if err := validation.ValidateGoppaParams(d.FieldDegree, d.GoppaDegree); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if err := validation.ValidateExtensionDegree(d.ExtensionDegree); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if err := validation.ValidateMatrixSize(d.MatrixSize); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if err := validation.ValidateBasis(d.Basis); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if err := validation.ValidateEncoding(d.Encoding); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if err := validation.ValidateSeed(d.Seed); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}

// LoadConfig loads the configuration from disk
func (cm *ConfigManager) LoadConfig() error {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cm.configPath, err)
	}

	cm.config = config
	return nil
}

// SaveConfig saves the configuration to disk
func (cm *ConfigManager) SaveConfig() error {
	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config
}

// SetConfig validates and replaces the configuration
func (cm *ConfigManager) SetConfig(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	cm.config = config
	return nil
}

// Path returns the configuration file path
func (cm *ConfigManager) Path() string {
	return cm.configPath
}

func (cm *ConfigManager) profilesPath() string {
	return filepath.Join(filepath.Dir(cm.configPath), "profiles.json")
}

// LoadProfiles loads saved parameter profiles on top of the defaults
func (cm *ConfigManager) LoadProfiles() error {
	profiles := make(map[string]*ParameterProfile)
	for _, p := range DefaultProfiles() {
		profiles[p.Name] = p
	}

	data, err := os.ReadFile(cm.profilesPath())
	if err != nil {
		if os.IsNotExist(err) {
			cm.profiles = profiles
			return nil
		}
		return err
	}

	saved := make(map[string]*ParameterProfile)
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("failed to parse profiles: %w", err)
	}
	for name, p := range saved {
		profiles[name] = p
	}

	cm.profiles = profiles
	return nil
}

// SaveProfiles saves parameter profiles to disk
func (cm *ConfigManager) SaveProfiles() error {
	data, err := json.MarshalIndent(cm.profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cm.configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(cm.profilesPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}

	return nil
}

// AddProfile validates and stores a parameter profile
func (cm *ConfigManager) AddProfile(profile *ParameterProfile) error {
	if profile.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if err := validation.ValidateGoppaParams(profile.FieldDegree, profile.GoppaDegree); err != nil {
		return fmt.Errorf("profile %s: %w", profile.Name, err)
	}

	cm.profiles[profile.Name] = profile
	return cm.SaveProfiles()
}

// GetProfile retrieves a parameter profile by name
func (cm *ConfigManager) GetProfile(name string) (*ParameterProfile, error) {
	profile, exists := cm.profiles[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return profile, nil
}

// ListProfiles returns all profiles sorted by name
func (cm *ConfigManager) ListProfiles() []*ParameterProfile {
	profiles := make([]*ParameterProfile, 0, len(cm.profiles))
	for _, profile := range cm.profiles {
		profiles = append(profiles, profile)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles
}

// DeleteProfile removes a parameter profile
func (cm *ConfigManager) DeleteProfile(name string) error {
	if _, exists := cm.profiles[name]; !exists {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	delete(cm.profiles, name)
	return cm.SaveProfiles()
}

// getConfigPath returns the configuration file path
func getConfigPath() (string, error) {
	if customPath := os.Getenv("GOPPA_CONFIG"); customPath != "" {
		return customPath, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "goppa", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "goppa", "config.json"), nil
}
