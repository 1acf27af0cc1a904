package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lumen-dev/lumen/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "lumen.json"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultEntry is the default bundle entry point.
	DefaultEntry = "src/index.ts"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultTarget is the default runtime language level.
	DefaultTarget = "es2017"
)

// Config represents the complete lumen.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Entry is the bundle entry point, relative to the project root.
	Entry string `json:"entry,omitempty"`

	// Static is the directory with the host page and other static files.
	Static string `json:"static,omitempty"`

	// Esbuild is the bundler binary to invoke.
	Esbuild string `json:"esbuild,omitempty"`

	// Target is the runtime language level (e.g. "es2017").
	Target string `json:"target,omitempty"`

	// External are import specifiers excluded from the bundle.
	External []string `json:"external,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Build contains one-shot build configuration.
	Build BuildConfig `json:"build,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// OpenBrowser opens the browser automatically on start.
	OpenBrowser bool `json:"openBrowser,omitempty"`

	// Watch contains paths to watch for changes, relative to the root.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`

	// HotUpdate enables in-place module updates; when false every change
	// falls back to a full reload broadcast.
	HotUpdate bool `json:"hotUpdate,omitempty"`
}

// BuildConfig contains one-shot build settings.
type BuildConfig struct {
	// Output is the output directory for builds.
	Output string `json:"output,omitempty"`

	// Minify enables minification.
	Minify bool `json:"minify,omitempty"`

	// Sourcemap enables inline source maps.
	Sourcemap bool `json:"sourcemap,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Entry:   DefaultEntry,
		Static:  "public",
		Esbuild: "esbuild",
		Target:  DefaultTarget,
		Dev: DevConfig{
			Port:      DefaultPort,
			Host:      DefaultHost,
			Watch:     []string{"src"},
			HotUpdate: true,
		},
		Build: BuildConfig{
			Output: DefaultOutput,
			Minify: true,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for lumen.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("L121").
				WithDetail("No lumen.json found in " + filepath.Dir(path)).
				WithSuggestion("Create lumen.json with at least an \"entry\" field")
		}
		return nil, errors.New("L120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("L120").
			WithDetail("Failed to parse lumen.json: " + err.Error()).
			WithSuggestion("Check that lumen.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("L120").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("L120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Entry == "" {
		c.Entry = DefaultEntry
	}
	if c.Esbuild == "" {
		c.Esbuild = "esbuild"
	}
	if c.Target == "" {
		c.Target = DefaultTarget
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{"src"}
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("L120").
			WithDetail("Port must be between 0 and 65535")
	}
	return nil
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// EntryPath returns the absolute path to the entry point.
func (c *Config) EntryPath() string {
	if filepath.IsAbs(c.Entry) {
		return c.Entry
	}
	return filepath.Join(c.Dir(), c.Entry)
}

// StaticPath returns the absolute path to the static files directory.
func (c *Config) StaticPath() string {
	if filepath.IsAbs(c.Static) {
		return c.Static
	}
	return filepath.Join(c.Dir(), c.Static)
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Build.Output) {
		return c.Build.Output
	}
	return filepath.Join(c.Dir(), c.Build.Output)
}

// Exists reports whether a lumen.json is present in dir.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing lumen.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("L121").
				WithDetail("No lumen.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

// itoa converts int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	// Reverse
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
