// internal/config/config.go
package config

import (
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"

    "github.com/sirupsen/logrus"
    "gopkg.in/yaml.v3"
)

type Config struct {
    Server     ServerConfig     `yaml:"server"`
    Web        WebConfig        `yaml:"web"`
    Database   DatabaseConfig   `yaml:"database"`
    Gateway    GatewayConfig    `yaml:"gateway"`
    Identity   IdentityConfig   `yaml:"identity"`
    Filter     FilterConfig     `yaml:"filter"`
    Prometheus PrometheusConfig `yaml:"prometheus"`
    Logging    LoggingConfig    `yaml:"logging"`
    Seed       SeedConfig       `yaml:"seed"`
    Admin      AdminConfig      `yaml:"admin"`
    Include    IncludeConfig    `yaml:"include"`
}

type IncludeConfig struct {
    Directory string `yaml:"directory"`
    Pattern   string `yaml:"pattern"`
    Enabled   bool   `yaml:"enabled"`
}

type ServerConfig struct {
    Port         string        `yaml:"port"`
    ReadTimeout  time.Duration `yaml:"read_timeout"`
    WriteTimeout time.Duration `yaml:"write_timeout"`
}

// WebConfig points at a built dashboard bundle to serve next to the API.
type WebConfig struct {
    StaticDir   string `yaml:"static_dir"`
    ServeStatic bool   `yaml:"serve_static"`
    Root        string `yaml:"root"`
}

type DatabaseConfig struct {
    Type            string        `yaml:"type"`
    Path            string        `yaml:"path"`
    OpenTimeout     time.Duration `yaml:"open_timeout"`
    CompactInterval time.Duration `yaml:"compact_interval"`
}

type GatewayConfig struct {
    ProbeTimeout      time.Duration `yaml:"probe_timeout"`
    OperationTimeout  time.Duration `yaml:"operation_timeout"`
    DefaultEventLimit int           `yaml:"default_event_limit"`
}

type IdentityConfig struct {
    // Header carries the caller's user id.
    Header      string `yaml:"header"`
    EmailHeader string `yaml:"email_header"`
    AnonymousID string `yaml:"anonymous_id"`
}

type FilterConfig struct {
    Timezone string `yaml:"timezone"`
}

// PrometheusConfig controls /metrics. The dashboard gauges describe a single
// workspace: SampleUser's, or the anonymous one when it is empty.
type PrometheusConfig struct {
    Enabled        bool          `yaml:"enabled"`
    MetricsPath    string        `yaml:"metrics_path"`
    UpdateInterval time.Duration `yaml:"update_interval"`
    SampleUser     string        `yaml:"sample_user"`
}

type LoggingConfig struct {
    Level  string `yaml:"level"`
    Format string `yaml:"format"`
}

type SeedConfig struct {
    OnStartup bool `yaml:"on_startup"`
}

// AdminConfig enables the store maintenance endpoints for the listed user ids.
type AdminConfig struct {
    Enabled bool     `yaml:"enabled"`
    Users   []string `yaml:"users"`
}

// IsAdmin reports whether userID may use the maintenance endpoints.
func (a AdminConfig) IsAdmin(userID string) bool {
    if !a.Enabled || userID == "" {
        return false
    }
    for _, u := range a.Users {
        if u == userID {
            return true
        }
    }
    return false
}

// PartialConfig represents a partial configuration that can be merged
type PartialConfig struct {
    Server     *ServerConfig     `yaml:"server,omitempty"`
    Web        *WebConfig        `yaml:"web,omitempty"`
    Database   *DatabaseConfig   `yaml:"database,omitempty"`
    Gateway    *GatewayConfig    `yaml:"gateway,omitempty"`
    Identity   *IdentityConfig   `yaml:"identity,omitempty"`
    Filter     *FilterConfig     `yaml:"filter,omitempty"`
    Prometheus *PrometheusConfig `yaml:"prometheus,omitempty"`
    Logging    *LoggingConfig    `yaml:"logging,omitempty"`
    Seed       *SeedConfig       `yaml:"seed,omitempty"`
    Admin      *AdminConfig      `yaml:"admin,omitempty"`
}

func Load(filename string) (*Config, error) {
    config, err := loadConfigFile(filename)
    if err != nil {
        return nil, fmt.Errorf("failed to load main config file: %w", err)
    }

    if config.Include.Enabled && config.Include.Directory != "" {
        if err := loadIncludes(config, filepath.Dir(filename)); err != nil {
            return nil, fmt.Errorf("failed to load includes: %w", err)
        }
    }

    setDefaults(config)

    if err := validate(config); err != nil {
        return nil, fmt.Errorf("invalid configuration: %w", err)
    }

    return config, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
    cfg := &Config{}
    setDefaults(cfg)
    return cfg
}

func loadConfigFile(filename string) (*Config, error) {
    data, err := os.ReadFile(filename)
    if err != nil {
        return nil, fmt.Errorf("failed to read config file: %w", err)
    }

    var config Config
    if err := yaml.Unmarshal(data, &config); err != nil {
        return nil, fmt.Errorf("failed to parse YAML: %w", err)
    }

    return &config, nil
}

func loadIncludes(config *Config, baseDir string) error {
    includeDir := config.Include.Directory
    if !filepath.IsAbs(includeDir) {
        includeDir = filepath.Join(baseDir, includeDir)
    }

    if _, err := os.Stat(includeDir); os.IsNotExist(err) {
        return fmt.Errorf("include directory does not exist: %s", includeDir)
    }

    pattern := config.Include.Pattern
    if pattern == "" {
        pattern = "*.yaml"
    }

    matches, err := filepath.Glob(filepath.Join(includeDir, pattern))
    if err != nil {
        return fmt.Errorf("failed to glob include pattern: %w", err)
    }

    // Also check for .yml files if pattern is default
    if pattern == "*.yaml" {
        ymlMatches, err := filepath.Glob(filepath.Join(includeDir, "*.yml"))
        if err != nil {
            return fmt.Errorf("failed to glob .yml files: %w", err)
        }
        matches = append(matches, ymlMatches...)
    }

    sort.Slice(matches, func(i, j int) bool {
        return filepath.Base(matches[i]) < filepath.Base(matches[j])
    })

    for _, match := range matches {
        if err := loadAndMergeInclude(config, match); err != nil {
            return fmt.Errorf("failed to load include file %s: %w", match, err)
        }
        logrus.WithField("file", match).Debug("Merged config include")
    }

    return nil
}

func loadAndMergeInclude(config *Config, filename string) error {
    data, err := os.ReadFile(filename)
    if err != nil {
        return fmt.Errorf("failed to read include file: %w", err)
    }

    var partial PartialConfig
    if err := yaml.Unmarshal(data, &partial); err != nil {
        return fmt.Errorf("failed to parse include file YAML: %w", err)
    }

    mergePartialConfig(config, &partial)
    return nil
}

// mergePartialConfig overrides only the sections present in partial, and
// within them only the non-zero fields. Booleans are taken as given.
func mergePartialConfig(config *Config, partial *PartialConfig) {
    if p := partial.Server; p != nil {
        setString(&config.Server.Port, p.Port)
        setDuration(&config.Server.ReadTimeout, p.ReadTimeout)
        setDuration(&config.Server.WriteTimeout, p.WriteTimeout)
    }
    if p := partial.Web; p != nil {
        setString(&config.Web.StaticDir, p.StaticDir)
        setString(&config.Web.Root, p.Root)
        config.Web.ServeStatic = p.ServeStatic
    }
    if p := partial.Database; p != nil {
        setString(&config.Database.Type, p.Type)
        setString(&config.Database.Path, p.Path)
        setDuration(&config.Database.OpenTimeout, p.OpenTimeout)
        setDuration(&config.Database.CompactInterval, p.CompactInterval)
    }
    if p := partial.Gateway; p != nil {
        setDuration(&config.Gateway.ProbeTimeout, p.ProbeTimeout)
        setDuration(&config.Gateway.OperationTimeout, p.OperationTimeout)
        if p.DefaultEventLimit != 0 {
            config.Gateway.DefaultEventLimit = p.DefaultEventLimit
        }
    }
    if p := partial.Identity; p != nil {
        setString(&config.Identity.Header, p.Header)
        setString(&config.Identity.EmailHeader, p.EmailHeader)
        setString(&config.Identity.AnonymousID, p.AnonymousID)
    }
    if p := partial.Filter; p != nil {
        setString(&config.Filter.Timezone, p.Timezone)
    }
    if p := partial.Prometheus; p != nil {
        config.Prometheus.Enabled = p.Enabled
        setString(&config.Prometheus.MetricsPath, p.MetricsPath)
        setDuration(&config.Prometheus.UpdateInterval, p.UpdateInterval)
        setString(&config.Prometheus.SampleUser, p.SampleUser)
    }
    if p := partial.Logging; p != nil {
        setString(&config.Logging.Level, p.Level)
        setString(&config.Logging.Format, p.Format)
    }
    if p := partial.Seed; p != nil {
        config.Seed.OnStartup = p.OnStartup
    }
    if p := partial.Admin; p != nil {
        config.Admin.Enabled = p.Enabled
        if len(p.Users) > 0 {
            config.Admin.Users = p.Users
        }
    }
}

func setString(dst *string, v string) {
    if v != "" {
        *dst = v
    }
}

func setDuration(dst *time.Duration, v time.Duration) {
    if v != 0 {
        *dst = v
    }
}

func setDefaults(cfg *Config) {
    // Server defaults
    if cfg.Server.Port == "" {
        cfg.Server.Port = ":8000"
    }
    if cfg.Server.ReadTimeout == 0 {
        cfg.Server.ReadTimeout = 15 * time.Second
    }
    if cfg.Server.WriteTimeout == 0 {
        cfg.Server.WriteTimeout = 15 * time.Second
    }

    // Web defaults
    if cfg.Web.StaticDir == "" {
        cfg.Web.StaticDir = "web/dist"
    }
    if cfg.Web.Root == "" {
        cfg.Web.Root = "index.html"
    }

    // Database defaults
    if cfg.Database.Type == "" {
        cfg.Database.Type = "boltdb"
    }
    if cfg.Database.Path == "" {
        cfg.Database.Path = "./data/uptimeboard.db"
    }
    if cfg.Database.OpenTimeout == 0 {
        cfg.Database.OpenTimeout = time.Second
    }

    // Gateway defaults
    if cfg.Gateway.ProbeTimeout == 0 {
        cfg.Gateway.ProbeTimeout = 2 * time.Second
    }
    if cfg.Gateway.OperationTimeout == 0 {
        cfg.Gateway.OperationTimeout = 10 * time.Second
    }
    if cfg.Gateway.DefaultEventLimit == 0 {
        cfg.Gateway.DefaultEventLimit = 50
    }

    // Identity defaults
    if cfg.Identity.Header == "" {
        cfg.Identity.Header = "X-User-ID"
    }
    if cfg.Identity.EmailHeader == "" {
        cfg.Identity.EmailHeader = "X-User-Email"
    }
    if cfg.Identity.AnonymousID == "" {
        cfg.Identity.AnonymousID = "demo-user"
    }

    if cfg.Filter.Timezone == "" {
        cfg.Filter.Timezone = "UTC"
    }

    // Prometheus defaults
    if cfg.Prometheus.MetricsPath == "" {
        cfg.Prometheus.MetricsPath = "/metrics"
    }
    if cfg.Prometheus.UpdateInterval == 0 {
        cfg.Prometheus.UpdateInterval = 30 * time.Second
    }

    // Logging defaults
    if cfg.Logging.Level == "" {
        cfg.Logging.Level = "info"
    }
    if cfg.Logging.Format == "" {
        cfg.Logging.Format = "text"
    }

    if cfg.Include.Pattern == "" {
        cfg.Include.Pattern = "*.yaml"
    }
}

func validate(cfg *Config) error {
    if cfg.Database.Type != "boltdb" {
        return fmt.Errorf("only boltdb is supported currently")
    }
    if cfg.Gateway.ProbeTimeout < 0 || cfg.Gateway.OperationTimeout < 0 {
        return fmt.Errorf("gateway timeouts must not be negative")
    }
    if cfg.Gateway.DefaultEventLimit < 1 {
        return fmt.Errorf("gateway.default_event_limit must be at least 1")
    }
    if cfg.Database.CompactInterval < 0 {
        return fmt.Errorf("database.compact_interval must not be negative")
    }
    if _, err := cfg.Location(); err != nil {
        return fmt.Errorf("filter.timezone: %w", err)
    }
    if _, err := logrus.ParseLevel(cfg.Logging.Level); err != nil {
        return fmt.Errorf("logging.level: %w", err)
    }
    if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
        return fmt.Errorf("logging.format must be text or json")
    }
    if !strings.HasPrefix(cfg.Prometheus.MetricsPath, "/") {
        return fmt.Errorf("prometheus.metrics_path must start with /")
    }
    if strings.ContainsAny(cfg.Identity.Header, " :") {
        return fmt.Errorf("identity.header is not a valid header name")
    }
    if cfg.Admin.Enabled && len(cfg.Admin.Users) == 0 {
        return fmt.Errorf("admin.users must list at least one user id when admin.enabled is true")
    }
    if cfg.Web.ServeStatic && containsPathTraversal(cfg.Web.Root) {
        return fmt.Errorf("web.root contains invalid filename with path traversal: %s", cfg.Web.Root)
    }

    if cfg.Include.Enabled {
        if cfg.Include.Directory == "" {
            return fmt.Errorf("include.directory must be specified when include.enabled is true")
        }
        if !isValidGlobPattern(cfg.Include.Pattern) {
            return fmt.Errorf("include.pattern contains invalid glob pattern: %s", cfg.Include.Pattern)
        }
    }

    return nil
}

// Location resolves filter.timezone.
func (c *Config) Location() (*time.Location, error) {
    return time.LoadLocation(c.Filter.Timezone)
}

func containsPathTraversal(filename string) bool {
    return strings.Contains(filename, "..") || strings.HasPrefix(filename, "/") || strings.HasPrefix(filename, "\\")
}

func isValidGlobPattern(pattern string) bool {
    if strings.Contains(pattern, "/") || strings.Contains(pattern, "\\") {
        return false
    }
    _, err := filepath.Match(pattern, "test.yaml")
    return err == nil
}
