package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
    t.Helper()
    require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
    require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadAppliesDefaults(t *testing.T) {
    path := filepath.Join(t.TempDir(), "config.yaml")
    writeFile(t, path, "server:\n  port: \":9000\"\n")

    cfg, err := Load(path)
    require.NoError(t, err)

    assert.Equal(t, ":9000", cfg.Server.Port)
    assert.Equal(t, "boltdb", cfg.Database.Type)
    assert.Equal(t, "./data/uptimeboard.db", cfg.Database.Path)
    assert.Equal(t, 2*time.Second, cfg.Gateway.ProbeTimeout)
    assert.Equal(t, 10*time.Second, cfg.Gateway.OperationTimeout)
    assert.Equal(t, 50, cfg.Gateway.DefaultEventLimit)
    assert.Equal(t, "X-User-ID", cfg.Identity.Header)
    assert.Equal(t, "demo-user", cfg.Identity.AnonymousID)
    assert.Equal(t, "UTC", cfg.Filter.Timezone)
    assert.Equal(t, "/metrics", cfg.Prometheus.MetricsPath)
    assert.Equal(t, "info", cfg.Logging.Level)
    assert.False(t, cfg.Seed.OnStartup)
}

func TestLoadRejectsInvalid(t *testing.T) {
    cases := map[string]string{
        "database type": "database:\n  type: postgres\n",
        "timezone":      "filter:\n  timezone: Mars/Olympus\n",
        "log level":     "logging:\n  level: loud\n",
        "log format":    "logging:\n  format: xml\n",
        "metrics path":  "prometheus:\n  metrics_path: metrics\n",
        "event limit":   "gateway:\n  default_event_limit: -1\n",
        "include dir":   "include:\n  enabled: true\n",
        "admin users":   "admin:\n  enabled: true\n",
    }
    for name, content := range cases {
        t.Run(name, func(t *testing.T) {
            path := filepath.Join(t.TempDir(), "config.yaml")
            writeFile(t, path, content)
            _, err := Load(path)
            assert.Error(t, err)
        })
    }
}

func TestLoadMissingFile(t *testing.T) {
    _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
    assert.Error(t, err)
}

func TestLoadMergesIncludes(t *testing.T) {
    dir := t.TempDir()
    writeFile(t, filepath.Join(dir, "config.yaml"), `
database:
  path: /var/lib/uptimeboard/main.db
gateway:
  probe_timeout: 1s
include:
  enabled: true
  directory: conf.d
`)
    writeFile(t, filepath.Join(dir, "conf.d", "10-gateway.yaml"), `
gateway:
  operation_timeout: 3s
identity:
  anonymous_id: guest
`)
    writeFile(t, filepath.Join(dir, "conf.d", "20-seed.yml"), `
seed:
  on_startup: true
identity:
  header: X-Forwarded-User
`)

    cfg, err := Load(filepath.Join(dir, "config.yaml"))
    require.NoError(t, err)

    assert.Equal(t, "/var/lib/uptimeboard/main.db", cfg.Database.Path)
    assert.Equal(t, time.Second, cfg.Gateway.ProbeTimeout)
    assert.Equal(t, 3*time.Second, cfg.Gateway.OperationTimeout)
    assert.Equal(t, "guest", cfg.Identity.AnonymousID)
    assert.Equal(t, "X-Forwarded-User", cfg.Identity.Header)
    assert.True(t, cfg.Seed.OnStartup)
}

func TestDefaultLocation(t *testing.T) {
    cfg := Default()
    loc, err := cfg.Location()
    require.NoError(t, err)
    assert.Equal(t, time.UTC, loc)
}

func TestAdminAccess(t *testing.T) {
    path := filepath.Join(t.TempDir(), "config.yaml")
    writeFile(t, path, "admin:\n  enabled: true\n  users: [ops]\nprometheus:\n  sample_user: ops\n")

    cfg, err := Load(path)
    require.NoError(t, err)
    assert.True(t, cfg.Admin.IsAdmin("ops"))
    assert.False(t, cfg.Admin.IsAdmin("u1"))
    assert.False(t, cfg.Admin.IsAdmin(""))
    assert.Equal(t, "ops", cfg.Prometheus.SampleUser)

    assert.False(t, Default().Admin.IsAdmin("ops"))
}
