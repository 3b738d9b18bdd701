package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walacor/walacor-go/relays"
)

func TestNew_NormalizesBaseURL(t *testing.T) {
	t.Parallel()

	cfg := New(" https://walacor.example/api/ ", "admin", "secret")

	assert.Equal(t, "https://walacor.example/api", cfg.BaseURL)
	assert.Equal(t, "admin", cfg.Username)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultLoginTimeout, cfg.LoginTimeout)
	require.NoError(t, cfg.Validate())
}

func TestValidate_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing server", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: "BaseURL"},
		{name: "bad url", mutate: func(c *Config) { c.BaseURL = "not a url" }, wantErr: "BaseURL"},
		{name: "missing password", mutate: func(c *Config) { c.Password = "" }, wantErr: "Password"},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimit = -1 }, wantErr: "RateLimit"},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "chatty" }, wantErr: "LogLevel"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := New("http://localhost:8080/api", "admin", "secret")
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEnv_ReadsDotEnvAndProcessEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "walacor.env")
	content := "WALACOR_SERVER=http://from-file:8080/api/\n" +
		"WALACOR_USERNAME=file-user\n" +
		"WALACOR_PASSWORD=file-pass\n" +
		"WALACOR_REQUEST_TIMEOUT=12s\n" +
		"WALACOR_EXTRA_HEADERS=X-Tenant=acme\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// process env wins over the file
	t.Setenv(EnvUsername, "process-user")
	t.Setenv(EnvRateLimit, "2.5")
	t.Setenv(EnvLogLevel, "DEBUG")
	for _, key := range []string{EnvServer, EnvPassword, EnvRequestTimeout, EnvExtraHeaders} {
		key := key
		prev, had := os.LookupEnv(key)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	cfg, err := LoadEnv(envFile)
	require.NoError(t, err)

	assert.Equal(t, "http://from-file:8080/api", cfg.BaseURL)
	assert.Equal(t, "process-user", cfg.Username)
	assert.Equal(t, "file-pass", cfg.Password)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "acme", cfg.ExtraHeaders["X-Tenant"])
}

func TestLoadEnv_BadDuration(t *testing.T) {
	t.Setenv(EnvRequestTimeout, "soon")

	_, err := LoadEnv(writeEmptyEnv(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvRequestTimeout)
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walacor.yaml")
	content := `server: https://walacor.example/api/
username: yaml-user
password: yaml-pass
request_timeout: 45s
rate_limit: 4
rate_burst: 2
extra_headers:
  X-Env: staging
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://walacor.example/api", cfg.BaseURL)
	assert.Equal(t, "yaml-user", cfg.Username)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, float64(4), cfg.RateLimit)
	assert.Equal(t, 2, cfg.RateBurst)
	assert.Equal(t, "staging", cfg.ExtraHeaders["X-Env"])
	assert.Equal(t, DefaultLoginTimeout, cfg.LoginTimeout)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestRelay_UsesInjectedRelay(t *testing.T) {
	t.Parallel()

	nop := relays.NewNopRelay()
	cfg := New("http://localhost", "u", "p").WithRelay(nop)
	assert.Same(t, nop, cfg.Relay())
}

func TestRelay_WritesLogFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := New("http://localhost", "u", "p")
	cfg.LogDir = dir

	cfg.Relay().Error(relays.RlyLog{Msg: "to file"})

	raw, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "to file")
}

func TestClone_IsolatesHeaders(t *testing.T) {
	t.Parallel()

	cfg := New("http://localhost", "u", "p").WithExtraHeaders(map[string]string{"A": "1"})
	cpy := cfg.Clone()
	cpy.ExtraHeaders["A"] = "2"

	assert.Equal(t, "1", cfg.ExtraHeaders["A"])
}

func TestDefaultDownloadDir_XDG(t *testing.T) {
	t.Setenv("XDG_DOWNLOAD_DIR", "/tmp/dl")
	assert.Equal(t, filepath.Join("/tmp/dl", "walacor"), DefaultDownloadDir())
}

func writeEmptyEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}
