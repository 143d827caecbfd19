package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/okx/okx/types"
	"github.com/betbot/okx/pkg/secretstore"
)

var okxEnvKeys = []string{
	"OKX_API_KEY", "OKX_SECRET_KEY", "OKX_PASSPHRASE", "OKX_API_URL", "OKX_SIMULATED",
	"OKX_TIMEOUT", "OKX_PROXY", "OKX_RATE_LIMIT", "OKX_LOG_LEVEL", "OKX_LOG_FILE",
	"OKX_LOG_JSON", "OKX_SECRET_DB", "OKX_SECRET_KEY_DB", "OKX_CONFIG",
}

// unsetEnv 清空 OKX_* 变量，测试结束后自动恢复
func unsetEnv(t *testing.T) {
	t.Helper()
	for _, k := range okxEnvKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t)

	cfg, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.True(t, cfg.RateLimit)
	assert.False(t, cfg.Simulated)
	assert.False(t, cfg.Credentials.Complete())
}

func TestLoadFromEnv(t *testing.T) {
	unsetEnv(t)
	t.Setenv("OKX_API_KEY", "k")
	t.Setenv("OKX_SECRET_KEY", "s")
	t.Setenv("OKX_PASSPHRASE", "p")
	t.Setenv("OKX_API_URL", "https://aws.okx.com")
	t.Setenv("OKX_SIMULATED", "true")
	t.Setenv("OKX_TIMEOUT", "5s")
	t.Setenv("OKX_RATE_LIMIT", "false")

	cfg, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, types.ApiKeyCreds{Key: "k", Secret: "s", Passphrase: "p"}, cfg.Credentials)
	assert.Equal(t, "https://aws.okx.com", cfg.Host)
	assert.True(t, cfg.Simulated)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.False(t, cfg.RateLimit)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverridesFile(t *testing.T) {
	unsetEnv(t)
	path := writeFile(t, "okx.yaml", `
api_key: file-key
secret_key: file-secret
passphrase: file-pass
simulated: true
timeout: 12s
rate_limit: false
log:
  level: debug
  json: true
`)
	t.Setenv("OKX_API_KEY", "env-key")
	t.Setenv("OKX_SIMULATED", "false")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Credentials.Key)
	assert.Equal(t, "file-secret", cfg.Credentials.Secret)
	assert.False(t, cfg.Simulated)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.False(t, cfg.RateLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
}

func TestLoadFromFileErrors(t *testing.T) {
	unsetEnv(t)

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFromFile(writeFile(t, "okx.toml", "x=1"))
	assert.ErrorContains(t, err, "不支持的配置文件格式")

	_, err = LoadFromFile(writeFile(t, "okx.yaml", "timeout: soon"))
	assert.ErrorContains(t, err, "timeout")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Credentials = types.ApiKeyCreds{Key: "k", Secret: "s", Passphrase: "p"}
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "missing key", mutate: func(c *Config) { c.Credentials.Key = "" }, wantErr: "OKX_API_KEY"},
		{name: "missing secret", mutate: func(c *Config) { c.Credentials.Secret = "" }, wantErr: "OKX_SECRET_KEY"},
		{name: "missing passphrase", mutate: func(c *Config) { c.Credentials.Passphrase = "" }, wantErr: "OKX_PASSPHRASE"},
		{name: "bad scheme", mutate: func(c *Config) { c.Host = "ftp://okx.com" }, wantErr: "OKX_API_URL"},
		{name: "no host", mutate: func(c *Config) { c.Host = "https://" }, wantErr: "OKX_API_URL"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: "OKX_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestResolveCredentialsFromSecretStore(t *testing.T) {
	dir := t.TempDir()
	store, err := secretstore.Open(secretstore.OpenOptions{Path: dir})
	require.NoError(t, err)
	require.NoError(t, store.SetString(SecretAPIKey, "db-key"))
	require.NoError(t, store.SetString(SecretSecretKey, "db-secret"))
	require.NoError(t, store.SetString(SecretPassphraseKey, "db-pass"))
	require.NoError(t, store.Close())

	cfg := Default()
	cfg.Credentials.Key = "env-key"
	cfg.SecretDB = dir

	require.NoError(t, cfg.ResolveCredentials())
	assert.Equal(t, types.ApiKeyCreds{Key: "env-key", Secret: "db-secret", Passphrase: "db-pass"}, cfg.Credentials)
}

func TestResolveCredentialsNoop(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ResolveCredentials())
	assert.False(t, cfg.Credentials.Complete())
}
