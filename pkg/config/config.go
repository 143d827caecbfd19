package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/betbot/okx/okx/types"
	"github.com/betbot/okx/pkg/secretstore"
)

// 默认值
const (
	DefaultHost    = "https://www.okx.com"
	DefaultTimeout = 30 * time.Second
)

// secret store 中凭证的键名，与 env2badger 导入时一致
const (
	SecretKeyPrefix     = "env/"
	SecretAPIKey        = SecretKeyPrefix + "OKX_API_KEY"
	SecretSecretKey     = SecretKeyPrefix + "OKX_SECRET_KEY"
	SecretPassphraseKey = SecretKeyPrefix + "OKX_PASSPHRASE"
)

// Config OKX 客户端配置
type Config struct {
	Credentials types.ApiKeyCreds
	Host        string        // REST 地址
	Simulated   bool          // 模拟盘
	Timeout     time.Duration // 单次请求超时
	Proxy       string        // 代理地址
	RateLimit   bool          // 客户端限流
	LogLevel    string
	LogFile     string
	LogJSON     bool
	SecretDB    string // badger 目录，凭证缺失时从这里读取
	SecretDBKey string // badger 加密密钥（32 字节 hex/base64）
}

// envVars OKX_* 环境变量
//
// 未设置的变量保持零值/nil，不会覆盖配置文件中的值。
type envVars struct {
	APIKey      string         `envconfig:"OKX_API_KEY"`
	SecretKey   string         `envconfig:"OKX_SECRET_KEY"`
	Passphrase  string         `envconfig:"OKX_PASSPHRASE"`
	APIURL      string         `envconfig:"OKX_API_URL"`
	Simulated   *bool          `envconfig:"OKX_SIMULATED"`
	Timeout     *time.Duration `envconfig:"OKX_TIMEOUT"`
	Proxy       string         `envconfig:"OKX_PROXY"`
	RateLimit   *bool          `envconfig:"OKX_RATE_LIMIT"`
	LogLevel    string         `envconfig:"OKX_LOG_LEVEL"`
	LogFile     string         `envconfig:"OKX_LOG_FILE"`
	LogJSON     *bool          `envconfig:"OKX_LOG_JSON"`
	SecretDB    string         `envconfig:"OKX_SECRET_DB"`
	SecretDBKey string         `envconfig:"OKX_SECRET_KEY_DB"`
	Config      string         `envconfig:"OKX_CONFIG"`
}

// ConfigFile 配置文件结构（YAML）
type ConfigFile struct {
	APIKey     string `yaml:"api_key"`
	SecretKey  string `yaml:"secret_key"`
	Passphrase string `yaml:"passphrase"`
	APIURL     string `yaml:"api_url"`
	Simulated  *bool  `yaml:"simulated"`
	Timeout    string `yaml:"timeout"` // 例如 "15s"
	Proxy      string `yaml:"proxy"`
	RateLimit  *bool  `yaml:"rate_limit"`
	Log        struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
		JSON  *bool  `yaml:"json"`
	} `yaml:"log"`
	SecretDB string `yaml:"secret_db"`
}

var configFilePath string

// SetConfigPath 设置配置文件路径
func SetConfigPath(path string) {
	configFilePath = path
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	return configFilePath
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Host:      DefaultHost,
		Timeout:   DefaultTimeout,
		RateLimit: true,
		LogLevel:  "info",
	}
}

// Load 加载配置
//
// 优先级：环境变量 > 配置文件 > 默认值。.env 文件存在时先载入环境。
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromFile(configFilePath)
}

// LoadFromFile 从指定文件加载配置；filePath 为空时读取 OKX_CONFIG
func LoadFromFile(filePath string) (*Config, error) {
	var env envVars
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}
	if filePath == "" {
		filePath = env.Config
	}

	cfg := Default()
	if filePath != "" {
		cf, err := loadConfigFile(filePath)
		if err != nil {
			return nil, err
		}
		if err := cfg.applyFile(cf); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv(&env)
	return cfg, nil
}

// loadConfigFile 加载配置文件
func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("不支持的配置文件格式: %s (支持 .yaml, .yml)", ext)
	}

	var configFile ConfigFile
	if err := yaml.Unmarshal(data, &configFile); err != nil {
		return nil, fmt.Errorf("解析 YAML 配置文件失败: %w", err)
	}
	return &configFile, nil
}

func (c *Config) applyFile(cf *ConfigFile) error {
	setString(&c.Credentials.Key, cf.APIKey)
	setString(&c.Credentials.Secret, cf.SecretKey)
	setString(&c.Credentials.Passphrase, cf.Passphrase)
	setString(&c.Host, cf.APIURL)
	setString(&c.Proxy, cf.Proxy)
	setString(&c.LogLevel, cf.Log.Level)
	setString(&c.LogFile, cf.Log.File)
	setString(&c.SecretDB, cf.SecretDB)
	setBool(&c.Simulated, cf.Simulated)
	setBool(&c.RateLimit, cf.RateLimit)
	setBool(&c.LogJSON, cf.Log.JSON)
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("timeout 格式错误: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) applyEnv(env *envVars) {
	setString(&c.Credentials.Key, env.APIKey)
	setString(&c.Credentials.Secret, env.SecretKey)
	setString(&c.Credentials.Passphrase, env.Passphrase)
	setString(&c.Host, env.APIURL)
	setString(&c.Proxy, env.Proxy)
	setString(&c.LogLevel, env.LogLevel)
	setString(&c.LogFile, env.LogFile)
	setString(&c.SecretDB, env.SecretDB)
	setString(&c.SecretDBKey, env.SecretDBKey)
	setBool(&c.Simulated, env.Simulated)
	setBool(&c.RateLimit, env.RateLimit)
	setBool(&c.LogJSON, env.LogJSON)
	if env.Timeout != nil {
		c.Timeout = *env.Timeout
	}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// ResolveCredentials 凭证不完整时从 secret store 补齐
func (c *Config) ResolveCredentials() error {
	if c.Credentials.Complete() || c.SecretDB == "" {
		return nil
	}

	key, err := secretstore.ParseKey(c.SecretDBKey)
	if err != nil {
		return fmt.Errorf("OKX_SECRET_KEY_DB 无效: %w", err)
	}
	store, err := secretstore.Open(secretstore.OpenOptions{Path: c.SecretDB, EncryptionKey: key, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("打开 secret store 失败: %w", err)
	}
	defer store.Close()

	fill := func(dst *string, name string) error {
		if *dst != "" {
			return nil
		}
		v, ok, err := store.GetString(name)
		if err != nil {
			return fmt.Errorf("读取 %s 失败: %w", name, err)
		}
		if ok {
			*dst = v
		}
		return nil
	}
	if err := fill(&c.Credentials.Key, SecretAPIKey); err != nil {
		return err
	}
	if err := fill(&c.Credentials.Secret, SecretSecretKey); err != nil {
		return err
	}
	return fill(&c.Credentials.Passphrase, SecretPassphraseKey)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Credentials.Key == "" {
		return fmt.Errorf("OKX_API_KEY 未配置")
	}
	if c.Credentials.Secret == "" {
		return fmt.Errorf("OKX_SECRET_KEY 未配置")
	}
	if c.Credentials.Passphrase == "" {
		return fmt.Errorf("OKX_PASSPHRASE 未配置")
	}

	u, err := url.Parse(c.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("OKX_API_URL 无效: %q", c.Host)
	}
	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			return fmt.Errorf("OKX_PROXY 无效: %w", err)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OKX_TIMEOUT 必须大于 0")
	}
	return nil
}
