package chroma

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by NewConfig and DefaultConfig.
const (
	DefaultURL      = "http://localhost:8000"
	DefaultTenant   = "default_tenant"
	DefaultDatabase = "default_database"
	DefaultTimeout  = 30 * time.Second
)

// AuthMethod selects how requests are authenticated.
type AuthMethod string

const (
	// AuthNone sends no credentials.
	AuthNone AuthMethod = "none"

	// AuthToken sends a static token in TokenHeader.
	AuthToken AuthMethod = "token"

	// AuthBasic sends HTTP basic credentials.
	AuthBasic AuthMethod = "basic"
)

// TokenHeader selects the header used by AuthToken.
type TokenHeader string

const (
	// HeaderAuthorization sends "Authorization: Bearer <token>".
	HeaderAuthorization TokenHeader = "Authorization"

	// HeaderXChromaToken sends "X-Chroma-Token: <token>".
	HeaderXChromaToken TokenHeader = "X-Chroma-Token"
)

// AuthConfig holds the credentials for exactly one AuthMethod.
type AuthConfig struct {
	Method AuthMethod `yaml:"method" env:"CHROMA_AUTH_METHOD"`

	// Token and Header are used by AuthToken.
	Token  string      `yaml:"token" env:"CHROMA_AUTH_TOKEN"`
	Header TokenHeader `yaml:"header" env:"CHROMA_AUTH_HEADER"`

	// Username and Password are used by AuthBasic.
	Username string `yaml:"username" env:"CHROMA_AUTH_USERNAME"`
	Password string `yaml:"password" env:"CHROMA_AUTH_PASSWORD"`
}

// Config holds connection settings for the Chroma client.
//
// A Config is read once when the client is constructed; later changes to the
// struct have no effect on an existing client.
//
// Example (builder style):
//
//	cfg := chroma.FromURL("https://chroma.internal:8000").
//	    WithTokenAuth(os.Getenv("CHROMA_TOKEN"), chroma.HeaderXChromaToken).
//	    WithDatabase("search")
type Config struct {
	// URL is the server root, without the /api/v2 suffix.
	URL string `yaml:"url" env:"CHROMA_URL"`

	// Tenant and Database scope every collection request.
	Tenant   string `yaml:"tenant" env:"CHROMA_TENANT"`
	Database string `yaml:"database" env:"CHROMA_DATABASE"`

	Auth AuthConfig `yaml:"auth"`

	// Timeout bounds each HTTP round trip.
	Timeout time.Duration `yaml:"timeout" env:"CHROMA_HTTP_TIMEOUT_SECONDS"`

	// AllowReset must be set before Client.Reset is permitted.
	// The server enforces its own ALLOW_RESET flag as well.
	AllowReset bool `yaml:"allow_reset" env:"CHROMA_ALLOW_RESET"`

	// HeartbeatOnStart makes the fx lifecycle probe the server on start.
	HeartbeatOnStart bool `yaml:"heartbeat_on_start" env:"CHROMA_HEARTBEAT_ON_START"`

	// UserAgent is sent with every request when non-empty.
	UserAgent string `yaml:"user_agent"`
}

// DefaultConfig returns a Config pointing at a local, unauthenticated server.
func DefaultConfig() *Config {
	return &Config{
		URL:      DefaultURL,
		Tenant:   DefaultTenant,
		Database: DefaultDatabase,
		Auth:     AuthConfig{Method: AuthNone},
		Timeout:  DefaultTimeout,
	}
}

// FromURL returns a default config pre-filled with url.
func FromURL(url string) *Config {
	cfg := DefaultConfig()
	cfg.URL = url
	return cfg
}

// NewConfig reads the configuration from environment variables.
//
// CHROMA_URL takes precedence over CHROMA_HOST. When neither is set the
// client targets DefaultURL.
func NewConfig() *Config {
	cfg := DefaultConfig()

	if v := getenvFirst("CHROMA_URL", "CHROMA_HOST"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("CHROMA_TENANT"); v != "" {
		cfg.Tenant = v
	}
	if v := os.Getenv("CHROMA_DATABASE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("CHROMA_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		}
	}
	cfg.AllowReset = parseBool(os.Getenv("CHROMA_ALLOW_RESET"))
	cfg.HeartbeatOnStart = parseBool(os.Getenv("CHROMA_HEARTBEAT_ON_START"))

	switch AuthMethod(strings.ToLower(os.Getenv("CHROMA_AUTH_METHOD"))) {
	case AuthToken:
		header := TokenHeader(os.Getenv("CHROMA_AUTH_HEADER"))
		cfg.WithTokenAuth(os.Getenv("CHROMA_AUTH_TOKEN"), header)
	case AuthBasic:
		cfg.WithBasicAuth(os.Getenv("CHROMA_AUTH_USERNAME"), os.Getenv("CHROMA_AUTH_PASSWORD"))
	}

	return cfg
}

// LoadConfig reads a YAML file on top of DefaultConfig.
//
//	url: https://chroma.internal:8000
//	tenant: acme
//	database: search
//	timeout: 10s
//	auth:
//	  method: token
//	  header: X-Chroma-Token
//	  token: s3cr3t
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chroma: read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("chroma: parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is structurally usable.
// It never contacts the server.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return configError("validate config", "url cannot be empty")
	}
	u, err := url.ParseRequestURI(c.URL)
	if err != nil {
		return wrapError(KindConfiguration, "validate config", "invalid url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return configError("validate config", fmt.Sprintf("unsupported url scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return configError("validate config", "url must include a host")
	}
	if c.Tenant == "" {
		return configError("validate config", "tenant cannot be empty")
	}
	if c.Database == "" {
		return configError("validate config", "database cannot be empty")
	}
	if c.Timeout < 0 {
		return configError("validate config", "timeout cannot be negative")
	}

	switch c.Auth.Method {
	case "", AuthNone:
	case AuthToken:
		if c.Auth.Token == "" {
			return configError("validate config", "token auth requires a token")
		}
		switch c.Auth.Header {
		case "", HeaderAuthorization, HeaderXChromaToken:
		default:
			return configError("validate config", fmt.Sprintf("unsupported token header %q", c.Auth.Header))
		}
	case AuthBasic:
		if c.Auth.Username == "" {
			return configError("validate config", "basic auth requires a username")
		}
	default:
		return configError("validate config", fmt.Sprintf("unsupported auth method %q", c.Auth.Method))
	}

	return nil
}

// WithTokenAuth switches to token authentication, replacing any other method.
// An empty header selects HeaderAuthorization.
func (c *Config) WithTokenAuth(token string, header TokenHeader) *Config {
	if header == "" {
		header = HeaderAuthorization
	}
	c.Auth = AuthConfig{Method: AuthToken, Token: token, Header: header}
	return c
}

// WithBasicAuth switches to basic authentication, replacing any other method.
func (c *Config) WithBasicAuth(username, password string) *Config {
	c.Auth = AuthConfig{Method: AuthBasic, Username: username, Password: password}
	return c
}

// WithTenant selects the tenant every request is scoped to.
func (c *Config) WithTenant(tenant string) *Config {
	c.Tenant = tenant
	return c
}

// WithDatabase selects the database every request is scoped to.
func (c *Config) WithDatabase(database string) *Config {
	c.Database = database
	return c
}

// WithTimeout sets the per-request HTTP timeout.
func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

// WithAllowReset enables Client.Reset, which is refused by default.
func (c *Config) WithAllowReset(enabled bool) *Config {
	c.AllowReset = enabled
	return c
}

func getenvFirst(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
