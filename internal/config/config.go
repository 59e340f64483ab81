package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/authwire/internal/provider"
)

// ProviderCredentials is the static client registration of one identity provider.
type ProviderCredentials struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	CallbackURL  string   `yaml:"callback_url"` // si vacío => <server.base_url>/v1/auth/<provider>/callback
	Scopes       []string `yaml:"scopes"`

	// Microsoft: Azure AD tenant ("common" por defecto).
	Tenant string `yaml:"tenant"`
	// OIDC: issuer para discovery.
	Issuer string `yaml:"issuer"`
}

type Config struct {
	App struct {
		// dev | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr         string        `yaml:"addr"`
		BaseURL      string        `yaml:"base_url"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		// IPs o CIDRs de proxies cuyo X-Forwarded-For se respeta.
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`

	Storage struct {
		// postgres | memory
		InfraStore string `yaml:"infra_store"`
		DSN        string `yaml:"dsn"`
		MaxConns   int32  `yaml:"max_conns"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Auth struct {
		// Proveedores habilitados al arrancar el proceso (StaticProviderConfig).
		AllowedProviders []string `yaml:"allowed_providers"`
		// Ventana de frescura de la infra config leída en cada request.
		InfraConfigTTL time.Duration `yaml:"infra_config_ttl"`
		// Destino post-login cuando el cliente no manda redirect_uri.
		DefaultRedirectURL string `yaml:"default_redirect_url"`
		// Orígenes (scheme://host[:port]) a los que se puede volver con el
		// redirect_uri del state. Vacío => siempre DefaultRedirectURL.
		AllowedRedirectOrigins []string `yaml:"allowed_redirect_origins"`

		// Límite por IP para inicio y callback SSO. Max < 0 lo desactiva.
		RateLimit struct {
			Max    int           `yaml:"max"`
			Window time.Duration `yaml:"window"`
		} `yaml:"rate_limit"`

		JWT struct {
			AccessSecret  string        `yaml:"access_secret"`
			RefreshSecret string        `yaml:"refresh_secret"`
			StateSecret   string        `yaml:"state_secret"`
			StateTTL      time.Duration `yaml:"state_ttl"`
		} `yaml:"jwt"`
	} `yaml:"auth"`

	Providers struct {
		Google    ProviderCredentials `yaml:"google"`
		GitHub    ProviderCredentials `yaml:"github"`
		Microsoft ProviderCredentials `yaml:"microsoft"`
		OIDC      ProviderCredentials `yaml:"oidc"`
	} `yaml:"providers"`

	static           provider.Set
	unknownProviders []string
}

// Load lee config.yaml (si path no está vacío), aplica defaults y overrides por env.
// El resultado es inmutable: se construye una vez y se pasa por referencia.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3170"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost" + c.Server.Addr
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Storage.InfraStore == "" {
		c.Storage.InfraStore = "postgres"
	}
	if c.Storage.MaxConns == 0 {
		c.Storage.MaxConns = 4
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "authwire"
	}
	if c.Auth.InfraConfigTTL == 0 {
		c.Auth.InfraConfigTTL = 30 * time.Second
	}
	if c.Auth.RateLimit.Max == 0 {
		c.Auth.RateLimit.Max = 30
	}
	if c.Auth.RateLimit.Window == 0 {
		c.Auth.RateLimit.Window = time.Minute
	}
	if c.Auth.JWT.RefreshSecret == "" {
		c.Auth.JWT.RefreshSecret = c.Auth.JWT.AccessSecret
	}
	if c.Auth.JWT.StateSecret == "" {
		c.Auth.JWT.StateSecret = c.Auth.JWT.AccessSecret
	}
	if c.Auth.JWT.StateTTL == 0 {
		c.Auth.JWT.StateTTL = 10 * time.Minute
	}
	if c.Providers.Microsoft.Tenant == "" {
		c.Providers.Microsoft.Tenant = "common"
	}
}

// Validate parsea la lista estática de proveedores y chequea valores críticos.
func (c *Config) Validate() error {
	c.static, c.unknownProviders = provider.ParseKnown(c.Auth.AllowedProviders)

	if strings.TrimSpace(c.Auth.JWT.AccessSecret) == "" {
		return errors.New("config: auth.jwt.access_secret (JWT_SECRET) is required")
	}
	switch c.Storage.InfraStore {
	case "postgres":
		if c.Storage.DSN == "" {
			return errors.New("config: storage.dsn (DATABASE_URL) is required for infra_store=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("config: unknown storage.infra_store %q", c.Storage.InfraStore)
	}
	for _, o := range c.Auth.AllowedRedirectOrigins {
		u, err := url.Parse(strings.TrimSpace(o))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: auth.allowed_redirect_origins: invalid origin %q", o)
		}
	}
	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown cache.kind %q", c.Cache.Kind)
	}
	return nil
}

// StaticProviders devuelve los proveedores habilitados al arrancar.
func (c *Config) StaticProviders() provider.Set { return c.static }

// UnknownProviders lista los nombres de auth.allowed_providers que no
// corresponden a ningún proveedor; se ignoran.
func (c *Config) UnknownProviders() []string { return c.unknownProviders }

// Credentials devuelve la registración del proveedor con el callback resuelto.
// LOCAL no tiene credenciales externas.
func (c *Config) Credentials(id provider.ID) ProviderCredentials {
	var pc ProviderCredentials
	switch id {
	case provider.Google:
		pc = c.Providers.Google
	case provider.GitHub:
		pc = c.Providers.GitHub
	case provider.Microsoft:
		pc = c.Providers.Microsoft
	case provider.OIDC:
		pc = c.Providers.OIDC
	default:
		return pc
	}
	if pc.CallbackURL == "" {
		pc.CallbackURL = c.Server.BaseURL + "/v1/auth/" + id.Lower() + "/callback"
	}
	pc.Scopes = append([]string(nil), pc.Scopes...)
	return pc
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

func envCredentials(prefix string, pc *ProviderCredentials) {
	if v, ok := getEnvStr(prefix + "_CLIENT_ID"); ok {
		pc.ClientID = v
	}
	if v, ok := getEnvStr(prefix + "_CLIENT_SECRET"); ok {
		pc.ClientSecret = v
	}
	if v, ok := getEnvStr(prefix + "_CALLBACK_URL"); ok {
		pc.CallbackURL = v
	}
	if v, ok := getEnvCSV(prefix + "_SCOPE"); ok {
		pc.Scopes = v
	}
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("SERVER_BASE_URL"); ok {
		c.Server.BaseURL = v
	}
	if v, ok := getEnvDur("SERVER_READ_TIMEOUT"); ok {
		c.Server.ReadTimeout = v
	}
	if v, ok := getEnvDur("SERVER_WRITE_TIMEOUT"); ok {
		c.Server.WriteTimeout = v
	}

	// STORAGE
	if v, ok := getEnvStr("INFRA_STORE"); ok {
		c.Storage.InfraStore = strings.ToLower(v)
	}
	if v, ok := getEnvStr("DATABASE_URL"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("DATABASE_MAX_CONNS"); ok {
		c.Storage.MaxConns = int32(v)
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// AUTH - soporta el nombre legacy con prefijo VITE_
	if v, ok := getEnvCSV("VITE_ALLOWED_AUTH_PROVIDERS"); ok {
		c.Auth.AllowedProviders = v
	}
	if v, ok := getEnvCSV("ALLOWED_AUTH_PROVIDERS"); ok {
		c.Auth.AllowedProviders = v
	}
	if v, ok := getEnvDur("INFRA_CONFIG_TTL"); ok {
		c.Auth.InfraConfigTTL = v
	}
	if v, ok := getEnvStr("REDIRECT_URL"); ok {
		c.Auth.DefaultRedirectURL = v
	}
	if v, ok := getEnvCSV("ALLOWED_REDIRECT_ORIGINS"); ok {
		c.Auth.AllowedRedirectOrigins = v
	}
	if v, ok := getEnvCSV("TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = v
	}
	if v, ok := getEnvInt("AUTH_RATE_LIMIT_MAX"); ok {
		c.Auth.RateLimit.Max = v
	}
	if v, ok := getEnvDur("AUTH_RATE_LIMIT_WINDOW"); ok {
		c.Auth.RateLimit.Window = v
	}
	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.Auth.JWT.AccessSecret = v
	}
	if v, ok := getEnvStr("JWT_REFRESH_SECRET"); ok {
		c.Auth.JWT.RefreshSecret = v
	}
	if v, ok := getEnvStr("SESSION_SECRET"); ok {
		c.Auth.JWT.StateSecret = v
	}
	if v, ok := getEnvDur("AUTH_STATE_TTL"); ok {
		c.Auth.JWT.StateTTL = v
	}

	// PROVIDERS
	envCredentials("GOOGLE", &c.Providers.Google)
	envCredentials("GITHUB", &c.Providers.GitHub)
	envCredentials("MICROSOFT", &c.Providers.Microsoft)
	envCredentials("OIDC", &c.Providers.OIDC)
	if v, ok := getEnvStr("MICROSOFT_TENANT"); ok {
		c.Providers.Microsoft.Tenant = v
	}
	if v, ok := getEnvStr("OIDC_ISSUER"); ok {
		c.Providers.OIDC.Issuer = v
	}
}
