package internal

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/contractviewer/internal/api"
	"github.com/starford/contractviewer/internal/storage"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Storage drivers.
const (
	StorageDropbox = "dropbox"
	StorageLocal   = "local"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Storage StorageConfig     `yaml:"storage"`
	Fetch   FetchConfig       `yaml:"fetch"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Fetch.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StorageConfig selects where the stored contract document lives.
type StorageConfig struct {
	Driver  string        `yaml:"driver"`
	Dropbox DropboxConfig `yaml:"dropbox"`
	Local   LocalConfig   `yaml:"local"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = StorageDropbox
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(StorageDropbox, StorageLocal)),
	); err != nil {
		return err
	}
	switch c.Driver {
	case StorageDropbox:
		return c.Dropbox.Validate()
	default:
		return c.Local.Validate()
	}
}

// DropboxConfig holds the app credentials used to mint short-lived access
// tokens from a long-lived refresh token.
type DropboxConfig struct {
	AppKey       string `yaml:"app_key"`
	AppSecret    string `yaml:"app_secret"`
	RefreshToken string `yaml:"refresh_token"`
}

// Validate validates the Dropbox configuration. Credentials may be left out
// entirely, in which case every fetch fails with the token error; a partial
// set is rejected.
func (c *DropboxConfig) Validate() error {
	partial := c.AppKey != "" || c.AppSecret != "" || c.RefreshToken != ""
	return validation.ValidateStruct(c,
		validation.Field(&c.AppKey, validation.When(partial, validation.Required)),
		validation.Field(&c.AppSecret, validation.When(partial, validation.Required)),
		validation.Field(&c.RefreshToken, validation.When(partial, validation.Required)),
	)
}

// Configured reports whether every credential is set.
func (c *DropboxConfig) Configured() bool {
	return c.AppKey != "" && c.AppSecret != "" && c.RefreshToken != ""
}

// Credentials returns the storage-layer form of the configuration.
func (c *DropboxConfig) Credentials() storage.DropboxCredentials {
	return storage.DropboxCredentials{AppKey: c.AppKey, AppSecret: c.AppSecret, RefreshToken: c.RefreshToken}
}

// LocalConfig points at a directory used in place of Dropbox.
type LocalConfig struct {
	Root  string `yaml:"root"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the local storage configuration.
func (c *LocalConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
	)
}

// FetchConfig configures the storage fetch proxy.
type FetchConfig struct {
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the fetch configuration.
func (c *FetchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// Handler returns the proxy settings in the form the api package takes.
func (c *FetchConfig) Handler() api.FetchConfig {
	return api.FetchConfig{Path: c.Path, Timeout: c.Timeout}
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
// Dropbox credentials, the document path and the port are seeded from the
// environment so the proxy runs without a config file.
func NewDefaultConfig() *Config {
	cfg := &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Storage: StorageConfig{
			Driver: envOr("STORAGE_DRIVER", StorageDropbox),
			Dropbox: DropboxConfig{
				AppKey:       os.Getenv("DROPBOX_APP_KEY"),
				AppSecret:    os.Getenv("DROPBOX_APP_SECRET"),
				RefreshToken: os.Getenv("DROPBOX_REFRESH_TOKEN"),
			},
			Local: LocalConfig{
				Root:  envOr("STORAGE_LOCAL_ROOT", "./data"),
				Watch: true,
			},
		},
		Fetch: FetchConfig{
			Path:    envOr("DROPBOX_JSON_PATH", api.DefaultFetchPath),
			Timeout: api.DefaultFetchTimeout,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
	if port, err := strconv.Atoi(os.Getenv("APP_PORT")); err == nil {
		cfg.App.HTTP.Port = port
	}
	if lvl := os.Getenv("APP_LOG_LEVEL"); lvl != "" {
		_ = cfg.App.LogLevel.UnmarshalText([]byte(lvl))
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
