package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultListenAddr   = ":3000"
	DefaultStaticDir    = "./static"
	DefaultCookieName   = "tlj_sess"
	DefaultCookieMaxAge = 30 * 24 * time.Hour
	DefaultRedirectURL  = "http://localhost:3000/auth/callback"
	DefaultDBDriver     = "sqlite"
	DefaultSQLiteDSN    = "hub.db"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"

	TokenStoreDatabase = "database"
	TokenStoreKV       = "kv"
)

// envBindings maps config keys to the environment variables the site has
// always been deployed with.
var envBindings = map[string]string{
	"debug":                 "DEBUG",
	"listenaddr":            "PORT",
	"redisurl":              "REDIS_URL",
	"discorduserid":         "DISCORD_USER_ID",
	"session.secret":        "SESSION_SECRET",
	"database.driver":       "DATABASE_DRIVER",
	"database.dsn":          "DATABASE_URL",
	"spotify.clientid":      "SPOTIFY_CLIENT_ID",
	"spotify.clientsecret":  "SPOTIFY_CLIENT_SECRET",
	"spotify.redirecturl":   "SPOTIFY_REDIRECT_URI",
	"spotify.authurl":       "SPOTIFY_AUTH_URL",
	"spotify.tokenurl":      "SPOTIFY_TOKEN_URL",
	"spotify.apibaseurl":    "SPOTIFY_API_BASE_URL",
	"tokenstore":            "TOKEN_STORE",
	"storage":               "STORAGE",
	"staticdir":             "STATIC_DIR",
	"session.cookiesecure":  "COOKIE_SECURE",
	"session.sessionmaxage": "SESSION_MAX_AGE",
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Dsn             string        `yaml:"dsn"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	ConnMaxIdleTime time.Duration `yaml:"connMaxIdleTime"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type SessionConfig struct {
	Secret        string        `yaml:"secret"`
	SessionMaxAge time.Duration `yaml:"sessionMaxAge"`
	CookieName    string        `yaml:"cookieName"`
	CookieSecure  bool          `yaml:"cookieSecure"`
}

type SpotifyConfig struct {
	ClientID     string   `yaml:"clientID"`
	ClientSecret string   `yaml:"clientSecret"`
	RedirectURL  string   `yaml:"redirectURL"`
	Scope        []string `yaml:"scope"`
	AuthURL      string   `yaml:"authURL"`
	TokenURL     string   `yaml:"tokenURL"`
	APIBaseURL   string   `yaml:"apiBaseURL"`
}

// StaffAccount is an operator allowed to manage the Spotify connection.
// PasswordHash is a bcrypt hash.
type StaffAccount struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"`
}

type Config struct {
	Debug         bool           `yaml:"debug"`
	AppName       string         `yaml:"appName"`
	ListenAddr    string         `yaml:"listenAddr"`
	StaticDir     string         `yaml:"staticDir"`
	TemplateDir   string         `yaml:"templateDir"`
	AllowOrigins  []string       `yaml:"allowOrigins"`
	Storage       string         `yaml:"storage"`
	RedisURL      string         `yaml:"redisURL"`
	TokenStore    string         `yaml:"tokenStore"`
	DiscordUserID string         `yaml:"discordUserID"`
	Session       SessionConfig  `yaml:"session"`
	Database      DatabaseConfig `yaml:"database"`
	Spotify       SpotifyConfig  `yaml:"spotify"`
	Staff         []StaffAccount `yaml:"staff"`
}

func (c *Config) Sanitize() error {
	if c.AppName == "" {
		c.AppName = "ThatLegendJack"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	} else if !strings.Contains(c.ListenAddr, ":") {
		// PORT only carries the port number
		c.ListenAddr = ":" + c.ListenAddr
	}
	if c.StaticDir == "" {
		c.StaticDir = DefaultStaticDir
	}
	if c.Session.SessionMaxAge == 0 {
		c.Session.SessionMaxAge = DefaultCookieMaxAge
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	if c.Spotify.RedirectURL == "" {
		c.Spotify.RedirectURL = DefaultRedirectURL
	}

	if c.Storage == "" {
		c.Storage = StorageMemory
		if c.RedisURL != "" {
			c.Storage = StorageRedis
		}
	}
	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("redisURL is required for redis storage")
		}
	default:
		return fmt.Errorf("unsupported storage: %s", c.Storage)
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDBDriver
	}
	if c.Database.Dsn == "" && c.Database.Driver == DefaultDBDriver {
		c.Database.Dsn = DefaultSQLiteDSN
	}

	if c.TokenStore == "" {
		c.TokenStore = TokenStoreDatabase
	}
	switch c.TokenStore {
	case TokenStoreDatabase:
		if c.Database.Dsn == "" {
			return fmt.Errorf("database dsn is required for %s driver", c.Database.Driver)
		}
	case TokenStoreKV:
	default:
		return fmt.Errorf("unsupported token store: %s", c.TokenStore)
	}

	for i, account := range c.Staff {
		if account.Username == "" || account.PasswordHash == "" {
			return fmt.Errorf("staff account #%d requires username and passwordHash", i)
		}
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("yaml")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// the site can run purely from environment variables
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
