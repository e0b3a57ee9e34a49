package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"
)

const (
	appName    = "wikirank"
	fileName   = "config.yml"
	envPrefix  = "WIKIRANK"
	dotEnvFile = ".env"
)

// ErrConfigNotFound is returned when an explicitly requested config file
// does not exist.
var ErrConfigNotFound = xerrors.New("config file not found")

// Loader assembles a Config from defaults, a YAML file, the .env file,
// environment variables and command line flags, in increasing priority.
type Loader struct {
	// Path of the config file. When empty the default locations are tried.
	Path string

	// DotEnv is the path of the .env file. It may be absent.
	DotEnv string

	// Flags maps config keys to the command line flags that override them.
	Flags map[string]*pflag.Flag
}

// Load is a shortcut for a Loader reading path with no flag bindings.
func Load(path string) (*Config, error) {
	return (&Loader{Path: path}).Load()
}

func (l *Loader) Load() (*Config, error) {
	if err := l.loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Defaults())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range l.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, xerrors.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	path, err := l.configFile()
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, xerrors.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, xerrors.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// configFile returns the file to read or an empty string when there is
// none.
func (l *Loader) configFile() (string, error) {
	if l.Path != "" {
		if _, err := os.Stat(l.Path); err != nil {
			if os.IsNotExist(err) {
				return "", xerrors.Errorf("%s: %w", l.Path, ErrConfigNotFound)
			}
			return "", xerrors.Errorf("stat config %s: %w", l.Path, err)
		}
		return l.Path, nil
	}

	for _, candidate := range []string{fileName, filepath.Join(xdg.ConfigHome, appName, fileName)} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

func (l *Loader) loadDotEnv() error {
	path := l.DotEnv
	if path == "" {
		path = dotEnvFile
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return xerrors.Errorf("load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("language", cfg.Language)

	v.SetDefault("database.uri", cfg.Database.URI)
	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.dbname", cfg.Database.DBName)
	v.SetDefault("database.username", cfg.Database.Username)
	v.SetDefault("database.password", cfg.Database.Password)
	v.SetDefault("database.sslmode", cfg.Database.SSLMode)

	v.SetDefault("crawler.base_url", cfg.Crawler.BaseURL)
	v.SetDefault("crawler.user_agent", cfg.Crawler.UserAgent)
	v.SetDefault("crawler.timeout", cfg.Crawler.Timeout)
	v.SetDefault("crawler.requests_per_second", cfg.Crawler.RequestsPerSecond)
	v.SetDefault("crawler.max_body_size", cfg.Crawler.MaxBodySize)

	v.SetDefault("ranker.damping_factor", cfg.Ranker.DampingFactor)
	v.SetDefault("ranker.iterations", cfg.Ranker.Iterations)
	v.SetDefault("ranker.top", cfg.Ranker.Top)
	v.SetDefault("ranker.dangling", cfg.Ranker.Dangling)
	v.SetDefault("ranker.workers", cfg.Ranker.Workers)

	v.SetDefault("report.format", cfg.Report.Format)
	v.SetDefault("log.level", cfg.Log.Level)
}
