// Package config holds the settings of a wikirank run and the rules that
// make them valid.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const (
	// DefaultBaseURL is filled with the language code to build the wiki host.
	DefaultBaseURL   = "https://%s.wikipedia.org"
	DefaultUserAgent = "wiki_analysis/0.3"

	FormatText     = "text"
	FormatMarkdown = "markdown"

	maxLanguageLen = 32
)

var languagePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

type Config struct {
	// Language is the wiki edition code. It names the store tables too.
	Language string `mapstructure:"language" yaml:"language,omitempty"`

	Database Database `mapstructure:"database" yaml:"database"`
	Crawler  Crawler  `mapstructure:"crawler" yaml:"crawler"`
	Ranker   Ranker   `mapstructure:"ranker" yaml:"ranker"`
	Report   Report   `mapstructure:"report" yaml:"report"`
	Log      Log      `mapstructure:"log" yaml:"log"`
}

// Database selects the graph store. When URI is empty a PostgreSQL URI is
// assembled from the remaining fields.
type Database struct {
	URI      string `mapstructure:"uri" yaml:"uri,omitempty"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	DBName   string `mapstructure:"dbname" yaml:"dbname"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

type Crawler struct {
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	MaxBodySize       int64         `mapstructure:"max_body_size" yaml:"max_body_size"`
}

type Ranker struct {
	DampingFactor float64 `mapstructure:"damping_factor" yaml:"damping_factor"`
	Iterations    int     `mapstructure:"iterations" yaml:"iterations"`
	Top           int     `mapstructure:"top" yaml:"top"`
	Dangling      string  `mapstructure:"dangling" yaml:"dangling"`
	Workers       int     `mapstructure:"workers" yaml:"workers"`
}

type Report struct {
	Format string `mapstructure:"format" yaml:"format"`
}

type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		Database: Database{
			Host:     "localhost",
			Port:     5432,
			DBName:   "wiki_analysis",
			Username: "wiki",
			Password: "wiki",
			SSLMode:  "disable",
		},
		Crawler: Crawler{
			BaseURL:     DefaultBaseURL,
			UserAgent:   DefaultUserAgent,
			Timeout:     30 * time.Second,
			MaxBodySize: 8 << 20,
		},
		Ranker: Ranker{
			DampingFactor: 0.85,
			Iterations:    20,
			Top:           25,
			Dangling:      "zero",
			Workers:       runtime.NumCPU(),
		},
		Report: Report{Format: FormatText},
		Log:    Log{Level: "info"},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if !ValidLanguage(c.Language) {
		err = multierror.Append(err, xerrors.Errorf("invalid language code %q", c.Language))
	}
	if c.Crawler.Timeout <= 0 {
		err = multierror.Append(err, xerrors.Errorf("crawler timeout must be positive; got %s", c.Crawler.Timeout))
	}
	if c.Crawler.RequestsPerSecond < 0 {
		err = multierror.Append(err, xerrors.Errorf("crawler requests per second must not be negative"))
	}
	if c.Ranker.DampingFactor <= 0 || c.Ranker.DampingFactor >= 1 {
		err = multierror.Append(err, xerrors.Errorf("damping factor must be in (0, 1); got %v", c.Ranker.DampingFactor))
	}
	if c.Ranker.Iterations < 1 {
		err = multierror.Append(err, xerrors.Errorf("iterations must be at least 1; got %d", c.Ranker.Iterations))
	}
	if c.Ranker.Top < 1 {
		err = multierror.Append(err, xerrors.Errorf("top must be at least 1; got %d", c.Ranker.Top))
	}
	switch c.Ranker.Dangling {
	case "zero", "redistribute":
	default:
		err = multierror.Append(err, xerrors.Errorf("unknown dangling policy %q", c.Ranker.Dangling))
	}
	switch c.Report.Format {
	case FormatText, FormatMarkdown:
	default:
		err = multierror.Append(err, xerrors.Errorf("unknown report format %q", c.Report.Format))
	}
	if _, lErr := logrus.ParseLevel(c.Log.Level); lErr != nil {
		err = multierror.Append(err, xerrors.Errorf("log level: %w", lErr))
	}
	return err
}

// ValidLanguage reports whether code can name a wiki edition and its tables.
func ValidLanguage(code string) bool {
	return len(code) <= maxLanguageLen && languagePattern.MatchString(code)
}

// StoreURI returns the URI of the graph store.
func (c *Config) StoreURI() string {
	if c.Database.URI != "" {
		return c.Database.URI
	}

	db := c.Database
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(db.Username, db.Password),
		Host:     db.Host + ":" + strconv.Itoa(db.Port),
		Path:     "/" + db.DBName,
		RawQuery: url.Values{"sslmode": []string{db.SSLMode}}.Encode(),
	}
	return u.String()
}

// WikiURL returns the host of the wiki edition selected by Language.
func (c *Config) WikiURL() string {
	base := c.Crawler.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if strings.Contains(base, "%s") {
		return fmt.Sprintf(base, c.Language)
	}
	return base
}
