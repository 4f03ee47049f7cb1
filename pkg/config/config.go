package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// maxTopSpeakers is the largest ranked speaker list offered for selection.
const maxTopSpeakers = 50

type Config struct {
	Port             string
	MaxConcurrent    int
	RequestTimeout   time.Duration
	FetchTimeout     time.Duration
	MaxDocumentBytes int64
	TopSpeakers      int
	DocumentSource   string
	CatalogPath      string
	GroupsPath       string
	PosTaggerURL     string
	PosTaggerTimeout time.Duration
	LogLevel         string
	LogFormat        string
}

// setting is one configuration key. The viper key doubles as the
// environment variable name; flag is the optional command-line flag bound
// to it.
type setting struct {
	key  string
	flag string
	def  string
}

var settings = []setting{
	{"PORT", "port", "8080"},
	{"MAX_CONCURRENT", "max-concurrent", "4"},
	{"REQUEST_TIMEOUT", "request-timeout", "60s"},
	{"FETCH_TIMEOUT", "fetch-timeout", "90s"},
	{"MAX_DOCUMENT_BYTES", "max-document-bytes", strconv.Itoa(50 << 20)},
	{"TOP_SPEAKERS", "top", "50"},
	{"DOCUMENT_SOURCE", "source", ""},
	{"CATALOG_PATH", "catalog", "catalog.csv"},
	{"GROUPS_PATH", "groups", "groups.yaml"},
	{"POS_TAGGER_URL", "pos-tagger", ""},
	{"POS_TAGGER_TIMEOUT", "", "5s"},
	{"LOG_LEVEL", "log-level", "info"},
	{"LOG_FORMAT", "", "text"},
}

// Load resolves configuration from, in increasing precedence: defaults, the
// file named by CONFIG_FILE, a .env file, the environment and flags that
// were set explicitly. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	log.Debugln("Loading configuration")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if flags == nil || s.flag == "" {
			continue
		}
		if f := flags.Lookup(s.flag); f != nil {
			if err := v.BindPFlag(s.key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", s.flag, err)
			}
		}
	}

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
		log.Debugf("CONFIG_FILE: %s", file)
	}

	cfg := &Config{
		Port:             getString(v, "PORT"),
		MaxConcurrent:    getInt(v, "MAX_CONCURRENT"),
		RequestTimeout:   getDuration(v, "REQUEST_TIMEOUT"),
		FetchTimeout:     getDuration(v, "FETCH_TIMEOUT"),
		MaxDocumentBytes: int64(getInt(v, "MAX_DOCUMENT_BYTES")),
		TopSpeakers:      getInt(v, "TOP_SPEAKERS"),
		DocumentSource:   getString(v, "DOCUMENT_SOURCE"),
		CatalogPath:      getString(v, "CATALOG_PATH"),
		GroupsPath:       getString(v, "GROUPS_PATH"),
		PosTaggerURL:     getString(v, "POS_TAGGER_URL"),
		PosTaggerTimeout: getDuration(v, "POS_TAGGER_TIMEOUT"),
		LogLevel:         strings.ToLower(getString(v, "LOG_LEVEL")),
		LogFormat:        strings.ToLower(getString(v, "LOG_FORMAT")),
	}
	if cfg.TopSpeakers <= 0 || cfg.TopSpeakers > maxTopSpeakers {
		log.Warnf("TOP_SPEAKERS must be between 1 and %d, using %d", maxTopSpeakers, maxTopSpeakers)
		cfg.TopSpeakers = maxTopSpeakers
	}
	if cfg.MaxConcurrent <= 0 {
		log.Warnf("MAX_CONCURRENT must be positive, using 1")
		cfg.MaxConcurrent = 1
	}
	return cfg, nil
}

func defaultOf(key string) string {
	for _, s := range settings {
		if s.key == key {
			return s.def
		}
	}
	return ""
}

func getString(v *viper.Viper, key string) string {
	value := strings.TrimSpace(v.GetString(key))
	log.Debugf("%s: %s", key, value)
	return value
}

func getInt(v *viper.Viper, key string) int {
	valueStr := getString(v, key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		def, _ := strconv.Atoi(defaultOf(key))
		log.Warnf("Failed to parse %s as integer: %v, using default: %d", key, err, def)
		return def
	}
	return value
}

func getDuration(v *viper.Viper, key string) time.Duration {
	valueStr := getString(v, key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		def, _ := time.ParseDuration(defaultOf(key))
		log.Warnf("Failed to parse %s as duration: %v, using default: %v", key, err, def)
		return def
	}
	return value
}

// ConfigureLogging applies the level and format to the standard logger.
func (c *Config) ConfigureLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	log.SetLevel(level)

	switch c.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: want text or json", c.LogFormat)
	}
	return nil
}

// LogSummary logs the resolved configuration.
func (c *Config) LogSummary() {
	tagger := "lexicon"
	if c.PosTaggerURL != "" {
		tagger = c.PosTaggerURL
	}
	log.WithFields(log.Fields{
		"port":           c.Port,
		"max_concurrent": c.MaxConcurrent,
		"fetch_timeout":  c.FetchTimeout,
		"top_speakers":   c.TopSpeakers,
		"catalog":        c.CatalogPath,
		"groups":         c.GroupsPath,
		"pos_tagger":     tagger,
	}).Info("Configuration loaded")
}
