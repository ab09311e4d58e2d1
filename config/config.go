package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
	"github.com/tipovacka-hokej/tipovacka/internal/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Tournament    TournamentConfig    `yaml:"tournament"`
	Queue         QueueConfig         `yaml:"queue"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL        string `yaml:"url"`
	QueueGroup string `yaml:"queue_group"`
}

// HTTPConfig holds the public API listener settings.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // json|text
	MetricsAddress string `yaml:"metrics_address"`
}

// TournamentConfig describes the running contest.
type TournamentConfig struct {
	TimeZone         string         `yaml:"time_zone"`
	EntryFee         int            `yaml:"entry_fee"`
	LongTermDeadline string         `yaml:"long_term_deadline"`
	OfficialWinner   string         `yaml:"official_winner"`
	OfficialMedals   []string       `yaml:"official_medals"`
	WorkbookPath     string         `yaml:"workbook_path"`
	Rules            RulesOverrides `yaml:"rules"`
}

// RulesOverrides replaces individual scoring constants. Unset fields keep their defaults.
type RulesOverrides struct {
	MaxBasePoints             *int     `yaml:"max_base_points"`
	ExactScoreBonus           *int     `yaml:"exact_score_bonus"`
	PlayoffMultiplier         *float64 `yaml:"playoff_multiplier"`
	NationalTeamBonus         *int     `yaml:"national_team_bonus"`
	WinnerPoints              *int     `yaml:"winner_points"`
	MedalPoints               *int     `yaml:"medal_points"`
	SharpshooterBonus         *int     `yaml:"sharpshooter_bonus"`
	DailyBestPerMatch         *float64 `yaml:"daily_best_per_match"`
	UnderdogThreshold         *float64 `yaml:"underdog_threshold"`
	NationalTeamKeywords      []string `yaml:"national_team_keywords"`
	DailyBestIncludesOvertime *bool    `yaml:"daily_best_includes_overtime"`
}

// QueueConfig controls the background job queue.
type QueueConfig struct {
	Enabled bool `yaml:"enabled"`
	// DailyBestInterval is how often yesterday's Daily Best is announced.
	DailyBestInterval time.Duration `yaml:"daily_best_interval"`
}

const (
	defaultTimeZone     = "Europe/Prague"
	defaultEntryFee     = 150
	defaultHTTPAddr     = ":8080"
	defaultQueueGroup   = "tipovacka"
	defaultDailyBestRun = 24 * time.Hour
)

// LoadConfig loads the configuration from a YAML file. A .env file in the working
// directory is read first so its values take part in the overrides.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(filename)
	if err != nil {
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnv(&cfg)
	cfg.applyDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	applyEnv(&cfg)

	if cfg.Postgres.DSN == "" && cfg.Tournament.WorkbookPath == "" {
		return nil, fmt.Errorf("neither DATABASE_URL nor WORKBOOK_PATH environment variable set")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_QUEUE_GROUP"); v != "" {
		cfg.NATS.QueueGroup = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.HTTP.RateLimit = f
		}
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateBurst = n
		}
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("TOURNAMENT_TIME_ZONE"); v != "" {
		cfg.Tournament.TimeZone = v
	}
	if v := os.Getenv("ENTRY_FEE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tournament.EntryFee = n
		}
	}
	if v := os.Getenv("LONG_TERM_DEADLINE"); v != "" {
		cfg.Tournament.LongTermDeadline = v
	}
	if v := os.Getenv("OFFICIAL_WINNER"); v != "" {
		cfg.Tournament.OfficialWinner = v
	}
	if v := os.Getenv("OFFICIAL_MEDALS"); v != "" {
		cfg.Tournament.OfficialMedals = splitList(v)
	}
	if v := os.Getenv("WORKBOOK_PATH"); v != "" {
		cfg.Tournament.WorkbookPath = v
	}
	if v := os.Getenv("QUEUE_ENABLED"); v != "" {
		cfg.Queue.Enabled = v == "true"
	}
	if v := os.Getenv("DAILY_BEST_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Queue.DailyBestInterval = d
		}
	}
}

func (c *Config) applyDefaults() {
	if c.NATS.QueueGroup == "" {
		c.NATS.QueueGroup = defaultQueueGroup
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = defaultHTTPAddr
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = 5
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 10
	}
	if c.Tournament.TimeZone == "" {
		c.Tournament.TimeZone = defaultTimeZone
	}
	if c.Tournament.EntryFee <= 0 {
		c.Tournament.EntryFee = defaultEntryFee
	}
	if c.Queue.DailyBestInterval <= 0 {
		c.Queue.DailyBestInterval = defaultDailyBestRun
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Location resolves the tournament time zone, falling back to UTC when the
// zone database does not know it.
func (t TournamentConfig) Location() *time.Location {
	loc, err := time.LoadLocation(t.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Official returns the configured official results. Medals beyond the third are ignored.
func (t TournamentConfig) Official() scoredomain.OfficialResults {
	out := scoredomain.OfficialResults{Winner: strings.TrimSpace(t.OfficialWinner)}
	for i, m := range t.OfficialMedals {
		if i >= len(out.Medals) {
			break
		}
		out.Medals[i] = strings.TrimSpace(m)
	}
	return out
}

// Apply returns base with every set override replaced.
func (o RulesOverrides) Apply(base scoredomain.Rules) scoredomain.Rules {
	r := base
	if o.MaxBasePoints != nil {
		r.MaxBasePoints = *o.MaxBasePoints
	}
	if o.ExactScoreBonus != nil {
		r.ExactScoreBonus = *o.ExactScoreBonus
	}
	if o.PlayoffMultiplier != nil {
		r.PlayoffMultiplier = *o.PlayoffMultiplier
	}
	if o.NationalTeamBonus != nil {
		r.NationalTeamBonus = *o.NationalTeamBonus
	}
	if o.WinnerPoints != nil {
		r.WinnerPoints = *o.WinnerPoints
	}
	if o.MedalPoints != nil {
		r.MedalPoints = *o.MedalPoints
	}
	if o.SharpshooterBonus != nil {
		r.SharpshooterBonus = *o.SharpshooterBonus
	}
	if o.DailyBestPerMatch != nil {
		r.DailyBestPerMatch = *o.DailyBestPerMatch
	}
	if o.UnderdogThreshold != nil {
		r.UnderdogThreshold = *o.UnderdogThreshold
	}
	if len(o.NationalTeamKeywords) > 0 {
		r.NationalTeamKeywords = o.NationalTeamKeywords
	}
	if o.DailyBestIncludesOvertime != nil {
		r.DailyBestIncludesOvertime = *o.DailyBestIncludesOvertime
	}
	return r
}

// Rules returns the scoring rules in effect.
func (c *Config) Rules() scoredomain.Rules {
	return c.Tournament.Rules.Apply(scoredomain.DefaultRules())
}

// ToObsConfig maps the observability section onto the logger/tracer setup.
func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName: "tipovacka",
		Environment: appCfg.Observability.Environment,
		LogLevel:    appCfg.Observability.LogLevel,
		LogFormat:   appCfg.Observability.LogFormat,
	}
}
