package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"video-gallery/shared/embed"
	"video-gallery/shared/site"
)

type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Data       DataConfig       `yaml:"data"`
	Enrich     EnrichConfig     `yaml:"enrich"`
	Expiry     ExpiryConfig     `yaml:"expiry"`
	Publish    PublishConfig    `yaml:"publish"`
	Email      EmailConfig      `yaml:"email"`
	Schedule   string           `yaml:"schedule"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type SiteConfig struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	URL             string   `yaml:"url" env:"SITE_URL"`
	OutputDir       string   `yaml:"output_dir" env:"OUT_DIR"`
	AssetDir        string   `yaml:"asset_dir"`
	AssetPrefix     string   `yaml:"asset_prefix"`
	SocialImagePath string   `yaml:"social_image_path"`
	FallbackImages  []string `yaml:"fallback_images"`
	ParentHost      string   `yaml:"parent_host"`
	Port            int      `yaml:"port" env:"PORT"`
}

type DataConfig struct {
	RawPath      string   `yaml:"raw_path"`
	EnrichedPath string   `yaml:"enriched_path" env:"ENRICHED_JSON_PATH"`
	CachePath    string   `yaml:"cache_path"`
	LinkFields   []string `yaml:"link_fields" env:"VIDEO_LINK_FIELDS"`
}

type EnrichConfig struct {
	YouTubeAPIKey    string `yaml:"youtube_api_key" env:"YOUTUBE_API_KEY"`
	UseADC           bool   `yaml:"use_adc"`
	SleepMS          int    `yaml:"sleep_ms"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	UserAgent        string `yaml:"user_agent"`
	RefetchAfterDays int    `yaml:"refetch_after_days"`
}

type ExpiryConfig struct {
	MediaType string `yaml:"media_type"`
	Months    int    `yaml:"months"`
}

type PublishConfig struct {
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

const (
	defaultUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122 Safari/537.36"
	defaultLinkFields = "timestamp 1 link,timestamp 2 link"
)

// Enabled reports whether audit mail can be sent.
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.ToEmail != ""
}

// Enabled reports whether the built site should be uploaded.
func (p PublishConfig) Enabled() bool {
	return p.Bucket != ""
}

// Policy returns the expiry policy used for Twitch replays.
func (e ExpiryConfig) Policy() embed.ExpiryPolicy {
	return embed.ExpiryPolicy{MediaType: e.MediaType, Months: e.Months}
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults and environment only.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SITE_URL"); v != "" {
		c.Site.URL = v
	}
	if v := os.Getenv("OUT_DIR"); v != "" {
		c.Site.OutputDir = v
	}
	if v := os.Getenv("ENRICHED_JSON_PATH"); v != "" {
		c.Data.EnrichedPath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Site.Port = port
	}
	if v := os.Getenv("VIDEO_LINK_FIELDS"); v != "" {
		c.Data.LinkFields = splitFields(v)
	}

	if c.Enrich.YouTubeAPIKey == "" {
		c.Enrich.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.Publish.Endpoint == "" {
		c.Publish.Endpoint = os.Getenv("S3_ENDPOINT")
	}
	if c.Publish.Bucket == "" {
		c.Publish.Bucket = os.Getenv("S3_BUCKET")
	}
	if c.Publish.AccessKey == "" {
		c.Publish.AccessKey = os.Getenv("S3_ACCESS_KEY")
	}
	if c.Publish.SecretKey == "" {
		c.Publish.SecretKey = os.Getenv("S3_SECRET_KEY")
	}
	if c.Email.Username == "" {
		c.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if c.Email.Password == "" {
		c.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Site.Name == "" {
		c.Site.Name = "Project Etho"
	}
	if c.Site.Description == "" {
		c.Site.Description = "Etho's appearances across the web."
	}
	c.Site.URL = site.NormalizeSiteURL(c.Site.URL)
	if c.Site.OutputDir == "" {
		c.Site.OutputDir = "_site"
	}
	if c.Site.AssetDir == "" {
		c.Site.AssetDir = "assets"
	}
	if c.Site.AssetPrefix == "" {
		c.Site.AssetPrefix = "/assets/"
	}
	if c.Site.SocialImagePath == "" {
		c.Site.SocialImagePath = "/assets/social/project-etho-og.png"
	}
	if len(c.Site.FallbackImages) == 0 {
		c.Site.FallbackImages = []string{
			"/assets/fallback/fallback-1.png",
			"/assets/fallback/fallback-2.png",
			"/assets/fallback/fallback-3.png",
		}
	}
	if c.Site.Port == 0 {
		c.Site.Port = 8080
	}

	if c.Data.RawPath == "" {
		c.Data.RawPath = "out/out.json"
	}
	if c.Data.CachePath == "" {
		c.Data.CachePath = "out/video_info.json"
	}
	if len(c.Data.LinkFields) == 0 {
		c.Data.LinkFields = splitFields(defaultLinkFields)
	}

	if c.Enrich.SleepMS == 0 {
		c.Enrich.SleepMS = 200
	}
	if c.Enrich.TimeoutSeconds == 0 {
		c.Enrich.TimeoutSeconds = 20
	}
	if c.Enrich.UserAgent == "" {
		c.Enrich.UserAgent = defaultUserAgent
	}
	if c.Enrich.RefetchAfterDays == 0 {
		c.Enrich.RefetchAfterDays = 7
	}

	if c.Expiry.MediaType == "" {
		c.Expiry.MediaType = embed.DefaultExpiryPolicy.MediaType
	}
	if c.Expiry.Months == 0 {
		c.Expiry.Months = embed.DefaultExpiryPolicy.Months
	}

	if c.Publish.Region == "" {
		c.Publish.Region = "us-east-1"
	}

	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = c.Email.Username
	}

	if c.Schedule == "" {
		c.Schedule = "0 0 6 * * *" // Daily at 6 AM
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8081
	}
}

func (c *Config) validate() error {
	if c.Expiry.Months < 1 {
		return fmt.Errorf("expiry months must be at least 1, got %d", c.Expiry.Months)
	}
	if strings.TrimSpace(c.Site.OutputDir) == "" {
		return fmt.Errorf("site output directory is required (set OUT_DIR or site.output_dir)")
	}
	if c.Enrich.SleepMS < 0 {
		return fmt.Errorf("enrich sleep must not be negative, got %dms", c.Enrich.SleepMS)
	}
	if c.Enrich.TimeoutSeconds < 1 {
		return fmt.Errorf("enrich timeout must be at least 1 second, got %d", c.Enrich.TimeoutSeconds)
	}
	if c.Site.Port < 1 || c.Site.Port > 65535 {
		return fmt.Errorf("site port out of range: %d", c.Site.Port)
	}
	return nil
}

// ValidateEnricher checks settings only the enricher needs.
func (c *Config) ValidateEnricher() error {
	if c.Data.RawPath == "" {
		return fmt.Errorf("raw row path is required (data.raw_path)")
	}
	if c.Data.CachePath == "" {
		return fmt.Errorf("cache path is required (data.cache_path)")
	}
	if c.Email.Enabled() && c.Email.Password == "" {
		return fmt.Errorf("Email password is required (set EMAIL_PASSWORD or email.password)")
	}
	return nil
}

// ValidatePublish checks upload settings when publishing is enabled.
func (c *Config) ValidatePublish() error {
	if !c.Publish.Enabled() {
		return nil
	}
	if c.Publish.AccessKey == "" || c.Publish.SecretKey == "" {
		return fmt.Errorf("S3 credentials are required when publish.bucket is set (set S3_ACCESS_KEY and S3_SECRET_KEY)")
	}
	return nil
}

// EnrichedCandidates lists where the enriched row file is looked for when
// no path is configured.
func (c *Config) EnrichedCandidates() []string {
	return []string{
		"out/out.enriched.json",
		"sheet-pipeline/out/out.enriched.json",
		"../sheet-pipeline/out/out.enriched.json",
	}
}

func splitFields(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
