package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	HTTPPort    string
	HTTPSPort   string

	Domains      []string
	CertCacheDir string

	AssetsDir string
	OutputDir string
	LogDir    string

	FFmpegPath  string
	FFprobePath string

	// OverlaysEnabled gates drawtext rendering. Off until font availability
	// on render hosts is verified.
	OverlaysEnabled bool

	MaxConcurrentEncodes int
	RenderQueueSize      int

	ProgressRetention     time.Duration
	ProgressSweepInterval time.Duration

	OutputRetentionDays   int
	OutputCleanupInterval time.Duration

	DatabaseURL string

	TwilioAccountSID       string
	TwilioAuthToken        string
	TwilioFromNumber       string
	TwilioToNumber         string
	TwilioNotifyOnComplete bool
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

func Load() Config {
	return Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		HTTPPort:    getEnv("HTTP_PORT", "8086"),
		HTTPSPort:   getEnv("HTTPS_PORT", "443"),

		Domains:      []string{getEnv("DOMAIN", "example.com")},
		CertCacheDir: getEnv("CERT_CACHE_DIR", "/etc/letsencrypt/live/example.com"),

		AssetsDir: getEnv("ASSETS_DIR", "public/assets"),
		OutputDir: getEnv("OUTPUT_DIR", "storage/videos"),
		LogDir:    getEnv("LOG_DIR", "logs"),

		FFmpegPath:  getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: getEnv("FFPROBE_PATH", "ffprobe"),

		OverlaysEnabled: getEnvAsBool("OVERLAYS_ENABLED", false),

		MaxConcurrentEncodes: getEnvAsInt("MAX_CONCURRENT_ENCODES", 2),
		RenderQueueSize:      getEnvAsInt("RENDER_QUEUE_SIZE", 32),

		ProgressRetention:     time.Duration(getEnvAsInt("PROGRESS_RETENTION_SECONDS", 3600)) * time.Second,
		ProgressSweepInterval: time.Duration(getEnvAsInt("PROGRESS_SWEEP_SECONDS", 600)) * time.Second,

		OutputRetentionDays:   getEnvAsInt("OUTPUT_RETENTION_DAYS", 7),
		OutputCleanupInterval: time.Duration(getEnvAsInt("OUTPUT_CLEANUP_SECONDS", 21600)) * time.Second,

		DatabaseURL: getEnv("DATABASE_URL", ""),

		TwilioAccountSID:       getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:        getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:       getEnv("TWILIO_FROM_NUMBER", ""),
		TwilioToNumber:         getEnv("TWILIO_TO_NUMBER", ""),
		TwilioNotifyOnComplete: getEnvAsBool("TWILIO_NOTIFY_ON_COMPLETE", false),
	}
}

// SMSEnabled reports whether enough Twilio settings are present to send
// alerts.
func (c Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		c.TwilioFromNumber != "" && c.TwilioToNumber != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
