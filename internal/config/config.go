package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string
	LogLevel string // debug|info|warn|error|off

	MaxUploadBytes int64
	ResultTTL      time.Duration

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	EnableAuth    bool
	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt
	TeacherUser   string
	TeacherHash   string // bcrypt

	JournalEnabled bool
	DBDriver       string
	DBDSN          string
}

// CORSOrigins returns the allowed origins for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:     mode,
		HTTPAddr: envOr("HTTP_ADDR", ":5000"),
		LogLevel: strings.ToLower(envOr("LOG_LEVEL", "info")),

		MaxUploadBytes: envInt("MAX_UPLOAD_BYTES", 16<<20),
		ResultTTL:      envDuration("RESULT_TTL", time.Hour),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://grades.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),

		EnableAuth:    envBool("ENABLE_AUTH", mode == ModeOnline),
		AuthSecret:    envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: os.Getenv("ADMIN_PASS_HASH"),
		TeacherUser:   envOr("TEACHER_USER", "teacher"),
		TeacherHash:   os.Getenv("TEACHER_PASS_HASH"),

		JournalEnabled: envBool("JOURNAL_ENABLED", false),
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          os.Getenv("DB_DSN"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(k), 10, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
