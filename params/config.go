package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Proxy struct {
	Addr           string
	AllowedOrigins []string

	// Source selects the order source: "file" reads fixtures from FixturesDir,
	// "http" forwards to SourceURL.
	Source        string
	SourceURL     string
	FixturesDir   string
	SourceTimeout time.Duration

	// VerifySignatures rejects requests whose attestation signature does not verify.
	VerifySignatures bool

	// RedisAddr enables the response cache when non-empty.
	RedisAddr string
	CacheTTL  time.Duration
}

type Viewer struct {
	ProxyURL       string
	StorePath      string
	WalletKey      string // hex private key (eth) or hex seed (ed25519); empty generates one
	WalletKind     string // "ed25519" or "eth"
	RequestTimeout time.Duration
}

type Config struct {
	Proxy   Proxy
	Viewer  Viewer
	LogFile string
}

func Default() Config {
	return Config{
		Proxy: Proxy{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			Source:         "file",
			FixturesDir:    "data/orders",
			SourceTimeout:  10 * time.Second,
			CacheTTL:       5 * time.Second,
		},
		Viewer: Viewer{
			ProxyURL:       "http://localhost:8080",
			StorePath:      "data/wallet",
			WalletKind:     "ed25519",
			RequestTimeout: 15 * time.Second,
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg.LogFile = os.Getenv("LOG_FILE")

	cfg.Proxy.Addr = getEnv("API_ADDR", cfg.Proxy.Addr)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Proxy.AllowedOrigins = splitList(origins)
	}
	cfg.Proxy.Source = getEnv("ORDER_SOURCE", cfg.Proxy.Source)
	cfg.Proxy.SourceURL = getEnv("ORDER_SOURCE_URL", cfg.Proxy.SourceURL)
	cfg.Proxy.FixturesDir = getEnv("ORDER_FIXTURES_DIR", cfg.Proxy.FixturesDir)
	cfg.Proxy.SourceTimeout = getMillis("PROXY_SOURCE_TIMEOUT_MS", cfg.Proxy.SourceTimeout)
	if verify := os.Getenv("PROXY_VERIFY_SIGNATURES"); verify != "" {
		cfg.Proxy.VerifySignatures = verify == "true"
	}
	cfg.Proxy.RedisAddr = getEnv("REDIS_ADDR", cfg.Proxy.RedisAddr)
	cfg.Proxy.CacheTTL = getMillis("CACHE_TTL_MS", cfg.Proxy.CacheTTL)

	cfg.Viewer.ProxyURL = strings.TrimRight(getEnv("VIEWER_PROXY_URL", cfg.Viewer.ProxyURL), "/")
	cfg.Viewer.StorePath = getEnv("VIEWER_STORE_PATH", cfg.Viewer.StorePath)
	cfg.Viewer.WalletKey = getEnv("WALLET_KEY", cfg.Viewer.WalletKey)
	cfg.Viewer.WalletKind = getEnv("WALLET_KIND", cfg.Viewer.WalletKind)
	cfg.Viewer.RequestTimeout = getMillis("VIEWER_REQUEST_TIMEOUT_MS", cfg.Viewer.RequestTimeout)

	return cfg
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getMillis parses a millisecond count; malformed values keep the default.
func getMillis(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
