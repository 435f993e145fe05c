package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	LogFormat   string `env:"LOG_FORMAT"` // console | json

	// Каталог и оценка
	CatalogPath     string   `env:"CATALOG_PATH"`
	ValuationPolicy string   `env:"VALUATION_POLICY"`
	StrictCatalog   bool     `env:"STRICT_CATALOG"`
	MaxMutations    int      `env:"MAX_MUTATIONS" envDefault:"5"`
	DefaultAccounts []string `env:"DEFAULT_ACCOUNTS" envSeparator:","`

	// Кэш профилей
	ProfileCacheSize int           `env:"PROFILE_CACHE_SIZE" envDefault:"256"`
	ProfileCacheTTL  time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"5m"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	accounts := strings.Join(cfg.DefaultAccounts, ",")

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres:// или путь к файлу sqlite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "формат логов: console или json")
	flag.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "путь к YAML-справочнику (пусто — встроенный)")
	flag.StringVar(&cfg.ValuationPolicy, "policy", cfg.ValuationPolicy, "политика оценки: additive-excess, additive-full, multiplicative-chain")
	flag.BoolVar(&cfg.StrictCatalog, "strict-catalog", cfg.StrictCatalog, "отклонять предметы, которых нет в справочнике")
	flag.IntVar(&cfg.MaxMutations, "max-mutations", cfg.MaxMutations, "максимум мутаций у предмета (0 — без ограничения)")
	flag.StringVar(&accounts, "default-accounts", accounts, "аккаунты нового профиля через запятую")
	flag.IntVar(&cfg.ProfileCacheSize, "profile-cache-size", cfg.ProfileCacheSize, "размер LRU-кэша профилей (0 — выключен)")
	flag.DurationVar(&cfg.ProfileCacheTTL, "profile-cache-ttl", cfg.ProfileCacheTTL, "время жизни записи в кэше профилей")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.DefaultAccounts = splitList(accounts)

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.MaxMutations < 0 {
		cfg.MaxMutations = 0
	}
	if len(cfg.DefaultAccounts) == 0 {
		cfg.DefaultAccounts = []string{"Account 1", "Account 2", "Account 3", "Account 4"}
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, _ = os.UserHomeDir()
		}
		cfg.TokenFile = filepath.Join(dir, "brainrotkeeper", "token")
	}

	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
