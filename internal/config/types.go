package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Env            string                `yaml:"env"` // "development" | "production"
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	Timezone       string                `yaml:"timezone"`
	Mail           MailConfig            `yaml:"mail"`
	GoogleBooks    GoogleBooksConfig     `yaml:"google_books"`
	OpenAI         OpenAIConfig          `yaml:"openai"`
	Recommendation RecommendationConfig  `yaml:"recommendation"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

// MailConfig holds the outbound mail provider settings.
type MailConfig struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
	UseResend bool   `yaml:"use_resend"`
	ResendKey string `yaml:"resend_key"`
}

// GoogleBooksConfig points the metadata client at the volumes API.
type GoogleBooksConfig struct {
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// OpenAIConfig configures the text-generation client.
type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RecommendationConfig tunes the weekly recommendation cycle.
type RecommendationConfig struct {
	// ExcludeRecentDays keeps a book out of the draw after it was
	// recommended within this window.
	ExcludeRecentDays int `yaml:"exclude_recent_days"`
	// NotifyCooldownDays skips users who already got any notification
	// within this window.
	NotifyCooldownDays int `yaml:"notify_cooldown_days"`
}

type rawAppConfig struct {
	Port               int                   `yaml:"port"`
	DSN                string                `yaml:"dsn"`
	DatabaseURL        string                `yaml:"database_url"`
	RedisURL           string                `yaml:"redis_url"`
	Database           DatabaseRuntimeConfig `yaml:"database"`
	Redis              RedisRuntimeConfig    `yaml:"redis"`
	Env                string                `yaml:"env"`
	AllowedOrigins     []string              `yaml:"allowed_origins"`
	CORSAllowedOrigins []string              `yaml:"cors_allowed_origins"`
	JWTSecret          string                `yaml:"jwt_secret"`
	Timezone           string                `yaml:"timezone"`
	TZ                 string                `yaml:"tz"`
	Mail               MailConfig            `yaml:"mail"`
	GoogleBooks        GoogleBooksConfig     `yaml:"google_books"`
	OpenAI             OpenAIConfig          `yaml:"openai"`
	Recommendation     rawRecommendation     `yaml:"recommendation"`
}

type rawRecommendation struct {
	ExcludeRecentDays  *int `yaml:"exclude_recent_days"`
	NotifyCooldownDays *int `yaml:"notify_cooldown_days"`
}
