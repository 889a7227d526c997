package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	// Engine holds the detection heuristics. The scoring constants were
	// tuned empirically against live job boards; treat them as calibration
	// knobs, not derived values.
	Engine struct {
		ScoreThreshold     int           `yaml:"score_threshold" default:"5"`
		StrongIndicator    int           `yaml:"strong_indicator_weight" default:"10"`
		KeywordWeight      int           `yaml:"keyword_weight" default:"2"`
		AntiPatternWeight  int           `yaml:"anti_pattern_weight" default:"3"`
		FileInputBonus     int           `yaml:"file_input_bonus" default:"5"`
		TextAreaBonus      int           `yaml:"textarea_bonus" default:"3"`
		ConfidenceDivisor  int           `yaml:"confidence_divisor" default:"20"`
		VirtualMinInputs   int           `yaml:"virtual_min_inputs" default:"3"`
		VirtualConfidence  float64       `yaml:"virtual_confidence" default:"0.5"`
		EssayLabelMinChars int           `yaml:"essay_label_min_chars" default:"10"`
		RescanDebounce     time.Duration `yaml:"rescan_debounce" default:"1s"`
		HighlightRevert    time.Duration `yaml:"highlight_revert" default:"2s"`
	} `yaml:"engine"`

	AI struct {
		Provider  string        `yaml:"provider" default:"platform"` // "platform" or "claude"
		BaseURL   string        `yaml:"base_url" default:"http://localhost:8000"`
		APIKey    string        `yaml:"api_key"`
		Model     string        `yaml:"model" default:"claude-3-haiku-20240307"`
		MaxTokens int           `yaml:"max_tokens" default:"2048"`
		Timeout   time.Duration `yaml:"timeout" default:"60s"`
		RateLimit int           `yaml:"rate_limit" default:"30"` // requests per minute per domain
	} `yaml:"ai"`

	Session struct {
		BaseURL string        `yaml:"base_url" default:"http://localhost:8000"`
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"session"`

	Loader struct {
		Engine         string        `yaml:"engine" default:"http"` // "http", "rod", "firecrawl", "auto"
		UserAgent      string        `yaml:"user_agent"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
		HeadlessMode   bool          `yaml:"headless_mode" default:"true"`
		StealthMode    bool          `yaml:"stealth_mode" default:"true"`
		Captcha        struct {
			Provider        string        `yaml:"provider" default:"2captcha"`
			APIKey          string        `yaml:"api_key"`
			Timeout         time.Duration `yaml:"timeout" default:"120s"`
			EnableAutoSolve bool          `yaml:"enable_auto_solve" default:"false"`
		} `yaml:"captcha"`
		Firecrawl struct {
			APIKey  string        `yaml:"api_key"`
			APIURL  string        `yaml:"api_url" default:"https://api.firecrawl.dev"`
			Version string        `yaml:"version" default:"v1"`
			Timeout time.Duration `yaml:"timeout" default:"60s"`
		} `yaml:"firecrawl"`
	} `yaml:"loader"`

	BackgroundTasks struct {
		MaxConcurrentTasks int           `yaml:"max_concurrent_tasks" default:"50"`
		TaskTimeout        time.Duration `yaml:"task_timeout" default:"300s"`
		CleanupInterval    time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxTaskAge         time.Duration `yaml:"max_task_age" default:"24h"`
	} `yaml:"background_tasks"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
		Enabled  bool          `yaml:"enabled" default:"false"`
	} `yaml:"redis"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Engine.ScoreThreshold = 5
	config.Engine.StrongIndicator = 10
	config.Engine.KeywordWeight = 2
	config.Engine.AntiPatternWeight = 3
	config.Engine.FileInputBonus = 5
	config.Engine.TextAreaBonus = 3
	config.Engine.ConfidenceDivisor = 20
	config.Engine.VirtualMinInputs = 3
	config.Engine.VirtualConfidence = 0.5
	config.Engine.EssayLabelMinChars = 10
	config.Engine.RescanDebounce = 1 * time.Second
	config.Engine.HighlightRevert = 2 * time.Second

	config.AI.Provider = "platform"
	config.AI.BaseURL = "http://localhost:8000"
	config.AI.Model = "claude-3-haiku-20240307"
	config.AI.MaxTokens = 2048
	config.AI.Timeout = 60 * time.Second
	config.AI.RateLimit = 30

	config.Session.BaseURL = "http://localhost:8000"
	config.Session.Timeout = 15 * time.Second

	config.Loader.Engine = "http"
	config.Loader.RequestTimeout = 30 * time.Second
	config.Loader.HeadlessMode = true
	config.Loader.StealthMode = true
	config.Loader.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	config.Loader.Captcha.Provider = "2captcha"
	config.Loader.Captcha.Timeout = 120 * time.Second
	config.Loader.Firecrawl.APIURL = "https://api.firecrawl.dev"
	config.Loader.Firecrawl.Version = "v1"
	config.Loader.Firecrawl.Timeout = 60 * time.Second

	config.BackgroundTasks.MaxConcurrentTasks = 50
	config.BackgroundTasks.TaskTimeout = 300 * time.Second
	config.BackgroundTasks.CleanupInterval = 1 * time.Hour
	config.BackgroundTasks.MaxTaskAge = 24 * time.Hour

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		c.AI.Provider = provider
	}

	if baseURL := os.Getenv("AI_BASE_URL"); baseURL != "" {
		c.AI.BaseURL = baseURL
	}

	if apiKey := os.Getenv("AI_API_KEY"); apiKey != "" {
		c.AI.APIKey = apiKey
	}

	if model := os.Getenv("AI_MODEL"); model != "" {
		c.AI.Model = model
	}

	if sessionURL := os.Getenv("SESSION_BASE_URL"); sessionURL != "" {
		c.Session.BaseURL = sessionURL
	}

	if engine := os.Getenv("LOADER_ENGINE"); engine != "" {
		c.Loader.Engine = engine
	}

	if captchaAPIKey := os.Getenv("CAPTCHA_API_KEY"); captchaAPIKey != "" {
		c.Loader.Captcha.APIKey = captchaAPIKey
	}

	if firecrawlAPIKey := os.Getenv("FIRECRAWL_API_KEY"); firecrawlAPIKey != "" {
		c.Loader.Firecrawl.APIKey = firecrawlAPIKey
	}

	if firecrawlAPIURL := os.Getenv("FIRECRAWL_API_URL"); firecrawlAPIURL != "" {
		c.Loader.Firecrawl.APIURL = firecrawlAPIURL
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
		c.Redis.Enabled = true
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if threshold := os.Getenv("ENGINE_SCORE_THRESHOLD"); threshold != "" {
		if v, err := strconv.Atoi(threshold); err == nil {
			c.Engine.ScoreThreshold = v
		}
	}

	if debounce := os.Getenv("ENGINE_RESCAN_DEBOUNCE"); debounce != "" {
		if d, err := time.ParseDuration(debounce); err == nil {
			c.Engine.RescanDebounce = d
		}
	}
}
