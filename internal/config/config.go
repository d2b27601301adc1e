package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"PodcastSummarizer/internal/domain"
)

const (
	configPathEnv = "PODCAST_SUMMARIZER_CONFIG"

	oracleAPIKeyEnv = "ORACLE_API_KEY"
	oracleModelEnv  = "ORACLE_MODEL"

	smtpServerEnv    = "SMTP_SERVER"
	smtpPortEnv      = "SMTP_PORT"
	emailFromEnv     = "EMAIL_FROM"
	emailPasswordEnv = "EMAIL_PASSWORD"
	emailToEnv       = "EMAIL_TO"
)

// Config holds high-level settings required across the application.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Logging   LoggingConfig   `yaml:"logging"`
	Oracle    OracleConfig    `yaml:"oracle"`
	Email     EmailConfig     `yaml:"email"`
	Tools     ToolsConfig     `yaml:"tools"`
	History   HistoryConfig   `yaml:"history"`
	Profile   ProfileConfig   `yaml:"profile"`
}

// WorkspaceConfig locates the artifact directories.
type WorkspaceConfig struct {
	BaseDir string `yaml:"baseDir"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// OracleConfig defines how to contact the text-generation service.
type OracleConfig struct {
	Endpoint              string `yaml:"endpoint"`
	Model                 string `yaml:"model"`
	APIKey                string `yaml:"apiKey"`
	SummaryTimeoutSeconds int    `yaml:"summaryTimeoutSeconds"`
	InsightTimeoutSeconds int    `yaml:"insightTimeoutSeconds"`
}

// SummaryTimeout is the ceiling for full-summary generation calls.
func (o OracleConfig) SummaryTimeout() time.Duration {
	return secondsOr(o.SummaryTimeoutSeconds, 300*time.Second)
}

// InsightTimeout is the ceiling for core-insight synthesis calls.
func (o OracleConfig) InsightTimeout() time.Duration {
	return secondsOr(o.InsightTimeoutSeconds, 60*time.Second)
}

// EmailConfig wires SMTP delivery. Delivery stays disabled until all
// required fields are present.
type EmailConfig struct {
	SMTPServer string `yaml:"smtpServer"`
	SMTPPort   int    `yaml:"smtpPort"`
	From       string `yaml:"from"`
	Password   string `yaml:"password"`
	To         string `yaml:"to"`
}

// Complete reports whether delivery is fully configured.
func (e EmailConfig) Complete() bool {
	return e.SMTPServer != "" && e.From != "" && e.Password != "" && e.To != ""
}

// ToolsConfig names the external binaries the pipeline shells out to.
type ToolsConfig struct {
	YtDlpPath    string `yaml:"ytdlpPath"`
	WhisperPath  string `yaml:"whisperPath"`
	WhisperModel string `yaml:"whisperModel"`
}

// HistoryConfig controls the sqlite run ledger.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ProfileConfig is the YAML shape of the reader profile.
type ProfileConfig struct {
	Role      string   `yaml:"role"`
	Interests []string `yaml:"interests"`
	Goals     []string `yaml:"goals"`
	Context   string   `yaml:"context"`
}

// UserProfile converts the configured profile to the domain structure,
// substituting the documented default profile when the section is empty.
func (c Config) UserProfile() domain.UserProfile {
	p := c.Profile
	if p.Role == "" && len(p.Interests) == 0 && len(p.Goals) == 0 && p.Context == "" {
		return defaultProfile()
	}
	return domain.UserProfile{
		Role:      p.Role,
		Interests: p.Interests,
		Goals:     p.Goals,
		Context:   p.Context,
	}
}

// HistoryPath resolves the ledger location, defaulting into the workspace.
func (c Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(c.Workspace.BaseDir, "history.db")
}

// Load reads .env and YAML configuration (if present) and applies
// environment overrides. Absence of any source yields usable defaults.
func Load() Config {
	// Matches the tooling convention: secrets live in a .env next to the
	// binary's working directory.
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(oracleAPIKeyEnv); v != "" {
		c.Oracle.APIKey = v
	}
	if v := os.Getenv(oracleModelEnv); v != "" {
		c.Oracle.Model = v
	}
	if v := os.Getenv(smtpServerEnv); v != "" {
		c.Email.SMTPServer = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Email.SMTPPort = port
		}
	}
	if v := os.Getenv(emailFromEnv); v != "" {
		c.Email.From = v
	}
	if v := os.Getenv(emailPasswordEnv); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv(emailToEnv); v != "" {
		c.Email.To = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Workspace.BaseDir != "" {
		base.Workspace = override.Workspace
	}
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Oracle.Endpoint != "" {
		base.Oracle.Endpoint = override.Oracle.Endpoint
	}
	if override.Oracle.Model != "" {
		base.Oracle.Model = override.Oracle.Model
	}
	if override.Oracle.APIKey != "" {
		base.Oracle.APIKey = override.Oracle.APIKey
	}
	if override.Oracle.SummaryTimeoutSeconds > 0 {
		base.Oracle.SummaryTimeoutSeconds = override.Oracle.SummaryTimeoutSeconds
	}
	if override.Oracle.InsightTimeoutSeconds > 0 {
		base.Oracle.InsightTimeoutSeconds = override.Oracle.InsightTimeoutSeconds
	}

	if override.Email.SMTPServer != "" {
		base.Email.SMTPServer = override.Email.SMTPServer
	}
	if override.Email.SMTPPort != 0 {
		base.Email.SMTPPort = override.Email.SMTPPort
	}
	if override.Email.From != "" {
		base.Email.From = override.Email.From
	}
	if override.Email.Password != "" {
		base.Email.Password = override.Email.Password
	}
	if override.Email.To != "" {
		base.Email.To = override.Email.To
	}

	if override.Tools.YtDlpPath != "" {
		base.Tools.YtDlpPath = override.Tools.YtDlpPath
	}
	if override.Tools.WhisperPath != "" {
		base.Tools.WhisperPath = override.Tools.WhisperPath
	}
	if override.Tools.WhisperModel != "" {
		base.Tools.WhisperModel = override.Tools.WhisperModel
	}

	if override.History.Enabled {
		base.History.Enabled = true
	}
	if override.History.Path != "" {
		base.History.Path = override.History.Path
	}

	if override.Profile.Role != "" || len(override.Profile.Interests) > 0 ||
		len(override.Profile.Goals) > 0 || override.Profile.Context != "" {
		base.Profile = override.Profile
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Workspace: WorkspaceConfig{BaseDir: "."},
		Logging:   LoggingConfig{Level: "info"},
		Oracle: OracleConfig{
			Endpoint:              "https://api.openai.com/v1/chat/completions",
			Model:                 "gpt-4o-mini",
			SummaryTimeoutSeconds: 300,
			InsightTimeoutSeconds: 60,
		},
		Email: EmailConfig{SMTPPort: 587},
		Tools: ToolsConfig{
			YtDlpPath:    "yt-dlp",
			WhisperPath:  "whisper",
			WhisperModel: "base",
		},
		History: HistoryConfig{Enabled: true},
	}
}

func defaultProfile() domain.UserProfile {
	return domain.UserProfile{
		Role:      "generalist listener",
		Interests: []string{"technology", "business"},
		Goals:     []string{"extract actionable lessons quickly"},
	}
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
