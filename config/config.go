package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ProviderConfig struct {
	Name       string `toml:"name"`
	Model      string `toml:"model"`
	OllamaHost string `toml:"ollama_host"`
}

type AssistantConfig struct {
	Persona       string `toml:"persona,omitempty"`
	MaxHistory    int    `toml:"max_history"`
	MaxToolRounds int    `toml:"max_tool_rounds"`
}

type ToolsConfig struct {
	AllowedCommands    []string `toml:"allowed_commands"`
	TimeoutSeconds     int      `toml:"timeout_seconds"`
	SearchResultLimit  int      `toml:"search_result_limit"`
	PageCharacterLimit int      `toml:"page_character_limit"`
}

type EmailConfig struct {
	Address  string `toml:"address"`
	SMTPHost string `toml:"smtp_host"`
	SMTPPort int    `toml:"smtp_port"`
}

type TwilioConfig struct {
	AccountSID string `toml:"account_sid"`
	FromNumber string `toml:"from_number"`
}

type VoiceConfig struct {
	WakeWords       []string `toml:"wake_words"`
	ShutdownPhrases []string `toml:"shutdown_phrases"`
	QueueSize       int      `toml:"queue_size"`
}

type UserConfig struct {
	Provider  ProviderConfig  `toml:"provider"`
	Assistant AssistantConfig `toml:"assistant"`
	Tools     ToolsConfig     `toml:"tools"`
	Email     EmailConfig     `toml:"email"`
	Twilio    TwilioConfig    `toml:"twilio"`
	Voice     VoiceConfig     `toml:"voice"`
}

// Config is the flattened runtime view of the system and user config
// files plus environment-supplied secrets.
type Config struct {
	DataDirectory string

	Provider   string
	Model      string
	OllamaHost string
	APIKey     string

	Persona       string
	MaxHistory    int
	MaxToolRounds int

	AllowedCommands    []string
	ToolTimeoutSeconds int
	SearchResultLimit  int
	PageCharacterLimit int

	Email  EmailConfig
	Twilio TwilioConfig

	EmailPassword   string
	TwilioAuthToken string

	WakeWords       []string
	ShutdownPhrases []string
	VoiceQueueSize  int
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// ToolTimeout is the per-invocation tool execution deadline.
func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.ToolTimeoutSeconds) * time.Second
}

func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv("COGNITO_PROVIDER"); provider != "" {
		c.Provider = provider
	}
	if model := os.Getenv("COGNITO_MODEL"); model != "" {
		c.Model = model
	}
	if host := os.Getenv("COGNITO_OLLAMA_HOST"); host != "" {
		c.OllamaHost = host
	}
	if dataDir := os.Getenv("COGNITO_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

// loadSecrets pulls credentials from the environment. Secrets are never
// written to the TOML files.
func (c *Config) loadSecrets() {
	c.APIKey = os.Getenv("COGNITO_API_KEY")
	c.EmailPassword = os.Getenv("COGNITO_EMAIL_PASSWORD")
	c.TwilioAuthToken = os.Getenv("COGNITO_TWILIO_AUTH_TOKEN")
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	if userCfg.Provider.Name != "" {
		c.Provider = userCfg.Provider.Name
	}
	if userCfg.Provider.Model != "" {
		c.Model = userCfg.Provider.Model
	}
	if userCfg.Provider.OllamaHost != "" {
		c.OllamaHost = userCfg.Provider.OllamaHost
	}
	if userCfg.Assistant.Persona != "" {
		c.Persona = userCfg.Assistant.Persona
	}
	if userCfg.Assistant.MaxHistory > 0 {
		c.MaxHistory = userCfg.Assistant.MaxHistory
	}
	if userCfg.Assistant.MaxToolRounds > 0 {
		c.MaxToolRounds = userCfg.Assistant.MaxToolRounds
	}
	if len(userCfg.Tools.AllowedCommands) > 0 {
		c.AllowedCommands = userCfg.Tools.AllowedCommands
	}
	if userCfg.Tools.TimeoutSeconds > 0 {
		c.ToolTimeoutSeconds = userCfg.Tools.TimeoutSeconds
	}
	if userCfg.Tools.SearchResultLimit > 0 {
		c.SearchResultLimit = userCfg.Tools.SearchResultLimit
	}
	if userCfg.Tools.PageCharacterLimit > 0 {
		c.PageCharacterLimit = userCfg.Tools.PageCharacterLimit
	}
	c.Email = userCfg.Email
	c.Twilio = userCfg.Twilio
	if len(userCfg.Voice.WakeWords) > 0 {
		c.WakeWords = userCfg.Voice.WakeWords
	}
	if len(userCfg.Voice.ShutdownPhrases) > 0 {
		c.ShutdownPhrases = userCfg.Voice.ShutdownPhrases
	}
	if userCfg.Voice.QueueSize > 0 {
		c.VoiceQueueSize = userCfg.Voice.QueueSize
	}
}

func CheckDebug() bool {
	debug := os.Getenv("COGNITO_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: debug output can include tool arguments and model text
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (COGNITO_DEBUG=%s) ===", os.Getenv("COGNITO_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func Load() (*Config, error) {
	cfg := Default()

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)

	// Env wins over file for provider selection, matching shell-session use
	cfg.applyEnvOverrides()
	cfg.loadSecrets()

	return cfg, nil
}
