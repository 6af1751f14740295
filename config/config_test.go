package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Provider != "ollama" {
		t.Errorf("expected ollama default provider, got %q", cfg.Provider)
	}
	if cfg.MaxHistory != 50 {
		t.Errorf("expected history cap 50, got %d", cfg.MaxHistory)
	}
	if cfg.MaxToolRounds != 8 {
		t.Errorf("expected 8 tool rounds, got %d", cfg.MaxToolRounds)
	}
	if cfg.ToolTimeoutSeconds != 30 {
		t.Errorf("expected 30s tool timeout, got %d", cfg.ToolTimeoutSeconds)
	}
	if cfg.ToolTimeout() != 30*time.Second {
		t.Errorf("expected ToolTimeout 30s, got %s", cfg.ToolTimeout())
	}
	if len(cfg.AllowedCommands) == 0 {
		t.Error("expected a non-empty default command allow-list")
	}
	for _, cmd := range cfg.AllowedCommands {
		if cmd == "rm" || cmd == "sudo" {
			t.Errorf("dangerous command %q in default allow-list", cmd)
		}
	}
	if len(cfg.WakeWords) == 0 || len(cfg.ShutdownPhrases) == 0 {
		t.Error("expected default wake words and shutdown phrases")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COGNITO_PROVIDER", "anthropic")
	t.Setenv("COGNITO_MODEL", "claude-sonnet-4-5")
	t.Setenv("COGNITO_OLLAMA_HOST", "http://remote:11434")
	t.Setenv("COGNITO_DATA_DIR", "/tmp/cognito-test")

	cfg := Default()
	cfg.applyEnvOverrides()

	if cfg.Provider != "anthropic" {
		t.Errorf("provider override ignored: %q", cfg.Provider)
	}
	if cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("model override ignored: %q", cfg.Model)
	}
	if cfg.OllamaHost != "http://remote:11434" {
		t.Errorf("host override ignored: %q", cfg.OllamaHost)
	}
	if cfg.DataDirectory != "/tmp/cognito-test" {
		t.Errorf("data dir override ignored: %q", cfg.DataDirectory)
	}
}

func TestSecretsComeFromEnvironmentOnly(t *testing.T) {
	t.Setenv("COGNITO_API_KEY", "sk-test")
	t.Setenv("COGNITO_EMAIL_PASSWORD", "app-password")
	t.Setenv("COGNITO_TWILIO_AUTH_TOKEN", "twilio-token")

	cfg := Default()
	cfg.loadSecrets()

	if cfg.APIKey != "sk-test" {
		t.Errorf("API key not loaded: %q", cfg.APIKey)
	}
	if cfg.EmailPassword != "app-password" {
		t.Errorf("email password not loaded: %q", cfg.EmailPassword)
	}
	if cfg.TwilioAuthToken != "twilio-token" {
		t.Errorf("twilio token not loaded: %q", cfg.TwilioAuthToken)
	}
}

func TestApplyUserConfig(t *testing.T) {
	cfg := Default()
	userCfg := &UserConfig{
		Provider:  ProviderConfig{Name: "openai", Model: "gpt-4o-mini"},
		Assistant: AssistantConfig{Persona: "custom persona", MaxToolRounds: 4},
		Tools:     ToolsConfig{AllowedCommands: []string{"date"}},
		Voice:     VoiceConfig{QueueSize: 2},
	}

	cfg.applyUserConfig(userCfg)

	if cfg.Provider != "openai" || cfg.Model != "gpt-4o-mini" {
		t.Errorf("provider section not applied: %q %q", cfg.Provider, cfg.Model)
	}
	if cfg.Persona != "custom persona" {
		t.Errorf("persona not applied: %q", cfg.Persona)
	}
	if cfg.MaxToolRounds != 4 {
		t.Errorf("max tool rounds not applied: %d", cfg.MaxToolRounds)
	}
	if len(cfg.AllowedCommands) != 1 || cfg.AllowedCommands[0] != "date" {
		t.Errorf("allow-list not applied: %v", cfg.AllowedCommands)
	}
	if cfg.VoiceQueueSize != 2 {
		t.Errorf("queue size not applied: %d", cfg.VoiceQueueSize)
	}

	// Zero values must not clobber defaults.
	if cfg.MaxHistory != 50 {
		t.Errorf("unset max_history clobbered the default: %d", cfg.MaxHistory)
	}
	if cfg.OllamaHost == "" {
		t.Error("unset ollama_host clobbered the default")
	}
}

func TestUserConfigTemplateParses(t *testing.T) {
	var cfg UserConfig
	if _, err := toml.Decode(GenerateUserConfigTemplate(), &cfg); err != nil {
		t.Fatalf("user config template does not parse: %v", err)
	}
	if cfg.Provider.Name != "ollama" {
		t.Errorf("unexpected template provider: %q", cfg.Provider.Name)
	}
	if cfg.Tools.TimeoutSeconds != 30 {
		t.Errorf("unexpected template timeout: %d", cfg.Tools.TimeoutSeconds)
	}
	if len(cfg.Voice.WakeWords) == 0 {
		t.Error("template missing wake words")
	}
}

func TestSystemConfigTemplateParses(t *testing.T) {
	var cfg SystemConfig
	if _, err := toml.Decode(GenerateSystemConfigTemplate(), &cfg); err != nil {
		t.Fatalf("system config template does not parse: %v", err)
	}
	if cfg.DataDirectory == "" {
		t.Error("template missing data_directory")
	}
}

func TestLoadUserConfigFromFile(t *testing.T) {
	dataDir := t.TempDir()
	content := `
[provider]
name = "anthropic"
model = "claude-sonnet-4-5"

[tools]
timeout_seconds = 10
`
	if err := os.WriteFile(filepath.Join(dataDir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Provider.Name != "anthropic" {
		t.Errorf("expected anthropic, got %q", cfg.Provider.Name)
	}
	if cfg.Tools.TimeoutSeconds != 10 {
		t.Errorf("expected timeout 10, got %d", cfg.Tools.TimeoutSeconds)
	}
}

func TestLoadUserConfigCreatesDefault(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Provider.Name != "ollama" {
		t.Errorf("expected defaults for missing file, got %q", cfg.Provider.Name)
	}
	if !FileExists(filepath.Join(dataDir, "config.toml")) {
		t.Error("expected default config file created")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tilde expanded", "~/.local/share/cognito", "/home/tester/.local/share/cognito"},
		{"absolute untouched", "/var/lib/cognito", "/var/lib/cognito"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
