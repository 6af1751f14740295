package config

// DefaultPersona is the system prompt issued at the start of every
// conversation unless the user overrides it.
const DefaultPersona = "You are Cognito, a helpful and efficient voice-driven assistant. " +
	"Keep answers concise and conversational since they may be spoken aloud. " +
	"Use the available tools when a request needs live information or an action."

// DefaultAllowedCommands is the shell allow-list. Only the first token of a
// requested command is checked against it.
func DefaultAllowedCommands() []string {
	return []string{"ls", "pwd", "date", "whoami", "uptime", "df", "free", "uname"}
}

func DefaultWakeWords() []string {
	return []string{"cognito", "hey cognito", "okay cognito"}
}

func DefaultShutdownPhrases() []string {
	return []string{"shut down", "shutdown", "goodbye cognito", "exit assistant"}
}

func Default() *Config {
	return &Config{
		DataDirectory:      "~/.local/share/cognito",
		Provider:           "ollama",
		Model:              "llama3.1:latest",
		OllamaHost:         "http://localhost:11434",
		Persona:            DefaultPersona,
		MaxHistory:         50,
		MaxToolRounds:      8,
		AllowedCommands:    DefaultAllowedCommands(),
		ToolTimeoutSeconds: 30,
		SearchResultLimit:  5,
		PageCharacterLimit: 5000,
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		WakeWords:       DefaultWakeWords(),
		ShutdownPhrases: DefaultShutdownPhrases(),
		VoiceQueueSize:  16,
	}
}

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/cognito",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Provider: ProviderConfig{
			Name:       "ollama",
			Model:      "llama3.1:latest",
			OllamaHost: "http://localhost:11434",
		},
		Assistant: AssistantConfig{
			MaxHistory:    50,
			MaxToolRounds: 8,
		},
		Tools: ToolsConfig{
			AllowedCommands:    DefaultAllowedCommands(),
			TimeoutSeconds:     30,
			SearchResultLimit:  5,
			PageCharacterLimit: 5000,
		},
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		Voice: VoiceConfig{
			WakeWords:       DefaultWakeWords(),
			ShutdownPhrases: DefaultShutdownPhrases(),
			QueueSize:       16,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Cognito System Configuration
# Location: ~/.config/cognito/settings.toml
# This file uses TOML format: https://toml.io

# Directory where sessions, the audit log and user config are stored
data_directory = "~/.local/share/cognito"
`
}

func GenerateUserConfigTemplate() string {
	return `# Cognito User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io
#
# Secrets are never read from this file. Set them in the environment:
#   COGNITO_API_KEY            - OpenAI/Anthropic API key
#   COGNITO_EMAIL_PASSWORD     - SMTP app password for send_email
#   COGNITO_TWILIO_AUTH_TOKEN  - Twilio auth token for send_whatsapp

[provider]
# Model backend: "ollama", "openai" or "anthropic"
name = "ollama"

# Model to use
model = "llama3.1:latest"

# Ollama server URL (ignored for hosted providers)
ollama_host = "http://localhost:11434"

[assistant]
# System persona issued at the start of every conversation (optional)
# persona = "You are Cognito, a helpful voice assistant."

# Turns retained in memory before the oldest exchanges are evicted
max_history = 50

# Maximum model/tool round trips for a single request
max_tool_rounds = 8

[tools]
# Shell commands the run_command tool may execute (first token is checked)
allowed_commands = ["ls", "pwd", "date", "whoami", "uptime", "df", "free", "uname"]

# Wall-clock limit for a single tool execution
timeout_seconds = 30

# web_search results returned per query
search_result_limit = 5

# fetch_webpage extracted-text cap
page_character_limit = 5000

[email]
# address = "you@example.com"
smtp_host = "smtp.gmail.com"
smtp_port = 587

[twilio]
# account_sid = "ACxxxxxxxx"
# from_number = "whatsapp:+14155238886"

[voice]
wake_words = ["cognito", "hey cognito", "okay cognito"]
shutdown_phrases = ["shut down", "shutdown", "goodbye cognito", "exit assistant"]

# Pending utterances held while a request is in flight
queue_size = 16
`
}
