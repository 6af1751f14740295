package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cognito/agent"
	"cognito/config"
	"cognito/provider"
	"cognito/storage"
	"cognito/tools"
	"cognito/ui"
	"cognito/voice"
)

const Version = "v0.01.00"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	sessionStorage, err := storage.NewSessionStorage(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize session storage: %v\n", err)
		os.Exit(1)
	}

	auditLog, err := storage.NewAuditLog(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to open tool audit log: %v\n", err)
		os.Exit(1)
	}
	defer auditLog.Close()

	searchIndex := storage.NewSearchIndex(sessionStorage)

	// Resume the last conversation when one is on disk.
	var lastSession *storage.Session
	if lastID, err := sessionStorage.LoadCurrentSessionID(); err == nil {
		lastSession, _ = sessionStorage.Load(lastID)
	}

	registry := tools.NewRegistry()
	if err := tools.RegisterBuiltins(registry, cfg); err != nil {
		fmt.Printf("Failed to register tools: %v\n", err)
		os.Exit(1)
	}

	executor := tools.NewExecutor(registry,
		tools.WithTimeout(cfg.ToolTimeout()),
		tools.WithAllowedCommands(cfg.AllowedCommands),
		tools.WithAuditor(auditLog),
	)

	prov, err := provider.NewProvider(provider.Config{
		Type:    provider.MapProviderIDToType(cfg.Provider),
		BaseURL: cfg.OllamaHost,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		fmt.Printf("Failed to initialize provider %q: %v\n", cfg.Provider, err)
		os.Exit(1)
	}

	orchestrator := agent.NewOrchestrator(prov, registry, executor,
		cfg.Persona, cfg.MaxHistory,
		agent.WithMaxRounds(cfg.MaxToolRounds),
		agent.WithSessionStore(sessionStorage),
		agent.WithRestoredSession(lastSession),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := voice.NewLoop(orchestrator, cfg)
	go loop.Run(ctx)

	p := tea.NewProgram(
		ui.NewChatView(loop, orchestrator, sessionStorage, searchIndex, auditLog),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running cognito: %v\n", err)
		os.Exit(1)
	}
}
