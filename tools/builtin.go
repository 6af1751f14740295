package tools

import "cognito/config"

// RegisterBuiltins registers the full builtin tool set against a registry.
func RegisterBuiltins(registry *Registry, cfg *config.Config) error {
	web := NewWebTools(cfg.SearchResultLimit, cfg.PageCharacterLimit)
	system := NewSystemTools()
	comms := NewCommTools(cfg)

	specs := []Spec{
		web.SearchSpec(),
		web.FetchSpec(),
		system.RunCommandSpec(),
		system.SystemInfoSpec(),
		comms.EmailSpec(),
		comms.WhatsAppSpec(),
	}

	for _, spec := range specs {
		if err := registry.Register(spec); err != nil {
			return err
		}
	}
	return nil
}
