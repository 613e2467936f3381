package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"mailpilot/internal/assistant"
	"mailpilot/internal/config"
	"mailpilot/internal/gmail"
	"mailpilot/internal/llm"
	"mailpilot/internal/logging"
	"mailpilot/internal/state"
	"mailpilot/internal/store"
	"mailpilot/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	backend, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}

	ui := state.NewUI()
	mail := state.NewMail(backend, db)

	// Warm start from the cache; the TUI refetches in the background.
	if cached, err := db.LoadEmails(ctx, "inbox"); err == nil && len(cached) > 0 {
		mail.SetInbox(cached)
	}
	if cached, err := db.LoadEmails(ctx, "sent"); err == nil && len(cached) > 0 {
		mail.SetSent(cached)
	}

	client := newLLMClient(ctx, cfg, logger)
	asst := assistant.New(client, ui, mail, logger)
	appModel := tui.NewAppModel(ui, mail, asst)

	p := tea.NewProgram(&appModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}

// newBackend picks Gmail when credentials exist, otherwise the built-in demo
// mailbox so the assistant can be used without any setup.
func newBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (state.Backend, error) {
	if _, err := os.Stat(cfg.CredentialsPath()); err == nil {
		svc, err := gmail.NewService(ctx, cfg.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("gmail auth: %w", err)
		}
		logger.Info("using gmail backend")
		return gmail.NewBackend(svc), nil
	}
	logger.Info("no gmail credentials, using demo mailbox",
		zap.String("expected", cfg.CredentialsPath()))
	return state.NewStaticBackend(state.SampleEmails(), nil), nil
}

// newLLMClient builds the configured provider. Without one the session still
// runs; the assistant degrades to its keyword fallback.
func newLLMClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) llm.Client {
	switch cfg.Provider {
	case config.ProviderMistral:
		if c, err := llm.NewMistral(cfg.MistralAPIKey, cfg.MistralModel); err == nil {
			logger.Info("using mistral provider")
			return c
		}
	case config.ProviderGemini:
		if c, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel); err == nil {
			logger.Info("using gemini provider")
			return c
		}
	}
	logger.Warn("no LLM provider configured, assistant limited to keyword fallback")
	return llm.Disabled{}
}
