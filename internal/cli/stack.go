package cli

import (
	"context"
	"fmt"

	"github.com/soyeahso/arise/internal/action"
	"github.com/soyeahso/arise/internal/config"
	"github.com/soyeahso/arise/internal/domain"
	"github.com/soyeahso/arise/internal/llm"
	"github.com/soyeahso/arise/internal/session"
	"github.com/soyeahso/arise/internal/speech"
	"github.com/soyeahso/arise/internal/store"
	"github.com/soyeahso/arise/internal/task"
)

// stack bundles everything a running conversation needs. Both the
// gateway and the interactive chat command assemble the same stack.
type stack struct {
	engine  *session.Engine
	tracker *task.Tracker
	todos   action.TodoStore

	// taskSink persists task transitions when a database is open; nil
	// for the memory store. Callers wire it (possibly composed with
	// other listeners) via tracker.OnTransition.
	taskSink func(domain.ActionTask)

	close func()
}

// buildStack assembles the stores, capability providers, model client
// and conversation engine from config.
func buildStack(ctx context.Context, cfg config.Config) (*stack, error) {
	if cfg.Model.APIKey == "" {
		return nil, fmt.Errorf("no model API key configured (set model.apiKey or ARISE_GEMINI_API_KEY)")
	}

	var (
		turns    store.TurnStore
		todos    action.TodoStore
		taskSink func(domain.ActionTask)
		closeFn  = func() {}
	)

	if cfg.Session.Store == "sqlite" {
		db, err := store.Open(paths.Database, log)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		turns = store.NewSQLiteTurnStore(db)
		todos = store.NewSQLiteTodoStore(db)
		taskSink = store.NewSQLiteTaskStore(db).Save
		closeFn = func() { db.Close() }
		log.Info().Str("path", paths.Database).Msg("using SQLite stores")
	} else {
		turns = store.NewMemoryTurnStore()
		todos = store.NewMemoryTodoStore()
		log.Info().Msg("using in-memory stores")
	}

	var email action.EmailTransport = action.SimulatedEmailTransport{}
	if cfg.Actions.Gmail.CredentialsPath != "" && cfg.Actions.Gmail.TokenPath != "" {
		gmail, err := action.NewGmailTransport(ctx, cfg.Actions.Gmail.CredentialsPath, cfg.Actions.Gmail.TokenPath)
		if err != nil {
			closeFn()
			return nil, fmt.Errorf("initializing gmail transport: %w", err)
		}
		email = gmail
		log.Info().Msg("gmail transport enabled")
	}

	dispatcher := action.NewDispatcher(log,
		action.NewClockProvider(),
		action.NewCalcProvider(),
		action.NewWeatherProvider(cfg.Actions.OpenWeatherKey),
		action.NewGitHubProvider(cfg.Actions.GitHubToken),
		action.NewSearchProvider(cfg.Actions.SearchKey),
		action.NewTodoProvider(todos),
		action.NewEmailProvider(email),
	)

	tracker := task.NewTracker(log)
	client := llm.NewGeminiClient(cfg.Model.APIKey, cfg.Model.Models)
	voice := speech.NewManager(speech.NopSynthesizer{}, speech.NopRecognizer{}, log)

	engine, err := session.NewEngine(ctx, session.Config{
		SessionID:    cfg.Session.ID,
		Client:       client,
		Dispatcher:   dispatcher,
		Tracker:      tracker,
		Turns:        turns,
		Voice:        voice,
		SpeakReplies: cfg.Speech.Enabled,
		MaxTokens:    cfg.Model.MaxTokens,
		Temperature:  cfg.Model.Temperature,
		Log:          log,
	})
	if err != nil {
		closeFn()
		return nil, err
	}

	return &stack{
		engine:   engine,
		tracker:  tracker,
		todos:    todos,
		taskSink: taskSink,
		close:    closeFn,
	}, nil
}

// loadValidConfig loads the config file and fails on validation issues.
func loadValidConfig() (config.Config, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return config.Config{}, err
	}

	issues := config.Validate(&cfg)
	if len(issues) > 0 {
		for _, issue := range issues {
			log.Error().Str("path", issue.Path).Msg(issue.Message)
		}
		return config.Config{}, fmt.Errorf("config validation failed with %d issue(s)", len(issues))
	}
	return cfg, nil
}
