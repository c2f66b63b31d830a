package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"notebookagent/agent"
	"notebookagent/assembler"
	"notebookagent/config"
	"notebookagent/model"
	"notebookagent/provider"
	"notebookagent/storage"
	"notebookagent/tools"
)

// session is everything a command needs to run turns against one store.
type session struct {
	cfg    *config.Config
	store  storage.Store
	engine *agent.Engine
	client *provider.ChatClient
	closer io.Closer
}

func (s *session) Close() error {
	return s.closer.Close()
}

// storeLabel describes the backing store for the status line.
func (s *session) storeLabel() string {
	return fmt.Sprintf("%s:%s", s.cfg.Store, s.cfg.Vault())
}

func (s *session) defaultScope() model.ContextScope {
	scope, err := model.ParseScope(s.cfg.ContextScope)
	if err != nil {
		config.Log.WithError(err).Warn("invalid context_scope, using subtree")
		return model.ScopeSubtree
	}
	return scope
}

// openStore opens the configured backend at the vault path.
func openStore(cfg *config.Config) (storage.Store, io.Closer, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		if err := config.EnsureDir(filepath.Dir(cfg.Vault())); err != nil {
			return nil, nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		s, err := storage.NewSQLiteStore(cfg.Vault())
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		s, err := storage.NewFSStore(cfg.Vault())
		if err != nil {
			return nil, nil, err
		}
		return s, io.NopCloser(nil), nil
	}
}

// openSession loads config, starts the debug log and wires the store,
// provider client, context assembler and tool dispatcher into an engine.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logCloser, err := config.InitDebugLog(cfg.DataDir(), debugFlag)
	if err != nil {
		return nil, err
	}

	store, storeCloser, err := openStore(cfg)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	client := provider.NewChatClient(cfg)
	engine := agent.NewEngine(client, assembler.New(store, cfg.StoreCap), tools.NewDispatcher(store))

	config.Log.WithFields(logrus.Fields{
		"session":  engine.SessionID(),
		"provider": cfg.ActiveProvider,
		"store":    cfg.Store,
		"vault":    cfg.Vault(),
	}).Info("session opened")

	return &session{
		cfg:    cfg,
		store:  store,
		engine: engine,
		client: client,
		closer: closers{logCloser, storeCloser},
	}, nil
}
