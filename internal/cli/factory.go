// Package cli implements the oath command line client. Every command runs
// against the same database the server uses, through a bootstrapped session.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oathline/oathline/internal/app"
	"github.com/oathline/oathline/internal/config"
	"github.com/oathline/oathline/internal/repository"
	"github.com/oathline/oathline/internal/session"
)

// env bundles everything a command needs: the wired app, the session
// manager, and the bootstrapped session state.
type env struct {
	app     *app.App
	manager *session.Manager
	state   *session.State
}

// openEnv wires the app and bootstraps the session. The current user id is
// persisted next to the database so repeated invocations reuse the same
// identity instead of creating a fresh guest every run.
func openEnv() (*env, error) {
	// Commands print their own output; keep the logger out of the way.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	cfg := config.Load()

	a, err := app.New(cfg)
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(
		a.AuthService,
		repository.NewGoalRepository(a.DB),
		repository.NewMilestoneRepository(a.DB),
		repository.NewIntegrityRepository(a.DB),
		repository.NewCalendarRepository(a.DB),
	)

	state, err := manager.Bootstrap(savedUserID())
	if err != nil {
		a.Close()
		return nil, err
	}

	err = saveUserID(state.User.ID)
	if err != nil {
		a.Close()
		return nil, err
	}

	return &env{app: a, manager: manager, state: state}, nil
}

func (e *env) close() {
	err := e.app.Close()
	if err != nil {
		slog.Warn("failed to close app", "error", err)
	}
}

func (e *env) userID() string {
	return e.state.User.ID
}

func sessionPath() string {
	return filepath.Join("data", "session")
}

func savedUserID() string {
	b, err := os.ReadFile(sessionPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func saveUserID(userID string) error {
	err := os.MkdirAll(filepath.Dir(sessionPath()), 0o755)
	if err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	return os.WriteFile(sessionPath(), []byte(userID+"\n"), 0o600)
}
