package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/liminalcash/nimchat/internal/auth"
	"github.com/liminalcash/nimchat/internal/client"
	"github.com/liminalcash/nimchat/internal/config"
	"github.com/liminalcash/nimchat/internal/dispatcher"
	"github.com/liminalcash/nimchat/internal/models"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	client     *client.Client
	dispatcher *dispatcher.EventDispatcher
	model      *AppModel
	logFile    io.Closer
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	if !cfg.IsValid() {
		return nil, fmt.Errorf("no access token configured, run 'nimchat profile add' first")
	}

	logger, logFile := newLogger()

	// Token is re-read from config on every reconnect attempt
	tokens := auth.TokenFunc(cfg.GetAccessToken)

	cl := client.New(client.Options{
		URL:    cfg.GetWSURL(),
		Tokens: tokens,
		Logger: &logger,
	})

	disp := dispatcher.NewEventDispatcher(cl.Bus())

	model := &AppModel{
		appModel:   createInitialAppModel(),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		client:     cl,
		dispatcher: disp,
		model:      model,
		logFile:    logFile,
	}, nil
}

func (app *Application) Start() error {
	if err := app.client.Connect(context.Background()); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	// Run UI
	p := tea.NewProgram(app.model)
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.client.Close()
	app.dispatcher.Stop()
	if app.logFile != nil {
		app.logFile.Close()
	}
}

// newLogger writes to a file so log lines don't corrupt the terminal UI.
// Falls back to a no-op logger when the file cannot be opened.
func newLogger() (zerolog.Logger, io.Closer) {
	dir := os.Getenv("NIMCHAT_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return zerolog.Nop(), nil
		}
		dir = home
	}

	path := filepath.Join(dir, ".nimchat", "nimchat.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.Nop(), nil
	}

	return zerolog.New(f).With().Timestamp().Logger(), f
}

func createInitialAppModel() models.AppModel {
	// No initial messages in UI - they come from core as single source of truth
	return models.AppModel{
		Messages:  make([]models.Message, 0),
		Status:    "Connecting",
		ConnState: models.Connecting,
	}
}
