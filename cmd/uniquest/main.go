// Command uniquest is a terminal client for the UniQuest campus assistant.
//
// Usage:
//
//	uniquest chat                 interactive chat
//	uniquest ask <question>       one-shot question
//	uniquest ingest <file|glob>   upload documents
//	uniquest docs                 list your documents
//	uniquest stats                analytics overview
//	uniquest whoami               show the signed-in user
//
// Configuration is read from $UNIQUEST_CONFIG or
// $XDG_CONFIG_HOME/uniquest/config.toml, after loading a .env file from the
// working directory. UNIQUEST_BACKEND_URL, UNIQUEST_TOKEN and
// UNIQUEST_TOKEN_FILE override the file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/backend"
	"github.com/uniquest/uniquest/jwt"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		printError(os.Stderr, "%v", err)
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(os.Getenv, os.Stdout, os.Stderr)
	defer a.close()
	return a.rootCmd().ExecuteContext(ctx)
}

// errorHint suggests a fix for common failures.
func errorHint(err error) string {
	switch {
	case errors.Is(err, uniquest.ErrUnauthenticated), backend.IsServiceError(err, http.StatusUnauthorized):
		return "Set UNIQUEST_TOKEN, UNIQUEST_TOKEN_FILE or [auth] in the config file."
	case backend.IsServiceError(err, http.StatusForbidden):
		return "Your account is not allowed to do that."
	}
	return ""
}

// app carries state resolved once per invocation and shared by commands.
// Environment variables are only read through getenv.
type app struct {
	getenv func(string) string
	stdout io.Writer
	stderr io.Writer

	configPath string
	backendURL string
	token      string
	logLevel   string

	cfg      *Config
	logger   *slog.Logger
	logClose io.Closer
	identity *jwt.Identity
	client   *backend.Client
}

func newApp(getenv func(string) string, stdout, stderr io.Writer) *app {
	return &app{getenv: getenv, stdout: stdout, stderr: stderr}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "uniquest",
		Short:   "UniQuest campus assistant client",
		Version: version,
		Long: `Ask questions about admissions, scholarships and campus life, answered from
official university documents, and manage the documents you have uploaded.`,
		Example: `  # Start an interactive chat
  $ uniquest chat

  # Ask a single question
  $ uniquest ask "Fee deadline kab hai?"

  # Upload every PDF in a directory
  $ uniquest ingest 'circulars/**/*.pdf'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Name() == "chat")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/uniquest/config.toml)")
	f.StringVar(&a.backendURL, "backend-url", "", "backend base URL")
	f.StringVar(&a.token, "token", "", "bearer token")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		a.chatCmd(),
		a.askCmd(),
		a.ingestCmd(),
		a.docsCmd(),
		a.statsCmd(),
		a.whoamiCmd(),
	)
	return root
}

// setup resolves configuration, logging, identity and the backend client.
func (a *app) setup(interactive bool) error {
	path, required := a.configPath, a.configPath != ""
	if !required {
		path = configPath(a.getenv)
	}
	cfg, err := LoadConfig(path, required, a.getenv)
	if err != nil {
		return err
	}
	if a.backendURL != "" {
		cfg.Backend.URL = a.backendURL
	}
	if a.token != "" {
		cfg.Auth.Token = a.token
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	a.cfg = cfg

	logger, closer, err := setupLogger(cfg.Logging, a.stderr, interactive)
	if err != nil {
		return err
	}
	a.logger, a.logClose = logger, closer

	identity, err := newIdentity(cfg.Auth)
	if err != nil {
		return err
	}
	a.identity = identity
	a.client = backend.New(cfg.Backend.URL, backend.WithLogger(logger))
	logger.Debug("configured", "backend", cfg.Backend.URL, "config", path)
	return nil
}

func (a *app) close() {
	if a.logClose != nil {
		_ = a.logClose.Close()
	}
}

func (a *app) controller() *uniquest.Controller {
	return uniquest.NewController(a.client, a.identity,
		uniquest.WithTimeout(a.cfg.Backend.Timeout),
		uniquest.WithLogger(a.logger),
	)
}

func (a *app) uploader() *uniquest.Uploader {
	return uniquest.NewUploader(a.client, a.identity,
		uniquest.WithUploadDefaults(a.cfg.UploadDefaults()),
		uniquest.WithUploadTimeout(a.cfg.Upload.Timeout),
		uniquest.WithUploadLogger(a.logger),
	)
}
