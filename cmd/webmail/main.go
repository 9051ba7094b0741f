// Webmail is a terminal client for the webmail REST API: it lists the
// inbox, sent, and archive mailboxes, opens and archives emails, and
// composes new mail and replies.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/nhle/webmail/internal/app"
	"github.com/nhle/webmail/internal/credential"
	"github.com/nhle/webmail/internal/model"
	"github.com/nhle/webmail/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "Path to config file")
	envFile := flag.String("env-file", "", "Path to env file loaded before the config")
	logFile := flag.String("log-file", "", "Path to log file (overrides log.file)")

	flag.Parse()

	if err := run(*configPath, *envFile, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, "webmail:", err)
		os.Exit(1)
	}
}

func run(configPath, envFile, logFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("godotenv.Load failed: %w", err)
		}
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if logFile == "" {
		logFile = cfg.Log.File
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := tea.LogToFile(logFile, "webmail")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	s, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	log.Printf("starting with config %s, server %q", configPath, cfg.Server.BaseURL)

	m := app.New(app.Options{
		Config:     *cfg,
		ConfigPath: configPath,
		Token:      credential.LookupToken(),
		Store:      s,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
