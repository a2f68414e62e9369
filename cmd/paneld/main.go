package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/paneld/internal/auth"
	"github.com/sandeepkv93/paneld/internal/config"
	"github.com/sandeepkv93/paneld/internal/notify"
	"github.com/sandeepkv93/paneld/internal/poll"
	"github.com/sandeepkv93/paneld/internal/reminder"
	"github.com/sandeepkv93/paneld/internal/scheduler"
	"github.com/sandeepkv93/paneld/internal/snapshot"
	"github.com/sandeepkv93/paneld/internal/source"
	"github.com/sandeepkv93/paneld/internal/source/github"
	"github.com/sandeepkv93/paneld/internal/source/gmail"
	"github.com/sandeepkv93/paneld/internal/storage"
	"github.com/sandeepkv93/paneld/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "paneld failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.DesktopNotifications {
		notifier = notify.ExecNotifier{}
	}

	timers := scheduler.NewService(cfg.SchedulerBuffer)
	timers.Start()
	defer timers.Stop()

	reminders := reminder.NewScheduler(timers, repo, notifier)
	if err := reminders.Restore(ctx, repo); err != nil {
		return err
	}

	sources, mailClient, err := buildSources(ctx, cfg)
	if err != nil {
		return err
	}

	orch := poll.NewOrchestrator(sources, snapshot.NewStore(repo), notifier, cfg.PollInterval, cfg.ResultsBuffer)
	go orch.Run(ctx)

	deps := update.Deps{
		Repo:      repo,
		Reminders: reminders,
		Poller:    orch,
		Timers:    timers.C(),
	}
	if mailClient != nil && mailClient.Configured() {
		deps.Mail = mailClient
	}

	program := tea.NewProgram(update.NewModel(deps))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// buildSources wires the two fetchers. An unconfigured source still goes
// into the list; the poll loop skips it until credentials appear on the
// next restart.
func buildSources(ctx context.Context, cfg config.Config) ([]source.Source, *gmail.Client, error) {
	token := cfg.GitHubToken
	if token == "" {
		if cred := auth.Resolve("", cfg.GitHubTokenFile); cred.Kind == auth.KindStatic {
			token = cred.Token
		}
	}
	gh := github.NewClient(github.Config{Token: token, Query: cfg.GitHubQuery})

	httpClient, err := auth.GoogleClient(ctx, cfg.GoogleCredentialsFile, cfg.GoogleTokenFile, gmail.Scopes)
	if err != nil {
		return nil, nil, fmt.Errorf("google auth: %w", err)
	}
	gm, err := gmail.NewClient(ctx, httpClient)
	if err != nil {
		return nil, nil, fmt.Errorf("gmail client: %w", err)
	}

	if !gh.Configured() {
		log.Printf("paneld: github token absent, source disabled")
	}
	if !gm.Configured() {
		log.Printf("paneld: gmail credentials absent, source disabled")
	}
	return []source.Source{gh, gm}, gm, nil
}
