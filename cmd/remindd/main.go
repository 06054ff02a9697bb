package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/remindd/internal/config"
	"github.com/sandeepkv93/remindd/internal/credential"
	"github.com/sandeepkv93/remindd/internal/logging"
	"github.com/sandeepkv93/remindd/internal/notify"
	"github.com/sandeepkv93/remindd/internal/reminder"
	"github.com/sandeepkv93/remindd/internal/scheduler"
	"github.com/sandeepkv93/remindd/internal/storage"
	"github.com/sandeepkv93/remindd/internal/update"
)

func main() {
	if err := run(os.Args[1:], os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "remindd failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader) error {
	fs := flag.NewFlagSet("remindd", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath(), "path to the YAML config file")
	setPassword := fs.Bool("set-smtp-password", false, "read the SMTP password from stdin, store it in the keyring and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if *setPassword {
		return storePassword(stdin)
	}

	log, closer, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closer.Close()

	repo, err := storage.Open(storage.Options{
		Backend:    cfg.Storage.Backend,
		Path:       cfg.Storage.Path,
		SQLitePath: cfg.Storage.SQLitePath,
	}, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	mailer, err := buildMailer(cfg.Email, log)
	if err != nil {
		return err
	}
	var alerter notify.Alerter = notify.NoopAlerter{}
	if cfg.Alerts.Enabled {
		alerter = notify.NewExecAlerter(cfg.Alerts.Expire, log)
	}
	dispatcher := notify.NewDispatcher(alerter, mailer, reminder.Cooldown, log)

	loop, err := scheduler.New(context.Background(), repo, dispatcher, scheduler.Options{
		Interval:    cfg.Scheduler.TickInterval,
		EventBuffer: cfg.Scheduler.EventBuffer,
		Log:         log,
	})
	if err != nil {
		return err
	}
	dispatcher.OnAction(loop.HandleAction)

	log.Info().
		Str("backend", cfg.Storage.Backend).
		Bool("alerts", cfg.Alerts.Enabled).
		Bool("email", cfg.Email.Enabled).
		Dur("tick", cfg.Scheduler.TickInterval).
		Msg("remindd starting")
	loop.Start()
	defer func() {
		loop.Stop()
		if n := loop.Dropped(); n > 0 {
			log.Warn().Uint64("dropped_events", n).Msg("ui missed scheduler events")
		}
		log.Info().Msg("remindd stopped")
	}()

	program := tea.NewProgram(update.NewModel(loop), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func buildMailer(cfg config.EmailConfig, log zerolog.Logger) (notify.Mailer, error) {
	if !cfg.Enabled {
		return notify.NoopMailer{}, nil
	}
	password := notify.StaticPassword(cfg.Password)
	if cfg.Password == "" && cfg.UseKeyring {
		password = keyringPassword(log)
	}
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		From:        cfg.From,
		FromName:    cfg.FromName,
		To:          cfg.To,
		ImplicitTLS: cfg.ImplicitTLS,
		Timeout:     cfg.Timeout,
	}, password)
}

// keyringPassword opens the keyring on first use so startup does not block
// on an unlock prompt when email never fires.
func keyringPassword(log zerolog.Logger) notify.PasswordFunc {
	var store *credential.Store
	return func() (string, error) {
		if store == nil {
			s, err := credential.Open()
			if err != nil {
				return "", err
			}
			store = s
		}
		pass, err := store.Get(credential.SMTPPasswordKey)
		if errors.Is(err, credential.ErrNotFound) {
			log.Warn().Msg("no smtp password in keyring, run remindd -set-smtp-password")
		}
		return pass, err
	}
}

func storePassword(stdin io.Reader) error {
	fmt.Fprint(os.Stderr, "SMTP password: ")
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read password: %w", err)
	}
	pass := strings.TrimRight(line, "\r\n")
	if pass == "" {
		return errors.New("empty password")
	}
	store, err := credential.Open()
	if err != nil {
		return err
	}
	if err := store.Set(credential.SMTPPasswordKey, pass); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "stored")
	return nil
}
