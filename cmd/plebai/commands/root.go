package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"plebai/internal/app"
	"plebai/internal/config"
)

var (
	home       string
	configPath string
	passphrase string
	agent      string
	relays     []string
	method     string
	useWebLn   bool
	logLevel   string
	appCtx     *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:           "plebai",
		Short:         "Encrypted conversations with Nostr AI agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
				return err
			}
			log := newLogger(cfg.Level())
			appCtx, err = app.NewWire(cmd.Context(), app.Config{
				Settings: cfg,
				Logger:   log,
				OnAuth: func(url string) {
					fmt.Fprintf(cmd.ErrOrStderr(), "approve this client in your signer: %s\n", url)
				},
			})
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "data dir (default ~/.plebai)")
	pf.StringVarP(&configPath, "config", "c", "", "config file (default <home>/config.yaml)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase sealing the key file")
	pf.StringVar(&agent, "agent", "", "agent public key (hex or npub)")
	pf.StringSliceVar(&relays, "relay", nil, "relay url, repeatable")
	pf.StringVar(&method, "method", "", "secret key method: throwaway, localstorage or nip07")
	pf.BoolVar(&useWebLn, "webln", false, "pay invoices through the nwc wallet")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(initCmd(), whoamiCmd(), sendCmd(), listenCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// loadSettings applies flags that were set on top of the file and environment.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault(home)
	}
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("home") {
		cfg.Home = home
	}
	if f.Changed("passphrase") {
		cfg.Passphrase = passphrase
	}
	if f.Changed("agent") {
		cfg.Agent = agent
	}
	if f.Changed("relay") {
		cfg.Relays = relays
	}
	if f.Changed("method") {
		cfg.SecretKeyMethod = method
	}
	if f.Changed("webln") {
		cfg.UseWebLn = useWebLn
	}
	if f.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}
