package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/yardcms/internal/backup"
	"github.com/dmitrijs2005/yardcms/internal/kv"
	"github.com/dmitrijs2005/yardcms/internal/kv/kvopen"
	"github.com/dmitrijs2005/yardcms/internal/logging"
	"github.com/dmitrijs2005/yardcms/internal/server"
	"github.com/dmitrijs2005/yardcms/internal/server/config"
	"github.com/spf13/cobra"
)

// Deps carries the streams and factories the commands use. Zero fields are
// filled with production defaults by NewRootCmd.
type Deps struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	ConfigPath  string
	StoreDriver string
	DSN         string
	LogLevel    string

	OpenStore func(ctx context.Context, c kvopen.Config) (kv.Store, error)
	NewS3Sink func(ctx context.Context, c backup.S3Config) (backup.Sink, error)

	prompt *prompter
}

func (d *Deps) applyDefaults() {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Err == nil {
		d.Err = os.Stderr
	}
	if d.OpenStore == nil {
		d.OpenStore = kvopen.Open
	}
	if d.NewS3Sink == nil {
		d.NewS3Sink = func(ctx context.Context, c backup.S3Config) (backup.Sink, error) {
			return backup.NewS3Sink(ctx, c)
		}
	}
}

// prompter writes prompts to Err so that Out carries only command output.
func (d *Deps) prompter() *prompter {
	if d.prompt == nil {
		d.prompt = newPrompter(d.In, d.Err)
	}
	return d.prompt
}

// loadConfig reads the server configuration and applies the command-line
// store overrides.
func (d *Deps) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(d.ConfigPath)
	if err != nil {
		return nil, err
	}
	if d.StoreDriver != "" {
		cfg.StoreDriver = d.StoreDriver
	}
	if d.DSN != "" {
		cfg.DatabaseDSN = d.DSN
	}
	if d.LogLevel != "" {
		cfg.LogLevel = d.LogLevel
	}
	return cfg, nil
}

// session is an open store with the content components built on it.
type session struct {
	cfg     *config.Config
	store   kv.Store
	content *server.Components
	logger  logging.Logger
}

// withSession opens the store, runs fn and closes the store again.
func (d *Deps) withSession(ctx context.Context, fn func(s *session) error) error {
	cfg, err := d.loadConfig()
	if err != nil {
		return err
	}
	if cfg.StoreDriver == kvopen.DriverMemory {
		fmt.Fprintln(d.Err, "warning: memory store selected, changes will not persist")
	}

	logger, err := logging.New(d.Err, cfg.LogLevel)
	if err != nil {
		return err
	}

	store, err := d.OpenStore(ctx, cfg.StoreConfig())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	comps, err := server.NewContentComponents(cfg, store, logger)
	if err != nil {
		return errors.Join(err, store.Close())
	}

	runErr := fn(&session{cfg: cfg, store: store, content: comps, logger: logger})
	return errors.Join(runErr, store.Close())
}

func NewRootCmd(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = &Deps{}
	}
	deps.applyDefaults()

	cmd := &cobra.Command{
		Use:           "contentctl",
		Short:         "administer a yardcms site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetIn(deps.In)
	cmd.SetOut(deps.Out)
	cmd.SetErr(deps.Err)

	cmd.PersistentFlags().StringVarP(&deps.ConfigPath, "config", "c", "", "server JSON config file")
	cmd.PersistentFlags().StringVar(&deps.StoreDriver, "store", "", "store driver (memory, redis, postgres, sqlite)")
	cmd.PersistentFlags().StringVar(&deps.DSN, "dsn", "", "database DSN for postgres or sqlite")
	cmd.PersistentFlags().StringVar(&deps.LogLevel, "log-level", "", "log level")

	cmd.AddCommand(
		NewUserCmd(deps),
		NewSeedCmd(deps),
		NewHistoryCmd(deps),
		NewExportCmd(deps),
		NewRemoteCmd(deps),
		NewVersionCmd(deps),
	)
	return cmd
}

// Run executes contentctl with args and returns the process exit code.
func Run(ctx context.Context, deps *Deps, args []string) int {
	if deps == nil {
		deps = &Deps{}
	}
	cmd := NewRootCmd(deps)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(deps.Err, "error:", err)
		return 1
	}
	return 0
}
