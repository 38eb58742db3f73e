package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"news_review/internal/app"
	"news_review/internal/config"
	"news_review/internal/domain"
)

type cli struct {
	configPath string
	logLevel   string
	storePath  string
	offline    bool

	app *app.App
}

// newRootCmd builds the command tree with fresh flag state.
func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:   "newsapp",
		Short: "Review and approve articles with an offline-first local store",
		Long: `newsapp keeps a local copy of the article catalogue, lets reviewers
approve articles while offline and reconciles approvals with the remote
service on sync.

Log in as "robert" to see the author view; any other name is a reviewer.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&c.storePath, "db", "", "SQLite database path override")
	root.PersistentFlags().BoolVar(&c.offline, "offline", false, "treat the network as unreachable")

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newSyncCmd(c),
		newArticlesCmd(c),
		newApproveCmd(c),
		newStatusCmd(c),
		newResetCmd(c),
	)
	return root, c
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	root, c := newRootCmd()
	defer c.close()

	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func (c *cli) close() {
	if c.app == nil {
		return
	}
	if err := c.app.Close(); err != nil {
		c.app.Logger.Warn("failed to close app", "error", err)
	}
	c.app = nil
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	// Skip initialization for help commands
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if c.storePath != "" {
		cfg.Store.Path = c.storePath
	}
	if c.offline {
		cfg.Connectivity.Offline = true
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	logger := app.NewTextLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	c.app = a

	if cfg.Remote.Mode == config.RemoteHTTP {
		a.CheckConnectivity(cmd.Context())
	}
	return nil
}

func (c *cli) session(ctx context.Context) (domain.Session, error) {
	sess, err := c.app.Session.Current(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: run `newsapp login <name>` first", err)
	}
	return sess, nil
}
