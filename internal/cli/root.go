package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MiniCatalog/internal/catalog"
	"MiniCatalog/internal/config"
	"MiniCatalog/pkg/kit"
)

const service = "catalog"

type rootFlags struct {
	configFile  string
	dataFile    string
	logLevel    string
	metricsFile string
}

// app is the state one invocation opens before a subcommand runs.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	reg   *prometheus.Registry
	store *catalog.FileStore
}

// Execute runs the command tree with args and writes command output to out.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func newRootCmd(a *app) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Manage a file-backed product catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", config.DefaultFile, "YAML config file")
	pf.StringVar(&flags.dataFile, "file", "", "catalog backing file (overrides data.file)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (overrides log.level)")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "write prometheus metrics here on exit (overrides metrics.file)")

	cmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
	)
	return cmd
}

func (a *app) open(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.Load(flags.configFile, config.DefaultEnvFile)
	if err != nil {
		return err
	}

	fs := cmd.Flags()
	if fs.Changed("file") {
		cfg.Data.File = flags.dataFile
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if fs.Changed("metrics-file") {
		cfg.Metrics.File = flags.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := kit.NewLogger(service, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = log.With(zap.String("run_id", uuid.NewString()))
	log.Debug("config loaded", zap.Stringer("config", cfg))

	a.cfg = cfg
	a.log = log
	a.reg = prometheus.NewRegistry()
	a.store = catalog.NewFileStore(cfg.Data.File, catalog.StoreDeps{
		Log:     log,
		Metrics: kit.NewStoreMetrics(a.reg, service),
	})
	return nil
}

func (a *app) close() error {
	if a.log == nil {
		return nil
	}
	defer func() { _ = a.log.Sync() }()

	if a.cfg.Metrics.File == "" {
		return nil
	}
	if err := kit.WriteMetricsFile(a.cfg.Metrics.File, a.reg); err != nil {
		a.log.Error("write metrics file failed", zap.Error(err))
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
