// Package cli implements the autotokenizer command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/born-ml/autotokenizer/internal/auto"
	"github.com/born-ml/autotokenizer/internal/config"
	"github.com/born-ml/autotokenizer/internal/hub"
	"github.com/born-ml/autotokenizer/internal/logging"
)

// app is the state shared by all commands once flags are parsed.
type app struct {
	configPath  string
	output      string
	logLevel    string
	offline     bool
	showMetrics bool

	cfg      *config.Config
	logger   *zap.Logger
	metrics  *prometheus.Registry
	registry *auto.Registry
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "autotokenizer",
		Short: "Resolve and load tokenizers for pretrained models",
		Long: `autotokenizer works out which tokenizer class a model needs and loads it.

A model can be named by a built-in pretrained name, a community repository id
or a local directory.

Examples:
  autotokenizer resolve bert-base-uncased --dry-run
  autotokenizer resolve ./my_model --use-fast --encode "Hello world"
  autotokenizer list architectures
  autotokenizer list pretrained ernie-3.0
  autotokenizer verify
  autotokenizer resolve t5-small --dry-run --metrics`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.logger != nil {
				defer a.logger.Sync() //nolint:errcheck // Sync fails on stderr for some terminals.
			}
			if a.showMetrics {
				return a.printMetrics(a.printer(cmd.OutOrStdout()))
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default is ./autotokenizer.yaml)")
	flags.StringVarP(&a.output, "output", "o", "table", "Output format (table|json|yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	flags.BoolVar(&a.offline, "offline", false, "Never access the network")
	flags.BoolVar(&a.showMetrics, "metrics", false, "Print resolver metrics after the command")

	rootCmd.AddCommand(
		newResolveCmd(a),
		newListCmd(a),
		newConfigCmd(a),
		newVerifyCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("offline") {
		cfg.Hub.Offline = a.offline
	}
	switch a.output {
	case outputTable, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}

	a.cfg = cfg
	a.logger = logging.New(cfg.Log)
	a.metrics = prometheus.NewRegistry()
	return nil
}

// registryFor builds the registry on first use.
func (a *app) registryFor() (*auto.Registry, error) {
	if a.registry != nil {
		return a.registry, nil
	}

	client, err := hub.NewClient(a.cfg.HubOptions(a.logger)...)
	if err != nil {
		return nil, err
	}
	reg, err := auto.NewRegistry(
		auto.WithLogger(a.logger),
		auto.WithFileResolver(client),
		auto.WithMetrics(auto.NewMetrics(a.cfg.Metrics.Namespace, a.metrics)),
	)
	if err != nil {
		return nil, err
	}
	a.registry = reg
	return reg, nil
}

func (a *app) printer(w io.Writer) *printer {
	return &printer{w: w, format: a.output}
}
