package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jguan/ollama-model-manager/pkg/config"
	"github.com/jguan/ollama-model-manager/pkg/download"
	"github.com/jguan/ollama-model-manager/pkg/infra/logger"
	"github.com/jguan/ollama-model-manager/pkg/infra/ollama"
	"github.com/jguan/ollama-model-manager/pkg/infra/store"
	"github.com/jguan/ollama-model-manager/pkg/service"
)

type RootCommand struct {
	cmd       *cobra.Command
	cfg       *config.Config
	svc       *service.ModelService
	opts      *OutputOptions
	formatStr string
}

func NewRootCommand() *RootCommand {
	root := &RootCommand{
		opts: NewOutputOptions(),
	}

	cmd := &cobra.Command{
		Use:   "omm",
		Short: "OMM - Ollama Model Manager",
		Long: `OMM manages models in a local Ollama runtime.

It lists available models, downloads new ones in the background with
status tracking, and proxies single-shot generation requests, through
both this CLI and an HTTP API.`,
		PersistentPreRunE: root.persistentPreRunE,
	}

	root.registerGlobalFlags(cmd.PersistentFlags())

	root.cmd = cmd

	root.addSubCommands()

	return root
}

func (r *RootCommand) registerGlobalFlags(pflags *pflag.FlagSet) {
	pflags.StringVarP(&r.formatStr, "output", "o", "table", "Output format (table, json, yaml)")
	pflags.BoolVarP(&r.opts.Quiet, "quiet", "q", false, "Suppress output")
	pflags.String("config", "", "Config file path (default: built-in defaults)")

	viper.BindPFlag("output", pflags.Lookup("output"))
	viper.BindPFlag("quiet", pflags.Lookup("quiet"))
	viper.BindPFlag("config", pflags.Lookup("config"))
}

func (r *RootCommand) persistentPreRunE(cmd *cobra.Command, args []string) error {
	r.opts.Format = OutputFormat(r.formatStr)

	cfgPath := viper.GetString("config")
	var err error
	r.cfg, err = config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(logger.Config{
		Level:  r.cfg.Logging.Level,
		Format: r.cfg.Logging.Format,
	})

	var history service.HistoryStore
	if r.cfg.History.Enabled {
		sqliteHistory, err := store.NewSQLiteHistory(r.cfg.History.Path)
		if err != nil {
			logger.Warn("failed to open download history database, using memory store", "error", err)
			history = store.NewMemoryHistory()
		} else {
			history = sqliteHistory
		}
	}

	runtime := ollama.NewProvider(r.cfg.Ollama.BaseURL)
	registry := download.NewRegistry()

	r.svc = service.NewModelService(runtime, registry, history, r.cfg.Ollama.PullTimeoutD, logger.Default())

	return nil
}

func (r *RootCommand) addSubCommands() {
	r.cmd.AddCommand(NewServeCommand(r))
	r.cmd.AddCommand(NewModelCommand(r))
	r.cmd.AddCommand(NewGenerateCommand(r))
	r.cmd.AddCommand(NewVersionCommand(r))
}

func (r *RootCommand) Config() *config.Config {
	return r.cfg
}

func (r *RootCommand) Service() *service.ModelService {
	return r.svc
}

// Execute runs the root command.
func Execute() {
	root := NewRootCommand()
	if err := root.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
