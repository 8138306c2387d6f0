package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/JackWReid/redline/internal/backend"
	"github.com/JackWReid/redline/internal/config"
)

// rootOptions carries global flag state shared by the subcommands.
type rootOptions struct {
	configPath string
	verbose    bool

	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "redline",
		Short:         "Writing assistant: proofread, rewrite, and analyse documents",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath(), "path to the config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newStatsCmd(opts))
	cmd.AddCommand(newToolCmd(opts))
	return cmd
}

func (o *rootOptions) setup() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg

	zcfg := zap.NewProductionConfig()
	if o.verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	log, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	o.log = log
	return nil
}

// provider constructs the configured backend.
func (o *rootOptions) provider() (backend.Provider, error) {
	switch o.cfg.Provider {
	case config.ProviderOpenAI:
		return backend.NewOpenAIProvider(os.Getenv("OPENAI_API_KEY"), o.cfg.Model, o.log)
	case config.ProviderLocal:
		if o.cfg.DictionaryPath != "" {
			if p, err := backend.NewLocalProviderFromFile(o.cfg.DictionaryPath, o.log); err == nil {
				return p, nil
			}
			o.log.Warn("dictionary unavailable, running with an empty model",
				zap.String("path", o.cfg.DictionaryPath))
		}
		return backend.NewLocalProvider(nil, o.log), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", o.cfg.Provider)
	}
}

// readInput returns the document text from the named file, or from stdin when
// name is empty and stdin is piped rather than a terminal.
func readInput(name string) (string, error) {
	if name != "" {
		data, err := os.ReadFile(name)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no file given and stdin is a terminal")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".redline.yaml"
	}
	return filepath.Join(home, ".redline.yaml")
}
