package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	pagegen "github.com/goliatone/go-pagegen"
	"github.com/goliatone/go-pagegen/internal/logging"
	"github.com/goliatone/go-pagegen/internal/logging/gologger"
	"github.com/goliatone/go-pagegen/pkg/catalog"
	"github.com/goliatone/go-pagegen/pkg/composer"
	"github.com/goliatone/go-pagegen/pkg/interfaces"
)

type globalOptions struct {
	catalogDir string
	logLevel   string
	logFormat  string
}

func newRootCommand(prompter Prompter) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "pagegen",
		Short:         "Compose landing pages from the v1 template catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.catalogDir, "catalog-dir", "", "load catalog records from this directory instead of the embedded catalog")
	flags.StringVar(&opts.logLevel, "log-level", "error", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log format (json, console, pretty)")

	root.AddCommand(
		newListCommand(opts),
		newComposeCommand(opts, prompter),
		newValidateCommand(opts),
	)
	return root
}

func (o *globalOptions) registry() (*catalog.Registry, error) {
	dir := strings.TrimSpace(o.catalogDir)
	if dir == "" {
		return catalog.Default()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog dir: %s is not a directory", dir)
	}
	return pagegen.LoadCatalog(os.DirFS(dir))
}

func (o *globalOptions) logger() (interfaces.Logger, error) {
	provider, err := gologger.NewProvider(gologger.Config{
		Level:  o.logLevel,
		Format: o.logFormat,
	})
	if err != nil {
		return nil, err
	}
	return logging.ModuleLogger(provider, "cli"), nil
}

func (o *globalOptions) composer(registry *catalog.Registry, extra ...composer.Option) (*composer.Composer, error) {
	logger, err := o.logger()
	if err != nil {
		return nil, err
	}
	options := append([]composer.Option{
		composer.WithRegistry(registry),
		composer.WithLogger(logger),
	}, extra...)
	return composer.New(options...), nil
}
