package app

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/crazy-max/archivefs/internal/config"
	"github.com/crazy-max/archivefs/pkg/archive"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// App represents an active archivefs object
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	meta   config.Meta
	cli    config.Cli
}

// New creates new archivefs instance
func New(meta config.Meta, cli config.Cli) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ctx:    ctx,
		cancel: cancel,
		meta:   meta,
		cli:    cli,
	}, nil
}

// Run runs the command selected on the command line
func (c *App) Run(command string) error {
	switch cmd := strings.SplitN(command, " ", 2)[0]; cmd {
	case "list":
		return c.list()
	case "read":
		return c.read()
	case "extract":
		return c.extract()
	default:
		return errors.Errorf("unknown command %q", cmd)
	}
}

// Close closes archivefs
func (c *App) Close() {
	c.cancel()
}

func (c *App) list() error {
	logger := log.With().Str("archive", c.cli.List.Archive).Logger()

	listing, err := archive.List(c.cli.List.Archive, c.cli.List.Path, archive.Opts{
		Context: c.ctx,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(listing)
}

func (c *App) read() error {
	logger := log.With().Str("archive", c.cli.Read.Archive).Logger()

	data, err := archive.Read(c.cli.Read.Archive, c.cli.Read.Path, archive.Opts{
		Context: c.ctx,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)
	return err
}

func (c *App) extract() error {
	logger := log.With().Str("archive", c.cli.Extract.Archive).Logger()

	logger.Info().Msgf("Extracting to %s", c.cli.Extract.Dest)
	written, err := archive.Extract(c.cli.Extract.Archive, c.cli.Extract.Dest, c.cli.Extract.Paths, archive.Opts{
		Context: c.ctx,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	logger.Info().Msgf("%d entries extracted", len(written))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(written)
}
