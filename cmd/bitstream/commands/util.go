package commands

import (
	"errors"
	"fmt"

	"github.com/thebagchi/bitstream-go/internal/config"
	"github.com/thebagchi/bitstream-go/internal/layout"
	"github.com/thebagchi/bitstream-go/internal/logger"
	"github.com/thebagchi/bitstream-go/lib/bitstream"
)

var errNoLayout = errors.New("no layout: set layout.fields in the config or pass --field")

// setup loads the configuration, applies the persistent flags and
// initializes logging.
func setup(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if len(opts.fields) > 0 {
		l, err := layout.Parse(cfg.Layout.Name, opts.fields)
		if err != nil {
			return nil, err
		}
		cfg.Layout = *l
	}
	if len(cfg.Layout.Fields) == 0 {
		return nil, errNoLayout
	}

	if opts.trace {
		cfg.Output.Trace = true
	}
	if err := logger.Init(cfg.Logging.Logger()); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	bitstream.EnableTrace = cfg.Output.Trace
	if cfg.Output.Trace {
		logger.SetLevel("DEBUG")
	}

	logger.Debug("configuration loaded",
		logger.KeyConfig, opts.cfgFile,
		logger.KeyFormat, cfg.Output.Format,
		"fields", len(cfg.Layout.Fields),
	)
	return cfg, nil
}
