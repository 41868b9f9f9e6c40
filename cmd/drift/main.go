// Command drift opens the game window. It takes no flags; settings come from
// drift.yaml in the working directory when present.
package main

import (
	"fmt"
	"os"

	"github.com/plus3/drift/internal/config"
	"github.com/plus3/drift/internal/logging"
	"github.com/plus3/drift/internal/platform"
	"github.com/rotisserie/eris"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, true))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.FileName)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return platform.Run(cfg, logger)
}
