package main

import (
	"context"

	"github.com/bashhack/dbbak/internal/common"
	"github.com/bashhack/dbbak/internal/config"
)

// handoff is the default Backuper. The mariabackup workflow plugs in here;
// until then it only reports that dbbak is ready to start it.
type handoff struct {
	cfg    *config.Config
	logger common.Logger
}

func newHandoff(cfg *config.Config, logger common.Logger) *handoff {
	return &handoff{cfg: cfg, logger: logger}
}

func (h *handoff) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.logger.Info("Initialization complete, handing off to backup workflow")
	h.logger.Verbose("Logs: %s, lock: %s", h.cfg.LogDir, h.cfg.LockFile)
	return nil
}
