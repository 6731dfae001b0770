package runtime

import (
	"log/slog"

	"github.com/aretw0/waypoint/internal/logging"
)

func slogDiscard() *slog.Logger { return logging.NewNop() }
