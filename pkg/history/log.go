package history

import (
	"io"

	"github.com/charmbracelet/log"
)

// discard swallows tracing when a pass is called without a logger.
var discard = log.New(io.Discard)
