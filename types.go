package spark

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ash-project/spark-sub001/i18n"
)

// ValidateOpt bundles per-call validation options. When several are passed
// the last one wins.
type ValidateOpt struct {
	// Registry answers protocol and behaviour queries. Nil means
	// DefaultRegistry.
	Registry Registry
	// Logger receives deprecation notices. Nil means the package logger.
	Logger *zerolog.Logger
}

var (
	loggerMu sync.RWMutex
	logger   = zerolog.New(os.Stderr).With().Timestamp().Str("component", "spark").Logger()
)

// SetLogger replaces the package logger used when ValidateOpt.Logger is nil.
func SetLogger(l zerolog.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// evalCtx is threaded through recursive evaluation instead of ambient state.
type evalCtx struct {
	registry Registry
	log      zerolog.Logger
}

func newEvalCtx(opts []ValidateOpt) *evalCtx {
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	c := &evalCtx{registry: opt.Registry}
	if c.registry == nil {
		c.registry = DefaultRegistry
	}
	if opt.Logger != nil {
		c.log = *opt.Logger
	} else {
		c.log = Logger()
	}
	return c
}

// deprecated emits a notice for a supplied deprecated option.
func (c *evalCtx) deprecated(key Atom, reason string) {
	c.log.Warn().
		Str("option", string(key)).
		Str("reason", reason).
		Msg(i18n.T("deprecated", map[string]string{"key": Inspect(key), "reason": reason}))
}
