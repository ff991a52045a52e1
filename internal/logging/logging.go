// Package logging sets up the root log15 logger shared across the core: one
// root logger handed out from main, with each package attaching its own
// "module" context rather than constructing loggers independently.
package logging

import (
	"os"

	log "gopkg.in/inconshreveable/log15.v2"
)

// New returns the root logger for the given level name (one of log15's level
// strings: "crit", "error", "warn", "info", "debug"), writing to stderr in
// log15's terminal format. An unrecognised level falls back to "info".
func New(level string) log.Logger {
	lvl, err := log.LvlFromString(level)
	if err != nil {
		lvl = log.LvlInfo
	}
	logger := log.New()
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat())))
	return logger
}

// Module returns a child logger tagged with the given module name.
func Module(parent log.Logger, name string) log.Logger {
	return parent.New("module", name)
}
