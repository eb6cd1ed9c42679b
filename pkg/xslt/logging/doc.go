// Package logging provides a minimal logging facade for the libxslt wrapper.
//
// The Logger interface wraps a subset of log/slog so applications can plug in
// their own implementation for testing or for integration with an existing
// logging system. Two adapters ship with the package:
//
//	// slog (nil binds to slog.Default())
//	logger := logging.New(nil)
//
//	// zap
//	zl, _ := zap.NewProduction()
//	logger := logging.NewZap(zl)
//
// The library logs background task lifecycle at debug level and failures that
// cannot be returned to a caller (for example a panicking completion callback)
// at error level. Nop discards everything and is the default when a Config
// leaves the logger unset.
package logging
