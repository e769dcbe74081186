// Package logging provides structured logging for nmwifi.
//
// It wraps a global zap logger. Logging is silent unless a level is given
// on the command line, in the config file or through NMWIFI_LOG_LEVEL.
// Output always goes to a file because the terminal belongs to the TUI:
//
//	if err := logging.Initialize("debug", ""); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Every nmcli invocation is recorded through LogCommand, which masks
// passwords before they are written.
package logging
