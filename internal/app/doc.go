// Package app is the composition root for Showroom.
//
// Run loads the TOML config, opens the zap file logger, reads display
// preferences, then wires the pieces together:
//
//	config.Load()        ~/.config/showroom/config.toml (defaults when missing)
//	logging.New()        file logger; the TUI owns stdout
//	localstore.NewFile() favorites document on disk
//	favorites.Load()     favorite ids, tolerant of malformed data
//	fakestore.NewClient() rate limited, circuit broken HTTP client
//	catalog.New()        load state, filters, derived results
//	ui.NewProgram()      Bubble Tea program (blocks in Run)
//
// The program and a shutdown watcher run in an errgroup. Cancelling the
// context (SIGINT/SIGTERM) asks the program to quit so the terminal is
// restored; quitting from the keyboard cancels the watcher.
//
// Fatal errors are limited to startup: an unreadable config, an invalid API
// URL or an unusable log file. Network failures after startup surface in the
// UI and never end the process.
package app
