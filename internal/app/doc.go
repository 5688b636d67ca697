// Package app is the composition root of the storefront TUI.
//
// # Startup
//
//  1. Load config from ~/.config/storefront/config.toml (or YAML)
//  2. Open the JSON log file and build the logrus logger
//  3. Load UI preferences
//  4. Build the catalog client and open the storage backend
//  5. Create the store with the metrics middleware
//  6. Start the persistor and rehydrate in the background
//  7. Serve /metrics and /state when metrics_addr is set
//  8. Start the catalog loader
//  9. Run the UI until the user quits or ctx is cancelled
//
// # Data Flow
//
//	┌──────────┐ FetchProducts ┌──────────┐ Subscribe ┌────────────┐
//	│  loader  │──────────────→│  store   │──────────→│ persistor  │
//	└──────────┘               └────┬─────┘           └─────┬──────┘
//	                                │ GetState              │ SetItem
//	                           ┌────┴─────┐           ┌─────┴──────┐
//	                           │    ui    │           │  storage   │
//	                           └──────────┘           └────────────┘
//
// # Loader
//
// The loader dispatches one catalog fetch at startup. Failed fetches are
// retried with exponential backoff (2s base, 30s cap) up to the configured
// retry count. Every attempt, failed or not, goes through the store so
// isLoading and error are always current.
//
// # Error Handling
//
// Config, log file, catalog client and storage failures abort Run. Fetch
// and storage errors after startup are logged and shown in the UI.
package app
