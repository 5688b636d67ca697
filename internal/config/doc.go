// Package config loads the storefront configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/storefront/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// Files ending in .yaml or .yml are parsed as YAML with the same keys.
//
// # Default Values
//
//   - Catalog API: https://fakestoreapi.com
//   - Data directory: ~/.local/share/storefront
//   - Log file: <data_dir>/storefront.log at level info
//   - Storage: sqlite at <data_dir>/store.db (file backend: store.toml)
//   - Redis: 127.0.0.1:6379 with key prefix "storefront:"
//   - Metrics listener: disabled
//   - Initial fetch retries: 3
//
// # TOML Format
//
//	base_url = "https://fakestoreapi.com"
//	data_dir = "~/.local/share/storefront"
//	log_level = "info"
//	metrics_addr = "127.0.0.1:9102"
//	fetch_retries = 3
//
//	[storage]
//	backend = "sqlite"   # sqlite | file | redis | memory
//	path = "~/.local/share/storefront/store.db"
//	redis_addr = "127.0.0.1:6379"
//	redis_prefix = "storefront:"
//
// Every field is optional. Tilde expansion is performed on data_dir,
// log_file and storage.path.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML or YAML parsing errors
//   - An unknown storage backend name
//
// Missing config files are NOT an error; the storefront runs out of the
// box against the public catalog API.
package config
