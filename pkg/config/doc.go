// Package config loads routestore configuration.
//
// Configuration comes from, in increasing precedence: built-in defaults, a
// YAML or TOML file, ROUTESTORE_* environment variables, and command-line
// overrides passed to Finalize.
//
// A file looks like:
//
//	store:
//	  backend: file
//	  data_dir: /var/lib/routestore
//	  max_record_size: 1KiB
//	logging:
//	  level: info
//	  format: text
//
// The same keys are used in TOML ([store], [logging] tables). The file type
// is chosen by extension: .yaml and .yml for YAML, .toml for TOML.
package config
