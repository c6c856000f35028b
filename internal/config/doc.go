// Package config loads, normalizes, and validates subedit configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files, and honours the SUBEDIT_ROOT_DIR environment override.
// Obtain settings through Load so callers receive absolute paths, canonical
// log settings, and clear validation errors.
package config
