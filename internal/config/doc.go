// Package config loads ugl-courses settings.
//
// Values are layered, later layers winning: built-in defaults, an optional
// YAML file, an optional .env file, then UGL_* environment variables. The
// environment variable for a key is its dotted path upper-cased with dots
// turned into underscores, so fetch.timeout is UGL_FETCH_TIMEOUT.
package config
