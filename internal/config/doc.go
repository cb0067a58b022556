// Package config handles configuration loading, parsing, and validation.
// Settings come from environment variables and an optional config file,
// and are exposed as typed structs so components receive only the
// configuration they need instead of reaching into ambient process state.
package config
