// Package config defines the application configuration structure and
// loading logic. Configuration is read from an optional config.yaml in the
// working directory and from POSTFLOW_-prefixed environment variables, with
// the environment taking precedence, and is validated before use.
package config
