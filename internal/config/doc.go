// Package config defines the application configuration structure and
// handles loading settings from files and environment variables.
package config
