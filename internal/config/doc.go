// Package config loads service settings from defaults, an optional config
// file and environment variables using viper.
package config
