package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Settings keys
const (
	KeyPort        = "port"
	KeyHost        = "host"
	KeyDownloadDir = "download_dir"
	KeyFetcher     = "fetcher"
	KeyFormat      = "format"
	KeyExt         = "ext"
	KeyYTDLPPath   = "ytdlp_path"
	KeyRateLimit   = "rate_limit"
	KeyHTTPTimeout = "http_timeout"
	KeyJobTTL      = "job_ttl"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyLogFile     = "log_file"
)

// Default values
const (
	DefaultPort        = 5000
	DefaultHost        = "0.0.0.0"
	DefaultDownloadDir = "static/downloads"
	DefaultFetcher     = "auto"
	DefaultYTDLPPath   = "yt-dlp"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultJobTTL      = time.Hour
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Environment and config file lookup
const (
	EnvPrefix      = "YTWEB"
	EnvPort        = "PORT"
	ConfigFileName = "ytweb"
)

// ConfigPaths are searched for an optional ytweb.{yaml,json,toml} file
var ConfigPaths = []string{".", "/etc/ytweb"}

// Settings manages application configuration
type Settings struct {
	v *viper.Viper
}

// NewSettings creates settings from defaults and environment variables
func NewSettings() *Settings {
	v := viper.New()

	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyHost, DefaultHost)
	v.SetDefault(KeyDownloadDir, DefaultDownloadDir)
	v.SetDefault(KeyFetcher, DefaultFetcher)
	v.SetDefault(KeyFormat, "")
	v.SetDefault(KeyExt, "")
	v.SetDefault(KeyYTDLPPath, DefaultYTDLPPath)
	v.SetDefault(KeyRateLimit, "")
	v.SetDefault(KeyHTTPTimeout, DefaultHTTPTimeout)
	v.SetDefault(KeyJobTTL, DefaultJobTTL)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// PORT, as set by hosting platforms, wins over YTWEB_PORT and the config
	// file. A later Set still overrides it.
	if port, ok := os.LookupEnv(EnvPort); ok && strings.TrimSpace(port) != "" {
		v.Set(KeyPort, strings.TrimSpace(port))
	}

	return &Settings{v: v}
}

// Load creates settings and merges the optional config file. A missing file is
// not an error.
func Load() (*Settings, error) {
	s := NewSettings()
	s.v.SetConfigName(ConfigFileName)
	for _, p := range ConfigPaths {
		s.v.AddConfigPath(p)
	}

	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return s, nil
}

// LoadFile creates settings reading the given config file
func LoadFile(path string) (*Settings, error) {
	s := NewSettings()
	s.v.SetConfigFile(path)
	if err := s.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return s, nil
}

// ConfigFileUsed returns the config file that was read, if any
func (s *Settings) ConfigFileUsed() string {
	return s.v.ConfigFileUsed()
}

// Set overrides a key, used by command line flags
func (s *Settings) Set(key string, value any) {
	s.v.Set(key, value)
}

// GetPort returns the listening port. Invalid values fall back to DefaultPort.
func (s *Settings) GetPort() int {
	raw := strings.TrimSpace(s.v.GetString(KeyPort))
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		logrus.WithField("value", raw).Warnf("Invalid port, using %d", DefaultPort)
		return DefaultPort
	}
	return port
}

// GetHost returns the interface to bind
func (s *Settings) GetHost() string {
	return strings.TrimSpace(s.v.GetString(KeyHost))
}

// GetAddr returns host:port for the HTTP listener
func (s *Settings) GetAddr() string {
	return net.JoinHostPort(s.GetHost(), strconv.Itoa(s.GetPort()))
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := strings.TrimSpace(s.v.GetString(KeyDownloadDir))
	if dir == "" {
		return DefaultDownloadDir
	}
	return dir
}

// GetFetcher returns the fetch backend name
func (s *Settings) GetFetcher() string {
	name := strings.ToLower(strings.TrimSpace(s.v.GetString(KeyFetcher)))
	if name == "" {
		return DefaultFetcher
	}
	return name
}

// GetFormat returns the format selector passed to the backend
func (s *Settings) GetFormat() string {
	return strings.TrimSpace(s.v.GetString(KeyFormat))
}

// GetExt returns the desired extension, without dot
func (s *Settings) GetExt() string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s.v.GetString(KeyExt))), ".")
}

// GetYTDLPPath returns the yt-dlp executable
func (s *Settings) GetYTDLPPath() string {
	path := strings.TrimSpace(s.v.GetString(KeyYTDLPPath))
	if path == "" {
		return DefaultYTDLPPath
	}
	return path
}

// GetRateLimitBps returns the download rate limit in bytes per second, 0 if unlimited
func (s *Settings) GetRateLimitBps() int64 {
	return ParseRate(s.v.GetString(KeyRateLimit))
}

// GetHTTPTimeout returns the timeout for metadata requests
func (s *Settings) GetHTTPTimeout() time.Duration {
	d := s.v.GetDuration(KeyHTTPTimeout)
	if d <= 0 {
		return DefaultHTTPTimeout
	}
	return d
}

// GetJobTTL returns how long finished jobs stay in the journal
func (s *Settings) GetJobTTL() time.Duration {
	d := s.v.GetDuration(KeyJobTTL)
	if d <= 0 {
		return DefaultJobTTL
	}
	return d
}

// GetLogLevel returns the log level name
func (s *Settings) GetLogLevel() string {
	level := strings.TrimSpace(s.v.GetString(KeyLogLevel))
	if level == "" {
		return DefaultLogLevel
	}
	return level
}

// GetLogFormat returns "text" or "json"
func (s *Settings) GetLogFormat() string {
	format := strings.ToLower(strings.TrimSpace(s.v.GetString(KeyLogFormat)))
	if format != "json" {
		return DefaultLogFormat
	}
	return format
}

// GetLogFile returns the optional log file path
func (s *Settings) GetLogFile() string {
	return strings.TrimSpace(s.v.GetString(KeyLogFile))
}

// ParseRate parses rates such as "2MiB/s", "500KiB/s" or "1000000".
// Invalid or non-positive values mean unlimited (0).
func ParseRate(s string) int64 {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "/S"))

	mul := int64(1)
	for _, suf := range []struct {
		name string
		mul  int64
	}{
		{"KIB", 1024},
		{"MIB", 1024 * 1024},
		{"GIB", 1024 * 1024 * 1024},
		{"KB", 1000},
		{"MB", 1000 * 1000},
		{"GB", 1000 * 1000 * 1000},
		{"B", 1},
	} {
		if strings.HasSuffix(s, suf.name) {
			mul = suf.mul
			s = strings.TrimSpace(strings.TrimSuffix(s, suf.name))
			break
		}
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil || val <= 0 {
		return 0
	}
	return int64(val * float64(mul))
}
