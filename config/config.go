// Package config resolves the cart service's startup settings. Every setting
// is taken from its command-line flag if one was given, otherwise from its
// environment variable, otherwise from the default.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const (
	EnvListenAddr   = "LISTEN_ADDR"
	EnvPort         = "PORT"
	EnvRedisAddr    = "REDIS_ADDR"
	EnvAdminPort    = "ADMIN_PORT"
	EnvLogLevel     = "LOG_LEVEL"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"

	FlagHostname  = "hostname"
	FlagPort      = "port"
	FlagRedis     = "redis"
	FlagAdminPort = "admin-port"
	FlagLogLevel  = "log-level"
)

// Config holds the resolved settings.
type Config struct {
	Host string
	Port int
	// RedisAddr selects the cart backend: empty means the in-memory store.
	RedisAddr string
	// AdminPort serves the HTTP probes; 0 disables them.
	AdminPort int
	LogLevel  logrus.Level
	// OTLPEndpoint is the collector address; empty disables telemetry export.
	OTLPEndpoint string
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		Host:     "0.0.0.0",
		Port:     7070,
		LogLevel: logrus.InfoLevel,
	}
}

// ListenAddr is the gRPC listen address.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// AdminAddr is the HTTP probe listen address.
func (c Config) AdminAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.AdminPort))
}

// ParseError reports a setting whose value could not be parsed.
type ParseError struct {
	Source string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: cannot parse %s=%q: %v", e.Source, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LookupFunc reads an environment variable; os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// BindFlags declares the flags Load reads on fs.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP(FlagHostname, "H", d.Host, "address the gRPC server listens on (env "+EnvListenAddr+")")
	fs.IntP(FlagPort, "p", d.Port, "port the gRPC server listens on (env "+EnvPort+")")
	fs.StringP(FlagRedis, "r", "", "redis address; the in-memory store is used when empty (env "+EnvRedisAddr+")")
	fs.Int(FlagAdminPort, d.AdminPort, "port of the HTTP health endpoints, 0 disables them (env "+EnvAdminPort+")")
	fs.String(FlagLogLevel, d.LogLevel.String(), "log level (env "+EnvLogLevel+")")
}

// Load resolves the configuration from fs and lookup. Environment values that
// fail to parse fall back to the default and are returned as fallbacks so the
// caller can report them. A flag that fails to parse is an error.
func Load(fs *pflag.FlagSet, lookup LookupFunc) (Config, []*ParseError, error) {
	cfg := Default()
	r := resolver{fs: fs, lookup: lookup}

	resolve(&r, FlagHostname, EnvListenAddr, parseHost, &cfg.Host)
	resolve(&r, FlagPort, EnvPort, parsePort(1), &cfg.Port)
	resolve(&r, FlagRedis, EnvRedisAddr, parseTrimmed, &cfg.RedisAddr)
	resolve(&r, FlagAdminPort, EnvAdminPort, parsePort(0), &cfg.AdminPort)
	resolve(&r, FlagLogLevel, EnvLogLevel, logrus.ParseLevel, &cfg.LogLevel)
	resolve(&r, "", EnvOTLPEndpoint, parseTrimmed, &cfg.OTLPEndpoint)

	if r.err != nil {
		return Config{}, nil, r.err
	}
	return cfg, r.fallbacks, nil
}

type resolver struct {
	fs        *pflag.FlagSet
	lookup    LookupFunc
	fallbacks []*ParseError
	err       error
}

func resolve[T any](r *resolver, flag, env string, parse func(string) (T, error), dst *T) {
	if r.err != nil {
		return
	}
	if flag != "" && r.fs != nil && r.fs.Changed(flag) {
		raw := r.fs.Lookup(flag).Value.String()
		v, err := parse(raw)
		if err != nil {
			r.err = errors.WithStack(&ParseError{Source: "--" + flag, Value: raw, Err: err})
			return
		}
		*dst = v
		return
	}
	if r.lookup == nil {
		return
	}
	raw, ok := r.lookup(env)
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}
	v, err := parse(raw)
	if err != nil {
		r.fallbacks = append(r.fallbacks, &ParseError{Source: env, Value: raw, Err: err})
		return
	}
	*dst = v
}

func parseTrimmed(s string) (string, error) {
	return strings.TrimSpace(s), nil
}

func parseHost(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " /") {
		return "", errors.New("not a host name or address")
	}
	return s, nil
}

func parsePort(lo int) func(string) (int, error) {
	return func(s string) (int, error) {
		p, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, err
		}
		if p < lo || p > 65535 {
			return 0, errors.Errorf("port %d out of range [%d, 65535]", p, lo)
		}
		return p, nil
	}
}
