package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Valores padrão
const (
	DefaultPort           = "8080"
	DefaultMaxBodyBytes   = 100 * 1024
	DefaultRequestTimeout = 60 * time.Second
	DefaultFunctionPrefix = "/.netlify/functions/api"
)

// Config contém a configuração resolvida a partir das variáveis de ambiente
type Config struct {
	Port               string
	RunHTTPServer      bool
	AllowedOrigins     []string
	MaxBodyBytes       int64
	RequestTimeout     time.Duration
	ExposeErrorDetails bool
	EnableMCP          bool
	FunctionPrefix     string
}

// Default retorna a configuração sem nenhuma variável definida
func Default() Config {
	return Config{
		Port:               DefaultPort,
		AllowedOrigins:     []string{"*"},
		MaxBodyBytes:       DefaultMaxBodyBytes,
		RequestTimeout:     DefaultRequestTimeout,
		ExposeErrorDetails: true,
		FunctionPrefix:     DefaultFunctionPrefix,
	}
}

// FromEnv lê a configuração do ambiente do processo
func FromEnv() Config {
	return Load(os.Getenv)
}

// Load lê a configuração usando getenv; valores inválidos caem no padrão
func Load(getenv func(string) string) Config {
	cfg := Default()

	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		cfg.Port = port
	}
	cfg.RunHTTPServer = parseBool("RUN_HTTP_SERVER", getenv("RUN_HTTP_SERVER"), false)
	cfg.ExposeErrorDetails = parseBool("EXPOSE_ERROR_DETAILS", getenv("EXPOSE_ERROR_DETAILS"), true)
	cfg.EnableMCP = parseBool("ENABLE_MCP", getenv("ENABLE_MCP"), false)

	if origins := splitList(getenv("ALLOWED_ORIGINS")); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}

	if raw := strings.TrimSpace(getenv("MAX_BODY_BYTES")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			log.Printf("Warning: invalid MAX_BODY_BYTES %q, using %d", raw, cfg.MaxBodyBytes)
		} else {
			cfg.MaxBodyBytes = n
		}
	}

	cfg.RequestTimeout = parseDurationOrDefault("REQUEST_TIMEOUT", getenv("REQUEST_TIMEOUT"), DefaultRequestTimeout)

	if prefix, ok := lookup(getenv, "FUNCTION_PREFIX"); ok {
		cfg.FunctionPrefix = strings.TrimRight(prefix, "/")
	}

	return cfg
}

// Addr retorna o endereço de escuta do servidor HTTP
func (c Config) Addr() string {
	return ":" + c.Port
}

func lookup(getenv func(string) string, key string) (string, bool) {
	v := strings.TrimSpace(getenv(key))
	return v, v != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(key, raw string, fallback bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %t", key, raw, fallback)
		return fallback
	}
	return b
}

func parseDurationOrDefault(key, raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s %q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
