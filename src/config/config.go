package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ServerConfig holds configuration for the simulation service.
type ServerConfig struct {
	Addr        string // QUIC listen address (default "localhost:8000")
	HTTPAddr    string // HTTP API listen address, empty disables it
	QueuePolicy string // Request admission: fifo, sp, wfq
	QueueSize   int    // Pending requests per priority class
	LogLevel    string // Log level: debug, info, warn, error
	LogFormat   string // Log format: text, json
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        "localhost:8000",
		QueuePolicy: "wfq",
		QueueSize:   1000,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// ReadFile overrides c with the settings found in the file at path.
func (c *ServerConfig) ReadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return c.Read(file)
}

// Read overrides c with "name value" lines. Blank lines and lines starting
// with # are skipped.
func (c *ServerConfig) Read(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split the line by the first whitespace
		parts := strings.SplitN(line, " ", 2)
		if len(parts) < 2 {
			return fmt.Errorf("line %d: missing value for %q", lineNo, parts[0])
		}
		name := parts[0]
		value := strings.TrimSpace(parts[1])

		switch name {
		case "addr":
			c.Addr = value
		case "httpAddr":
			c.HTTPAddr = value
		case "queuePolicy":
			c.QueuePolicy = value
		case "queueSize":
			size, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			c.QueueSize = size
		case "logLevel":
			c.LogLevel = value
		case "logFormat":
			c.LogFormat = value
		default:
			return fmt.Errorf("line %d: unknown setting %q", lineNo, name)
		}
	}
	return scanner.Err()
}

func (c ServerConfig) Validate() error {
	switch c.QueuePolicy {
	case "fifo", "sp", "wfq":
	default:
		return fmt.Errorf("invalid queue policy %q", c.QueuePolicy)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("queue size must be at least 1, got %d", c.QueueSize)
	}
	if c.Addr == "" {
		return fmt.Errorf("empty listen address")
	}
	return nil
}
