package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all server settings that come from command-line flags.
// It is built once at startup and only read afterwards.
type Config struct {
	Root                 string        // directory files are served from, canonical after Validate
	Port                 int           // TCP port to listen on
	CrossOriginIsolation bool          // send COOP/COEP headers
	DirectoryIndex       bool          // list directories without an index.html
	LocalOnly            bool          // answer 403 to non-loopback peers
	ReadTimeout          time.Duration // deadline for reading the request line
	Threads              int           // number of worker goroutines
	Buffers              int           // capacity of the connection queue
	SchedAlg             string        // FCFS or SFF
}

// Default returns the settings used when no flags are given.
func Default() Config {
	return Config{
		Root:        ".",
		Port:        8080,
		LocalOnly:   true,
		ReadTimeout: 10 * time.Second,
		Threads:     4,
		Buffers:     16,
		SchedAlg:    "FCFS",
	}
}

// Validate canonicalizes Root and checks the remaining fields.
func (c *Config) Validate() error {
	abs, err := filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("root %q: %w", c.Root, err)
	}
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fmt.Errorf("root %q: %w", c.Root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root %q: %w", c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %q is not a directory", c.Root)
	}
	c.Root = root

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	// validate valid thread and buffer counts
	if c.Threads <= 0 || c.Buffers <= 0 {
		return fmt.Errorf("threads and buffers must be positive")
	}

	c.SchedAlg = strings.ToUpper(c.SchedAlg)
	if c.SchedAlg != "FCFS" && c.SchedAlg != "SFF" {
		return fmt.Errorf("unsupported schedule algorithm %q (must be FCFS or SFF)", c.SchedAlg)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("negative read timeout %s", c.ReadTimeout)
	}
	return nil
}
