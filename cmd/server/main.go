package main

import (
	"flag"      // command-line argument parsing
	"fmt"       // formatted I/O (printing)
	"log"       // logging errors
	"net"       // network connections (TCP)
	"os"        // OS operations (exit, stderr)
	"os/signal" // shutting down on Ctrl+C
	"syscall"   // SIGTERM

	"github.com/cooperbraun13/webserver/internal/config"
	"github.com/cooperbraun13/webserver/internal/fsys"
	"github.com/cooperbraun13/webserver/internal/server"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [root]\n\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "Serves the files below root (default: current directory).\n\n")
	flag.PrintDefaults()
}

func parseFlags() config.Config {
	cfg := config.Default()

	// short and long spellings share one variable
	flag.IntVar(&cfg.Port, "p", cfg.Port, "port")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "port")
	flag.BoolVar(&cfg.CrossOriginIsolation, "i", false, "send cross-origin isolation headers")
	flag.BoolVar(&cfg.CrossOriginIsolation, "coi", false, "send cross-origin isolation headers")
	flag.BoolVar(&cfg.DirectoryIndex, "l", false, "list directories that have no index.html")
	flag.BoolVar(&cfg.DirectoryIndex, "index", false, "list directories that have no index.html")
	flag.BoolVar(&cfg.LocalOnly, "local", cfg.LocalOnly, "answer 403 Forbidden to non-loopback clients")
	flag.DurationVar(&cfg.ReadTimeout, "timeout", cfg.ReadTimeout, "deadline for reading a request (0 disables)")
	flag.IntVar(&cfg.Threads, "t", cfg.Threads, "worker threads")
	flag.IntVar(&cfg.Buffers, "b", cfg.Buffers, "buffer size")
	flag.StringVar(&cfg.SchedAlg, "s", cfg.SchedAlg, "scheduling algorithm (FCFS or SFF)")
	flag.Usage = usage
	flag.Parse()

	switch flag.NArg() {
	case 0:
	case 1:
		cfg.Root = flag.Arg(0)
	default:
		flag.Usage()
		os.Exit(2)
	}
	return cfg
}

func main() {
	cfg := parseFlags()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// create listening socket
	addr := fmt.Sprintf(":%d", cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("listen error: %v", err)
	}

	// closing the listener makes Serve return once queued requests finish
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Printf("shutting down")
		ln.Close()
	}()

	log.Printf("serving files at %s on http://localhost:%d/", cfg.Root, cfg.Port)
	if err := server.New(&cfg, fsys.OS{}).Serve(ln); err != nil {
		log.Fatal(err)
	}
}
