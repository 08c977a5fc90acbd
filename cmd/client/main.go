package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"time"
)

var (
	addr    = flag.String("addr", "localhost:8080", "server address")
	count   = flag.Int("n", 10, "requests per path")
	timeout = flag.Duration("timeout", 5*time.Second, "per-request deadline")
)

// sendRequest issues one GET and prints the status line.
func sendRequest(path string) {
	conn, err := net.DialTimeout("tcp", *addr, *timeout)
	if err != nil {
		log.Println("dial error:", err)
		return
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(*timeout))

	fmt.Fprintf(conn, "GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", path, *addr)

	// read status line and then drop the rest
	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Printf("%s: read error: %v", path, err)
		return
	}
	fmt.Printf("%s -> %s", path, line)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] path...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var wg sync.WaitGroup
	// interleave the paths so the scheduler sees them mixed
	for i := 0; i < *count; i++ {
		for _, path := range flag.Args() {
			wg.Add(1)
			go func(p string) {
				defer wg.Done()
				sendRequest(p)
			}(path)
		}
	}
	wg.Wait()
}
