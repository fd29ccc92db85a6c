package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"follower/host/monitor"
	"follower/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", serial.DefaultBaud, "Baud rate (ignored for USB CDC)")
	verbose = flag.Bool("verbose", false, "Print sequence numbers and decode errors")
	asJSON  = flag.Bool("json", false, "Print one JSON object per message")
)

func main() {
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	var opts []monitor.Option
	if *verbose {
		opts = append(opts, monitor.WithVerbose())
	}
	if *asJSON {
		opts = append(opts, monitor.WithJSON())
	}

	if !*asJSON {
		fmt.Printf("Listening for follower telemetry on %s...\n", *device)
	}
	m, err := monitor.Connect(cfg, os.Stdout, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var stopping atomic.Bool
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		stopping.Store(true)
		m.Close() // unblocks the pending read
	}()

	// Run returns nil when a read times out with nothing buffered; keep
	// listening until interrupted
	for !stopping.Load() {
		if err := m.Run(); err != nil {
			if stopping.Load() {
				break
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			m.Close()
			os.Exit(1)
		}
	}

	if !*asJSON {
		m.PrintSummary()
	}
}
