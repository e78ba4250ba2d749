//go:build !windows

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// registerQuitHandler makes SIGQUIT exit at once, skipping the session log
// summary that a SIGINT/SIGTERM shutdown prints.
func registerQuitHandler() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGQUIT)
	go func() {
		<-sigs
		fmt.Fprintln(os.Stderr, "SIGQUIT: exiting immediately")
		os.Exit(1)
	}()
}
