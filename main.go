// Package main provides the entry point for the studio hiring and contact API
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Set at build time with -ldflags
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
