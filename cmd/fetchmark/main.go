package main

import (
	"log"
	"os"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// stdout is reserved for command output and the MCP protocol
	log.SetOutput(os.Stderr)

	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}
