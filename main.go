package main

import (
	"log"
	"os"
	"smbsync/cmd"
	"smbsync/config"
)

func main() {
	cnf, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cmd.Execute(cnf); err != nil {
		// The failing command has already printed a JSON error envelope.
		os.Exit(1)
	}
}
