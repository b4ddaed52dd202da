package main

import (
	"os"

	"github.com/wonny/energytrends/cmd/energytrends/commands"
)

// main is the entry point for the energytrends CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/energytrends [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
