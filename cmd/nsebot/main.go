package main

import (
	"os"

	"nsebot/cmd/nsebot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
