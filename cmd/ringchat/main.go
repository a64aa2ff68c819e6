package main

import (
	"os"

	"ringchat/cmd/ringchat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
