package main

import (
	"github.com/peerbench/peerbench/internal/commands"
)

// main starts the peerbench CLI by delegating to the cobra root command.
func main() {
	commands.Execute()
}
