package main

import (
	"os"

	"taskcal/core/command"
	"taskcal/core/logger"
)

func main() {
	if err := command.Execute(); err != nil {
		logger.Error("taskcal exited with error", "error", err)
		os.Exit(1)
	}
}
