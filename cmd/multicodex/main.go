package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/temirov/multicodex/internal/cli"
	"github.com/temirov/multicodex/internal/utils"
)

// main is the entry point for the multicodex command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	rootCommand := cli.NewRootCommand(cli.Dependencies{Logger: loggerInstance})
	rootCommand.SetArgs(cli.NormalizeArguments(rootCommand, os.Args[1:]))
	executionError := fang.Execute(context.Background(), rootCommand, fang.WithVersion(utils.GetApplicationVersion()))
	_ = loggerInstance.Sync()
	if executionError != nil {
		os.Exit(1)
	}
}
