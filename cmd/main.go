package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
)

var version = "dev"

func main() {
	rootCmd := newRootCmd()

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion(version),
		fang.WithColorSchemeFunc(fang.AnsiColorScheme),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
