package main

import (
	"fmt"
	"os"

	"github.com/krcwallet/kaspacore/infrastructure/logger"
)

var log = logger.RegisterSubSystem("WLLT")

// stderrWriter keeps stdout free for the printed transactions
type stderrWriter struct{}

func (stderrWriter) Write(p []byte) (int, error) {
	return os.Stderr.Write(p)
}

func (stderrWriter) Close() error {
	return nil
}

func initLog(common *CommonFlags) error {
	return logger.InitLog(stderrWriter{}, common.LogFile, common.LogLevel)
}

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}
