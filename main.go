// Package main is the entry point for the thelist CLI.
package main

import (
	"os"

	"github.com/bonuspoints/thelist/cmd"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseStores()

	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
