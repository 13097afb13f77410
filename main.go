// main is the entry point of the covtree CLI.
package main

import (
	"github.com/huangsam/covtree/cmd"
	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/internal/iostore"
)

func main() {
	cmd.SetStoreManager(iostore.Manager)
	defer iostore.CloseStore()
	defer func() { _ = cmd.StopProfiling() }()

	if err := cmd.Execute(); err != nil {
		iostore.CloseStore()
		_ = cmd.StopProfiling()
		contract.LogFatal("Command failed", err)
	}
}
