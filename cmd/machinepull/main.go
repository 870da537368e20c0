package main

import (
	"github.com/macvmio/machinepull/cmd/machinepull/cmd"
)

func main() {
	cmd.Execute(cmd.InitializeCommands())
}
