// main.go
//
// Entry point that hands control to the Cobra root command in cmd/root.go

package main

import (
	"github.com/inference-sim/hazard-sim/cmd"
)

func main() {
	cmd.Execute()
}
