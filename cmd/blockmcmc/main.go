// Command blockmcmc runs block-model samplers from a run file.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
