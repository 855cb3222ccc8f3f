// ABOUTME: Entry point for the postdeck CLI
// ABOUTME: Delegates to the cmd package

package main

import (
	"os"

	"github.com/mlowther/postdeck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
