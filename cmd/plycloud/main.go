// Command plycloud inspects, converts and generates PLY point clouds.
package main

import (
	"fmt"
	"os"

	"github.com/banshee-data/plycloud/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
