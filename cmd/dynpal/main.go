// dynpal - adaptive dominant colour extraction
//
// dynpal extracts the dominant colours of an image with a dynamic k-means
// clusterer that discovers the number of colours as it goes.
package main

import (
	"os"

	"github.com/jmylchreest/dynpal/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
