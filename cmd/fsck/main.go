// Command fsck.wfs compacts a WFS image in place, dropping tombstoned and
// superseded log entries.
package main

import (
	"fmt"
	"os"

	"github.com/karpeleslab/wfs"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <image-path>\n", os.Args[0])
		os.Exit(1)
	}

	if err := wfs.Compact(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "fsck.wfs: %v\n", err)
		os.Exit(1)
	}
}
