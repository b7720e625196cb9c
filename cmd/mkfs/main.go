// Command mkfs.wfs initializes a superblock and root-directory inode in an
// already-existing, already-sized image file (§6: the image's capacity
// comes from whatever created the file -- truncate(2), a prior allocation
// step -- which is out of scope for this tool, per §1's "disk-image
// initializer" boundary note).
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
	imagePath := os.Args[1]

	fi, err := os.Stat(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkfs.wfs: %v\n", err)
		os.Exit(1)
	}

	if err := wfs.Mkfs(imagePath, int(fi.Size())); err != nil {
		fmt.Fprintf(os.Stderr, "mkfs.wfs: %v\n", err)
		os.Exit(1)
	}
}
