// Command mount.wfs mounts a WFS image at a directory using FUSE.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/karpeleslab/wfs"
)

func main() {
	debug := flag.Bool("debug", false, "enable FUSE debug logging")
	allowOther := flag.Bool("allow-other", false, "allow other users to access the mount")
	flag.Parse()

	if flag.NArg() != 2 {
		log.Fatalf("usage: %s [flags] <image-path> <mountpoint>", os.Args[0])
	}
	imagePath := flag.Arg(0)
	mountpoint := flag.Arg(1)

	m, err := wfs.Open(imagePath)
	if err != nil {
		log.Fatalf("mount.wfs: %v", err)
	}
	defer m.Close()

	rfs := newRawFS(m)

	opts := &fuse.MountOptions{
		Debug:      *debug,
		AllowOther: *allowOther,
		Name:       "wfs",
	}

	server, err := fuse.NewServer(rfs, mountpoint, opts)
	if err != nil {
		log.Fatalf("mount.wfs: %v", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		server.Unmount()
	}()

	server.Serve()
}
