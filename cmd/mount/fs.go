package main

import (
	"path"
	"sync"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/karpeleslab/wfs"
)

// rawFS adapts wfs.Mount's path-based operations to go-fuse's low-level,
// nodeid-based RawFileSystem interface. The spec's callback contract
// (getattr/mknod/mkdir/read/write/readdir/unlink) is expressed in terms of
// textual paths, so this layer's only job is translating FUSE nodeids to
// and from the paths the core package understands -- the same role
// hanwen/go-fuse's own pathfs package plays for its path-based filesystems.
type rawFS struct {
	fuse.RawFileSystem

	mount *wfs.Mount

	mu    sync.RWMutex
	paths map[uint64]string // nodeid -> path
}

func newRawFS(mount *wfs.Mount) *rawFS {
	fs := &rawFS{
		RawFileSystem: fuse.NewDefaultRawFileSystem(),
		mount:         mount,
		paths:         map[uint64]string{1: "/"},
	}
	return fs
}

// nodeID maps a wfs inode number to a FUSE nodeid. Inode 0, the root, is
// shifted to nodeid 1: the FUSE protocol reserves nodeid 1 for the root
// and never assigns it to anything else (the same shift squashfs applies
// to its own root inode).
func nodeID(inodeNumber uint32) uint64 {
	return uint64(inodeNumber) + 1
}

func (fs *rawFS) pathFor(nodeid uint64) string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.paths[nodeid]
}

func (fs *rawFS) remember(nodeid uint64, path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.paths[nodeid] = path
}

func (fs *rawFS) forget(nodeid uint64) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if nodeid != 1 {
		delete(fs.paths, nodeid)
	}
}

func toStatus(err error) fuse.Status {
	if err == nil {
		return fuse.OK
	}
	return fuse.Status(-wfs.Errno(err))
}

func fillAttrOut(out *fuse.Attr, nodeid uint64, h wfs.InodeHeader) {
	out.Ino = nodeid
	out.Size = uint64(h.Size)
	out.Blocks = (out.Size + 511) / 512
	out.Atime = uint64(h.Atime)
	out.Mtime = uint64(h.Mtime)
	out.Ctime = uint64(h.Ctime)
	// Round-trip through fs.FileMode, the same way the teacher's
	// FillAttr populates attr.Mode from i.Mode() via ModeToUnix.
	out.Mode = wfs.ModeToUnix(h.Mode.FileMode())
	out.Nlink = h.Links
	out.Owner = fuse.Owner{Uid: h.Uid, Gid: h.Gid}
	out.Blksize = 4096
}

func (fs *rawFS) fillEntry(out *fuse.EntryOut, childPath string, h wfs.InodeHeader) {
	nodeid := nodeID(h.InodeNumber)
	fs.remember(nodeid, childPath)
	out.NodeId = nodeid
	out.Generation = 1
	fillAttrOut(&out.Attr, nodeid, h)
}

func (fs *rawFS) Lookup(cancel <-chan struct{}, header *fuse.InHeader, name string, out *fuse.EntryOut) fuse.Status {
	parent := fs.pathFor(header.NodeId)
	child := path.Join(parent, name)
	h, err := fs.mount.Getattr(child)
	if err != nil {
		return toStatus(err)
	}
	fs.fillEntry(out, child, h)
	return fuse.OK
}

func (fs *rawFS) Forget(nodeid, nlookup uint64) {
	fs.forget(nodeid)
}

func (fs *rawFS) GetAttr(cancel <-chan struct{}, input *fuse.GetAttrIn, out *fuse.AttrOut) fuse.Status {
	p := fs.pathFor(input.NodeId)
	h, err := fs.mount.Getattr(p)
	if err != nil {
		return toStatus(err)
	}
	fillAttrOut(&out.Attr, input.NodeId, h)
	return fuse.OK
}

func (fs *rawFS) Mknod(cancel <-chan struct{}, input *fuse.MknodIn, name string, out *fuse.EntryOut) fuse.Status {
	parent := fs.pathFor(input.NodeId)
	child := path.Join(parent, name)
	h, err := fs.mount.Mknod(child, input.Mode)
	if err != nil {
		return toStatus(err)
	}
	fs.fillEntry(out, child, h)
	return fuse.OK
}

func (fs *rawFS) Mkdir(cancel <-chan struct{}, input *fuse.MkdirIn, name string, out *fuse.EntryOut) fuse.Status {
	parent := fs.pathFor(input.NodeId)
	child := path.Join(parent, name)
	h, err := fs.mount.Mkdir(child, input.Mode)
	if err != nil {
		return toStatus(err)
	}
	fs.fillEntry(out, child, h)
	return fuse.OK
}

func (fs *rawFS) Unlink(cancel <-chan struct{}, header *fuse.InHeader, name string) fuse.Status {
	parent := fs.pathFor(header.NodeId)
	child := path.Join(parent, name)
	err := fs.mount.Unlink(child)
	return toStatus(err)
}

func (fs *rawFS) Open(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	return fuse.OK
}

func (fs *rawFS) OpenDir(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	return fuse.OK
}

func (fs *rawFS) Read(cancel <-chan struct{}, input *fuse.ReadIn, buf []byte) (fuse.ReadResult, fuse.Status) {
	p := fs.pathFor(input.NodeId)
	data, err := fs.mount.Read(p, int64(input.Offset), len(buf))
	if err != nil {
		return nil, toStatus(err)
	}
	return fuse.ReadResultData(data), fuse.OK
}

func (fs *rawFS) Write(cancel <-chan struct{}, input *fuse.WriteIn, data []byte) (uint32, fuse.Status) {
	p := fs.pathFor(input.NodeId)
	n, err := fs.mount.Write(p, int64(input.Offset), data)
	if err != nil {
		return 0, toStatus(err)
	}
	return uint32(n), fuse.OK
}

func (fs *rawFS) ReadDir(cancel <-chan struct{}, input *fuse.ReadIn, out *fuse.DirEntryList) fuse.Status {
	p := fs.pathFor(input.NodeId)
	entries, err := fs.mount.Readdir(p)
	if err != nil {
		return toStatus(err)
	}

	pos := input.Offset
	for i, d := range entries {
		if uint64(i) < pos {
			continue
		}
		ino, aerr := fs.mount.Getattr(path.Join(p, d.NameString()))
		if aerr != nil {
			continue
		}
		if !out.Add(0, d.NameString(), nodeID(ino.InodeNumber), uint32(ino.Mode)) {
			break
		}
	}
	return fuse.OK
}
