package wfs

import "strings"

// resolved is a reference to the latest live log entry for some inode,
// as returned by the path resolver (§4.3).
type resolved struct {
	Offset  uint32
	Header  InodeHeader
	Payload []byte
}

// latestLiveEntry scans the log and returns the entry at the highest
// offset whose inode number matches and whose Deleted flag is 0. "Latest"
// means highest offset, which also resolves the tie-break rule in §4.3:
// if two entries ever appear live for the same inode, the one at the
// higher offset wins because the scan simply keeps overwriting best.
func (img *Image) latestLiveEntry(inodeNumber uint32) (resolved, bool) {
	it := newLogIterator(img.LogRegion(), img.Head())
	var best resolved
	found := false
	for {
		e, ok := it.next()
		if !ok {
			break
		}
		if e.Header.InodeNumber == inodeNumber && !e.Header.IsDeleted() {
			best = resolved{Offset: e.Offset, Header: e.Header, Payload: e.Payload}
			found = true
		}
	}
	return best, found
}

// splitFirstComponent tokenizes path on "/", returning the first
// non-empty component and everything after it (§4.3 step 3).
func splitFirstComponent(path string) (name, rest string) {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return "", ""
	}
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

// splitParentName splits a path into its parent directory path and final
// component, e.g. "/a/b/c" -> ("/a/b", "c"), "/a" -> ("/", "a").
func splitParentName(path string) (parent, name string) {
	path = strings.TrimPrefix(path, "/")
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "/", path
	}
	return "/" + path[:i], path[i+1:]
}

// resolve turns a textual path into a reference to its latest live log
// entry, or ErrNotFound (§4.3). The root path always resolves to inode 0.
// Mount-point-prefix stripping does not apply here: see Mount's doc
// comment in mount.go for why the go-fuse low-level binding this package
// targets never hands the resolver a mountpoint-rooted path.
func (m *Mount) resolve(path string) (resolved, error) {
	return m.resolveFrom(0, path)
}

// resolveFrom implements §4.3 steps 1-5, recursing one path component at
// a time starting from the given inode number.
func (m *Mount) resolveFrom(inodeNumber uint32, path string) (resolved, error) {
	name, rest := splitFirstComponent(path)
	if name == "" {
		e, ok := m.img.latestLiveEntry(inodeNumber)
		if !ok {
			return resolved{}, ErrNotFound
		}
		return e, nil
	}

	dir, ok := m.img.latestLiveEntry(inodeNumber)
	if !ok {
		return resolved{}, ErrNotFound
	}
	if !dir.Header.Mode.IsDir() {
		return resolved{}, ErrNotFound
	}

	for _, d := range decodeDentries(dir.Payload) {
		if d.NameString() == name {
			return m.resolveFrom(uint32(d.InodeNumber), rest)
		}
	}
	return resolved{}, ErrNotFound
}
