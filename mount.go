package wfs

import (
	"strings"
	"time"
)

// Mount is the single explicit state container threaded through every
// operation: the mapped image and the monotonic inode counter. Per §9's
// design note ("globals -> explicit state"), nothing else in the core
// package carries package-level mutable state.
//
// §4.3 describes stripping a configured mount-point prefix from paths
// FUSE hands the resolver, because a high-level FUSE binding (e.g.
// pathfs-style) delivers paths already rooted at the real mountpoint.
// cmd/mount binds against hanwen/go-fuse's low-level RawFileSystem
// instead (see cmd/mount/fs.go), which speaks nodeids: every path this
// package ever sees is one rawFS itself built by joining a cached parent
// path with a child name, starting from "/" at the root nodeid -- never
// a path carrying the real mountpoint. There is consequently nothing for
// a mount-prefix strip to do in this binding, so it is not implemented.
type Mount struct {
	img          *Image
	inodeCounter uint32
}

// Open maps the image at path and rebuilds the inode counter by scanning
// the whole log once for the highest inode number ever used. The counter
// is never itself persisted (§9 open question), so this recovery step is
// required on every mount, including remounts of an image that already
// has files in it.
func Open(path string) (*Mount, error) {
	img, err := OpenImage(path)
	if err != nil {
		return nil, err
	}

	m := &Mount{img: img, inodeCounter: 1}
	it := newLogIterator(img.LogRegion(), img.Head())
	for {
		e, ok := it.next()
		if !ok {
			break
		}
		if e.Header.InodeNumber+1 > m.inodeCounter {
			m.inodeCounter = e.Header.InodeNumber + 1
		}
	}
	return m, nil
}

// Close flushes and releases the underlying image.
func (m *Mount) Close() error {
	return m.img.Close()
}

func now() uint32 {
	return uint32(time.Now().Unix())
}

// validateName implements the filename validator from §4.4 step 2,
// resolving the ambiguity flagged in §9: a name with no '.' only needs
// the length check; a name with a '.' requires the substring after the
// *last* dot to be non-empty and alphanumeric-or-underscore.
func validateName(name string) error {
	if len(name) == 0 || len(name) > MaxFileNameLen-1 {
		return ErrInvalidName
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ext := name[i+1:]
		if ext == "" {
			return ErrInvalidName
		}
		for _, c := range ext {
			if !isNameExtensionRune(c) {
				return ErrInvalidName
			}
		}
	}
	return nil
}

func isNameExtensionRune(c rune) bool {
	switch {
	case c == '_':
		return true
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	default:
		return false
	}
}
