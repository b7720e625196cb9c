package wfs

import "os"

// Mkfs creates a new image of the given capacity at path: a superblock
// followed by a single root directory entry (inode 0), per §4.1 and
// mkfs.wfs's original layout. Unlike the original, the root entry's Size
// field is set to the header size rather than left at zero, satisfying
// invariant 2 of §3 (sizeof(Superblock) + sum(entry.size) == head).
func Mkfs(path string, capacity int) error {
	if capacity < SuperblockSize || capacity > MaxSize {
		return ErrInvalidImage
	}

	ts := now()
	root := InodeHeader{
		InodeNumber: 0,
		Mode:        Mode(S_IFDIR | 0755),
		Links:       1,
		Atime:       ts,
		Mtime:       ts,
		Ctime:       ts,
	}
	entry := encodeEntry(root, nil)

	// Head is the absolute byte offset of the first free byte (§3), not an
	// offset relative to the log region, so it includes SuperblockSize.
	sb := Superblock{Magic: Magic, Head: uint32(SuperblockSize) + uint32(len(entry))}

	buf := make([]byte, capacity)
	copy(buf, sb.MarshalBinary())
	copy(buf[SuperblockSize:], entry)

	return os.WriteFile(path, buf, 0644)
}
