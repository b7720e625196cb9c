package wfs

// This file implements the filesystem operations of §4.4: mknod, mkdir,
// read, write, readdir, unlink and getattr. Every mutation follows the same
// shape -- append the new version of an entry, then tombstone the old one
// -- so a crash between the two leaves the previous, still-live version
// intact (§3).

// Getattr resolves path and returns its inode header. The returned Size is
// the file's data length (the entry's payload, header excluded), not the
// on-disk span stored in the log.
func (m *Mount) Getattr(path string) (InodeHeader, error) {
	r, err := m.resolve(path)
	if err != nil {
		return InodeHeader{}, err
	}
	h := r.Header
	h.Size = uint32(len(r.Payload))
	return h, nil
}

// Readdir resolves path, which must name a directory, and returns its
// dentries. It does not synthesize "." or "..": those are a FUSE-layer
// presentation detail, not part of the on-disk directory payload.
func (m *Mount) Readdir(path string) ([]Dentry, error) {
	r, err := m.resolve(path)
	if err != nil {
		return nil, err
	}
	if !r.Header.Mode.IsDir() {
		return nil, ErrNotDirectory
	}
	return decodeDentries(r.Payload), nil
}

// Read resolves path, which must name a regular file, and returns up to
// size bytes starting at offset. An offset at or past the file's size
// returns zero bytes rather than an error (§4.4 edge case).
func (m *Mount) Read(path string, offset int64, size int) ([]byte, error) {
	r, err := m.resolve(path)
	if err != nil {
		return nil, err
	}
	if r.Header.Mode.IsDir() {
		return nil, ErrIsDirectory
	}
	if offset < 0 || offset >= int64(len(r.Payload)) {
		return nil, nil
	}
	end := offset + int64(size)
	if end > int64(len(r.Payload)) {
		end = int64(len(r.Payload))
	}
	out := make([]byte, end-offset)
	copy(out, r.Payload[offset:end])
	return out, nil
}

// Write resolves path, which must name a regular file, and writes data at
// offset, extending the file (zero-filling any gap) if offset+len(data)
// exceeds the current size (§4.4). It returns the number of bytes written.
func (m *Mount) Write(path string, offset int64, data []byte) (int, error) {
	r, err := m.resolve(path)
	if err != nil {
		return 0, err
	}
	if r.Header.Mode.IsDir() {
		return 0, ErrIsDirectory
	}
	if offset < 0 {
		return 0, ErrInvalidName
	}

	newSize := offset + int64(len(data))
	if int64(len(r.Payload)) > newSize {
		newSize = int64(len(r.Payload))
	}

	payload := make([]byte, newSize)
	copy(payload, r.Payload)
	copy(payload[offset:], data)

	header := r.Header
	ts := now()
	header.Mtime = ts
	header.Ctime = ts
	if _, err := m.img.Append(encodeEntry(header, payload)); err != nil {
		return 0, err
	}
	if err := m.img.Tombstone(r.Offset); err != nil {
		return 0, err
	}

	return len(data), nil
}

// Mknod creates a new regular file at path with the given mode (§4.4).
func (m *Mount) Mknod(path string, mode uint32) (InodeHeader, error) {
	return m.create(path, mode|S_IFREG)
}

// Mkdir creates a new, empty directory at path with the given mode (§4.4).
func (m *Mount) Mkdir(path string, mode uint32) (InodeHeader, error) {
	return m.create(path, mode|S_IFDIR)
}

// create is the shared body of Mknod and Mkdir: validate the name, locate
// the parent directory, allocate a fresh inode, then append the parent's
// updated dentry list (tombstoning its previous version) *before* writing
// the new inode's own entry. That ordering is the one §4.4 calls out
// explicitly: a crash between the two appends must leave a dentry that
// points at an inode with no live entry, which the resolver treats as
// not-found, rather than a live orphan entry nothing points to.
func (m *Mount) create(path string, mode uint32) (InodeHeader, error) {
	parentPath, name := splitParentName(path)
	if err := validateName(name); err != nil {
		return InodeHeader{}, err
	}

	dir, err := m.resolve(parentPath)
	if err != nil {
		return InodeHeader{}, err
	}
	if !dir.Header.Mode.IsDir() {
		return InodeHeader{}, ErrNotDirectory
	}

	dentries := decodeDentries(dir.Payload)
	for _, d := range dentries {
		if d.NameString() == name {
			return InodeHeader{}, ErrExist
		}
	}

	ts := now()
	inodeNumber := m.inodeCounter
	child := InodeHeader{
		InodeNumber: inodeNumber,
		Mode:        Mode(mode),
		Links:       1,
		Atime:       ts,
		Mtime:       ts,
		Ctime:       ts,
	}

	// Space check precedes both appends (§4.4): neither mutates the image
	// unless both would fit.
	newParentSize := InodeHeaderSize + len(dentries)*DentrySize + DentrySize
	newChildSize := InodeHeaderSize
	required := uint64(newParentSize) + uint64(newChildSize)
	if uint64(m.img.Head())+required > uint64(m.img.Capacity()-SuperblockSize) {
		return InodeHeader{}, ErrNoSpace
	}

	var nd Dentry
	nd.setName(name)
	nd.InodeNumber = uint64(child.InodeNumber)
	dentries = append(dentries, nd)

	if _, err := m.rewriteDirectory(dir, dentries); err != nil {
		return InodeHeader{}, err
	}

	if _, err := m.img.Append(encodeEntry(child, nil)); err != nil {
		return InodeHeader{}, err
	}
	m.inodeCounter = inodeNumber + 1

	return child, nil
}

// Unlink removes a dentry from its parent directory and tombstones the
// target inode, decrementing its link count (§4.4, §9 open question).
func (m *Mount) Unlink(path string) error {
	parentPath, name := splitParentName(path)

	dir, err := m.resolve(parentPath)
	if err != nil {
		return err
	}
	if !dir.Header.Mode.IsDir() {
		return ErrNotDirectory
	}

	dentries := decodeDentries(dir.Payload)
	idx := -1
	for i, d := range dentries {
		if d.NameString() == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	targetInode := uint32(dentries[idx].InodeNumber)

	target, ok := m.img.latestLiveEntry(targetInode)
	if !ok {
		return ErrNotFound
	}

	links := target.Header.Links
	if links > 0 {
		links--
	}
	tomb := target.Header
	tomb.Links = links
	tomb.Deleted = 1
	tomb.Ctime = now()
	if _, err := m.img.Append(encodeEntry(tomb, target.Payload)); err != nil {
		return err
	}
	if err := m.img.Tombstone(target.Offset); err != nil {
		return err
	}

	dentries = append(dentries[:idx], dentries[idx+1:]...)
	if _, err := m.rewriteDirectory(dir, dentries); err != nil {
		return err
	}
	return nil
}

// rewriteDirectory appends a new version of dir carrying the given dentry
// list, then tombstones dir's previous version, implementing the
// copy-on-write directory update of §4.4 ("update_directory_log_entry" in
// spirit).
func (m *Mount) rewriteDirectory(dir resolved, dentries []Dentry) (resolved, error) {
	header := dir.Header
	header.Mtime = now()
	payload := encodeDentries(dentries)

	offset, err := m.img.Append(encodeEntry(header, payload))
	if err != nil {
		return resolved{}, err
	}
	if err := m.img.Tombstone(dir.Offset); err != nil {
		return resolved{}, err
	}

	return resolved{Offset: offset, Header: header, Payload: payload}, nil
}
