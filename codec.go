package wfs

// MaxFileNameLen is the fixed width, in bytes, of a dentry's name field.
const MaxFileNameLen = 32

// InodeHeader is the fixed-size record carried at the front of every log
// entry (§3). Size is load-bearing: it is the on-disk span of the whole
// entry, header included, used to advance the log scan pointer (§4.2); the
// file's data length is Size - InodeHeaderSize.
type InodeHeader struct {
	InodeNumber uint32
	Deleted     uint32
	Mode        Mode
	Uid         uint32
	Gid         uint32
	Flags       uint32
	Size        uint32
	Atime       uint32
	Mtime       uint32
	Ctime       uint32
	Links       uint32
}

// InodeHeaderSize is the on-disk size of InodeHeader.
var InodeHeaderSize = fixedSize(&InodeHeader{})

// IsDeleted reports whether this header's entry is tombstoned.
func (h *InodeHeader) IsDeleted() bool {
	return h.Deleted != 0
}

// Dentry is a fixed-size (name, inode-number) pair carried in directory
// payloads (§3, §GLOSSARY). The inode number is carried as a 64-bit value,
// matching the wider field width used for directory references in the
// original on-disk layout.
type Dentry struct {
	Name        [MaxFileNameLen]byte
	InodeNumber uint64
}

// DentrySize is the on-disk size of Dentry.
var DentrySize = fixedSize(&Dentry{})

// NameString returns the dentry's name with trailing NUL padding trimmed.
func (d *Dentry) NameString() string {
	i := 0
	for i < len(d.Name) && d.Name[i] != 0 {
		i++
	}
	return string(d.Name[:i])
}

// setName copies name into the fixed-width Name field. Callers validate
// the length ahead of time (§4.4 step 2); this only guards against panics.
func (d *Dentry) setName(name string) {
	n := copy(d.Name[:], name)
	for i := n; i < len(d.Name); i++ {
		d.Name[i] = 0
	}
}

// encodeEntry serializes a (header, payload) pair into a self-describing
// byte run whose length equals header.Size, per §4.2. header.Size is set
// to the computed total before encoding, so callers need not precompute it.
func encodeEntry(header InodeHeader, payload []byte) []byte {
	header.Size = uint32(InodeHeaderSize + len(payload))
	out := make([]byte, 0, header.Size)
	out = append(out, encodeFixed(&header)...)
	out = append(out, payload...)
	return out
}

// decodeDentries reinterprets a directory payload as a packed array of
// fixed-width dentries (§3).
func decodeDentries(payload []byte) []Dentry {
	n := len(payload) / DentrySize
	out := make([]Dentry, n)
	for i := 0; i < n; i++ {
		// decodeFixed never fails against a correctly sized slice.
		_ = decodeFixed(payload[i*DentrySize:(i+1)*DentrySize], &out[i])
	}
	return out
}

// encodeDentries is the inverse of decodeDentries.
func encodeDentries(entries []Dentry) []byte {
	out := make([]byte, 0, len(entries)*DentrySize)
	for i := range entries {
		out = append(out, encodeFixed(&entries[i])...)
	}
	return out
}

// logIterator is a stateful forward cursor over the log region, per §4.2.
// It does not consult the Deleted flag: tombstoned entries still occupy
// space and their Size is still authoritative for advancing the cursor.
type logIterator struct {
	data []byte // the full log region, base = just past the superblock
	off  uint32
	end  uint32
}

// logEntry is one (offset, header, payload) tuple yielded by logIterator.
type logEntry struct {
	Offset  uint32
	Header  InodeHeader
	Payload []byte
}

func newLogIterator(logRegion []byte, head uint32) *logIterator {
	return &logIterator{data: logRegion, off: 0, end: head}
}

// next returns the next entry in the log, or ok=false once the cursor
// reaches head.
func (it *logIterator) next() (logEntry, bool) {
	if it.off >= it.end {
		return logEntry{}, false
	}

	var h InodeHeader
	start := it.off
	if err := decodeFixed(it.data[start:start+uint32(InodeHeaderSize)], &h); err != nil {
		return logEntry{}, false
	}

	payload := it.data[start+uint32(InodeHeaderSize) : start+h.Size]
	it.off = start + h.Size

	return logEntry{Offset: start, Header: h, Payload: payload}, true
}
