package wfs

import (
	"os"
	"path/filepath"
	"sort"
)

// maxInodes bounds the compactor's bookkeeping table (§8, MAX_INODES). The
// original implementation indexed a fixed-size C array directly by inode
// number with no bound check; here the bound is enforced explicitly and
// reported as ErrTooManyInodes instead of corrupting memory.
const maxInodes = 1000

// Compact rewrites the image at path, keeping only the latest live entry
// per inode and dropping tombstoned and superseded entries (§4.5). It
// stages the result in a temporary file in the same directory and only
// replaces the original via os.Rename once the new content is fully
// written, so a crash mid-compaction never leaves a half-written image.
//
// Unlike the original compactor, which read fixed-size chunks and so
// silently misparsed any entry with a non-empty payload, this walks the
// log with the same variable-length iterator used everywhere else in the
// package.
func Compact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) < SuperblockSize {
		return ErrInvalidImage
	}

	var sb Superblock
	if err := sb.UnmarshalBinary(data[:SuperblockSize]); err != nil {
		return err
	}

	latest := make(map[uint32]logEntry, maxInodes)
	it := newLogIterator(data[SuperblockSize:], sb.Head-uint32(SuperblockSize))
	for {
		e, ok := it.next()
		if !ok {
			break
		}
		if _, exists := latest[e.Header.InodeNumber]; !exists {
			if len(latest) >= maxInodes {
				return ErrTooManyInodes
			}
		}
		if e.Header.IsDeleted() {
			delete(latest, e.Header.InodeNumber)
			continue
		}
		payload := make([]byte, len(e.Payload))
		copy(payload, e.Payload)
		latest[e.Header.InodeNumber] = logEntry{Header: e.Header, Payload: payload}
	}

	inodeNums := make([]uint32, 0, len(latest))
	for k := range latest {
		inodeNums = append(inodeNums, k)
	}
	sort.Slice(inodeNums, func(i, j int) bool { return inodeNums[i] < inodeNums[j] })

	var log []byte
	for _, k := range inodeNums {
		e := latest[k]
		log = append(log, encodeEntry(e.Header, e.Payload)...)
	}

	// Head is the absolute offset of the first free byte (§3), so it
	// includes SuperblockSize even though the compacted log itself starts
	// at 0 relative to the log region.
	newSb := Superblock{Magic: Magic, Head: uint32(SuperblockSize) + uint32(len(log))}
	buf := make([]byte, 0, len(data))
	buf = append(buf, newSb.MarshalBinary()...)
	buf = append(buf, log...)
	if len(buf) < len(data) {
		buf = append(buf, make([]byte, len(data)-len(buf))...)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".wfs-compact-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
