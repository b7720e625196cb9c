package wfs

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Image is the memory-mapped backing file described in §4.1: physical
// layout, magic check, and the head pointer that addresses the first free
// byte of the log region. Mount time maps the image read/write; unmount
// flushes the mapping. Neither Append nor Tombstone calls fsync: durability
// is whatever the OS provides for the shared mapping at unmount, an
// explicit non-goal.
type Image struct {
	f    *os.File
	data []byte // the whole mapping: superblock followed by the log region
	sb   Superblock
}

// OpenImage maps path read/write and validates its superblock's magic.
func OpenImage(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := fi.Size()
	if size < int64(SuperblockSize) || size > MaxSize {
		f.Close()
		return nil, fmt.Errorf("wfs: invalid image size %d", size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	img := &Image{f: f, data: data}
	if err := img.sb.UnmarshalBinary(data[:SuperblockSize]); err != nil {
		unix.Munmap(data)
		f.Close()
		return nil, err
	}

	return img, nil
}

// Close flushes and releases the mapping.
func (img *Image) Close() error {
	_ = unix.Msync(img.data, unix.MS_SYNC)
	err := unix.Munmap(img.data)
	if cerr := img.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Capacity returns C, the total size of the backing image.
func (img *Image) Capacity() int {
	return len(img.data)
}

// Head returns the current head offset, relative to the start of the log
// region (i.e. excluding the superblock). The on-disk superblock field
// (img.sb.Head) stores the absolute offset from byte 0 of the image, per
// §3 ("absolute byte offset of the first free byte"); this translates it
// for callers that index into LogRegion(), which is itself relative.
func (img *Image) Head() uint32 {
	return img.sb.Head - uint32(SuperblockSize)
}

// LogRegion returns the mapped bytes holding the packed log entries,
// bytes [sizeof(Superblock), C).
func (img *Image) LogRegion() []byte {
	return img.data[SuperblockSize:]
}

// Append copies b to the tail of the log, advances head, and persists the
// updated superblock. Fails with ErrNoSpace without mutating anything if
// the image lacks room (§3 invariant 1).
func (img *Image) Append(b []byte) (uint32, error) {
	offset := img.Head()
	end := uint64(SuperblockSize) + uint64(offset) + uint64(len(b))
	if end > uint64(len(img.data)) {
		return 0, ErrNoSpace
	}

	copy(img.data[int(SuperblockSize)+int(offset):], b)
	img.sb.Head = uint32(end)
	copy(img.data[:SuperblockSize], img.sb.MarshalBinary())

	return offset, nil
}

// Tombstone marks the entry at entryOffset (an offset within LogRegion())
// as deleted. This is the only mutation ever applied to a previously
// written entry (§3).
func (img *Image) Tombstone(entryOffset uint32) error {
	base := int(SuperblockSize) + int(entryOffset)
	if base+InodeHeaderSize > len(img.data) {
		return fmt.Errorf("wfs: tombstone offset %d out of range", entryOffset)
	}

	var h InodeHeader
	if err := decodeFixed(img.data[base:base+InodeHeaderSize], &h); err != nil {
		return err
	}
	h.Deleted = 1
	copy(img.data[base:base+InodeHeaderSize], encodeFixed(&h))
	return nil
}

// setHead rewrites the superblock's head. head is relative to the start of
// the log region, matching Head()'s contract; it is stored on disk as an
// absolute offset, per §3. Compact does not use it: it builds its own
// superblock for the image file it writes.
func (img *Image) setHead(head uint32) {
	img.sb.Head = uint32(SuperblockSize) + head
	copy(img.data[:SuperblockSize], img.sb.MarshalBinary())
}
