package wfs_test

import (
	"os"
	"testing"

	"github.com/karpeleslab/wfs"
)

func TestMkfsOpen(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/img.wfs"

	if err := wfs.Mkfs(path, 4096); err != nil {
		t.Fatalf("Mkfs: %v", err)
	}

	m, err := wfs.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()

	root, err := m.Getattr("/")
	if err != nil {
		t.Fatalf("Getattr(/): %v", err)
	}
	if !root.Mode.IsDir() {
		t.Errorf("root is not a directory")
	}
	if root.InodeNumber != 0 {
		t.Errorf("root inode = %d, want 0", root.InodeNumber)
	}
}

func TestHeadIsAbsoluteOffset(t *testing.T) {
	// §3: "head ... absolute byte offset of the first free byte", and §8
	// invariant 3: sizeof(Superblock) + Σ entry.size == superblock.head.
	// A fresh image's log holds only the root entry (no payload), so head
	// must equal SuperblockSize + InodeHeaderSize, not just InodeHeaderSize.
	dir := t.TempDir()
	path := dir + "/img.wfs"
	if err := wfs.Mkfs(path, 4096); err != nil {
		t.Fatalf("Mkfs: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var sb wfs.Superblock
	if err := sb.UnmarshalBinary(data[:wfs.SuperblockSize]); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}

	want := uint32(wfs.SuperblockSize + wfs.InodeHeaderSize)
	if sb.Head != want {
		t.Errorf("head = %d, want %d (SuperblockSize=%d, InodeHeaderSize=%d)",
			sb.Head, want, wfs.SuperblockSize, wfs.InodeHeaderSize)
	}
}

func TestMkfsRejectsBadCapacity(t *testing.T) {
	dir := t.TempDir()
	if err := wfs.Mkfs(dir+"/img.wfs", 1); err == nil {
		t.Errorf("expected error for too-small capacity")
	}
	if err := wfs.Mkfs(dir+"/img.wfs", wfs.MaxSize+1); err == nil {
		t.Errorf("expected error for over-max capacity")
	}
}
