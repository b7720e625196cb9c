package wfs_test

import (
	"testing"

	"github.com/karpeleslab/wfs"
)

func TestNestedPathResolution(t *testing.T) {
	m := newTestMount(t)

	if _, err := m.Mkdir("/a", 0755); err != nil {
		t.Fatalf("Mkdir /a: %v", err)
	}
	if _, err := m.Mkdir("/a/b", 0755); err != nil {
		t.Fatalf("Mkdir /a/b: %v", err)
	}
	if _, err := m.Mknod("/a/b/c.txt", 0644); err != nil {
		t.Fatalf("Mknod /a/b/c.txt: %v", err)
	}

	if _, err := m.Write("/a/b/c.txt", 0, []byte("data")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	h, err := m.Getattr("/a/b/c.txt")
	if err != nil {
		t.Fatalf("Getattr: %v", err)
	}
	if h.Size != 4 {
		t.Errorf("Size = %d, want 4", h.Size)
	}
}

func TestResolveThroughNonDirectoryFails(t *testing.T) {
	m := newTestMount(t)
	if _, err := m.Mknod("/f", 0644); err != nil {
		t.Fatalf("Mknod: %v", err)
	}
	if _, err := m.Getattr("/f/nested"); err != wfs.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestWriteToDirectoryFails(t *testing.T) {
	m := newTestMount(t)
	if _, err := m.Mkdir("/d", 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := m.Write("/d", 0, []byte("x")); err != wfs.ErrIsDirectory {
		t.Errorf("got %v, want ErrIsDirectory", err)
	}
	if _, err := m.Read("/d", 0, 10); err != wfs.ErrIsDirectory {
		t.Errorf("got %v, want ErrIsDirectory", err)
	}
}

func TestReaddirOnFileFails(t *testing.T) {
	m := newTestMount(t)
	if _, err := m.Mknod("/f", 0644); err != nil {
		t.Fatalf("Mknod: %v", err)
	}
	if _, err := m.Readdir("/f"); err != wfs.ErrNotDirectory {
		t.Errorf("got %v, want ErrNotDirectory", err)
	}
}
