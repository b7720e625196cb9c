package wfs

import "testing"

func TestEncodeDecodeFixed(t *testing.T) {
	h := InodeHeader{
		InodeNumber: 7,
		Mode:        Mode(S_IFREG | 0644),
		Uid:         1000,
		Gid:         1000,
		Size:        123,
		Links:       1,
	}
	var out InodeHeader
	if err := decodeFixed(encodeFixed(&h), &out); err != nil {
		t.Fatalf("decodeFixed: %v", err)
	}
	if out != h {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, h)
	}
}

func TestDentryNameRoundTrip(t *testing.T) {
	var d Dentry
	d.setName("hello.txt")
	d.InodeNumber = 42

	encoded := encodeDentries([]Dentry{d})
	decoded := decodeDentries(encoded)
	if len(decoded) != 1 {
		t.Fatalf("got %d dentries, want 1", len(decoded))
	}
	if decoded[0].NameString() != "hello.txt" {
		t.Errorf("name = %q, want hello.txt", decoded[0].NameString())
	}
	if decoded[0].InodeNumber != 42 {
		t.Errorf("inode = %d, want 42", decoded[0].InodeNumber)
	}
}

func TestLogIteratorAdvancesBySize(t *testing.T) {
	h1 := InodeHeader{InodeNumber: 1, Mode: Mode(S_IFREG)}
	h2 := InodeHeader{InodeNumber: 2, Mode: Mode(S_IFREG)}

	var log []byte
	log = append(log, encodeEntry(h1, []byte("hello"))...)
	log = append(log, encodeEntry(h2, nil)...)

	it := newLogIterator(log, uint32(len(log)))

	e1, ok := it.next()
	if !ok || e1.Header.InodeNumber != 1 || string(e1.Payload) != "hello" {
		t.Fatalf("first entry mismatch: %+v ok=%v", e1, ok)
	}
	e2, ok := it.next()
	if !ok || e2.Header.InodeNumber != 2 || len(e2.Payload) != 0 {
		t.Fatalf("second entry mismatch: %+v ok=%v", e2, ok)
	}
	if _, ok := it.next(); ok {
		t.Errorf("expected iterator to be exhausted")
	}
}

func TestSuperblockRejectsBadMagic(t *testing.T) {
	sb := Superblock{Magic: 0x1, Head: 0}
	var out Superblock
	if err := out.UnmarshalBinary(sb.MarshalBinary()); err != ErrInvalidImage {
		t.Errorf("got %v, want ErrInvalidImage", err)
	}
}
