package wfs

import (
	"bytes"
	"encoding/binary"
	"reflect"
)

// encodeFixed serializes a struct's exported fields, in declaration order,
// as little-endian binary data. This is the same field-by-field reflection
// technique the teacher's superblock parser used to avoid hand-writing a
// binary.Write call per field; here it is shared by every fixed-width
// on-disk record (Superblock, InodeHeader, Dentry).
func encodeFixed(v any) []byte {
	buf := new(bytes.Buffer)
	rv := reflect.ValueOf(v).Elem()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		// Fixed-width fields over a bytes.Buffer never fail to encode.
		_ = binary.Write(buf, binary.LittleEndian, f.Interface())
	}
	return buf.Bytes()
}

// decodeFixed is the inverse of encodeFixed.
func decodeFixed(data []byte, v any) error {
	r := bytes.NewReader(data)
	rv := reflect.ValueOf(v).Elem()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if err := binary.Read(r, binary.LittleEndian, f.Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// fixedSize returns the on-disk size of a fixed-width record.
func fixedSize(v any) int {
	rv := reflect.ValueOf(v).Elem()
	sz := 0
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		sz += int(f.Type().Size())
	}
	return sz
}
