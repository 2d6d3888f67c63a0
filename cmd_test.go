package huff

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func TestCompressFile(t *testing.T) {
	original := []byte(strings.Repeat("we here highly resolve that these dead shall not have died in vain. ", 64))

	src, err := os.CreateTemp("", "huff.TestCompressFile.src")
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer src.Close()
	defer os.Remove(src.Name())
	if _, err := src.Write(original); err != nil {
		t.Fatalf("%v", err)
	}
	if _, err := src.Seek(0, 0); err != nil {
		t.Fatalf("%v", err)
	}

	// Compress
	f, err := os.CreateTemp("", "huff.TestCompressFile.Compress")
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer f.Close()
	defer os.Remove(f.Name())
	if err := Compress(f, src); err != nil {
		t.Fatalf("%v", err)
	}

	// English text should come out smaller.
	compressedSize, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if compressedSize >= int64(len(original)) {
		t.Errorf("compressed %d bytes to %d bytes", len(original), compressedSize)
	}

	// Decompress
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("%v", err)
	}
	df, err := os.CreateTemp("", "huff.TestCompressFile.Decompress")
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer df.Close()
	defer os.Remove(df.Name())
	if err := Decompress(df, f); err != nil {
		t.Fatalf("%v", err)
	}

	// Check if the decompressed result is the same as the original file
	if _, err := df.Seek(0, 0); err != nil {
		t.Fatalf("%v", err)
	}
	decom, err := io.ReadAll(df)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if !bytes.Equal(original, decom) {
		t.Errorf("%v %v", original, decom)
	}
}
