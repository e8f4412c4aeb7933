package compressors

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestGetCodec(t *testing.T) {
	t.Run("KnownNames", func(t *testing.T) {
		for _, name := range []string{"zstd", "lz4", "gzip", "none"} {
			codec, err := GetCodec(name)
			if err != nil {
				t.Fatalf("GetCodec(%q): %v", name, err)
			}
			if codec == nil {
				t.Fatalf("GetCodec(%q) returned nil", name)
			}
		}
	})

	t.Run("EmptyMeansNone", func(t *testing.T) {
		codec, err := GetCodec("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if codec.Extension() != "" {
			t.Fatalf("empty compression should map to the no-op codec, got %q", codec.Extension())
		}
	})

	t.Run("UnsupportedName", func(t *testing.T) {
		if _, err := GetCodec("brotli"); !errors.Is(err, ErrUnsupportedCompression) {
			t.Fatalf("expected ErrUnsupportedCompression, got %v", err)
		}
	})
}

func TestCodecRoundTrip(t *testing.T) {
	payload := []byte("id,name,amount\n1,alice,10.5\n2,bob,20.0\n")

	for _, name := range []string{"zstd", "lz4", "gzip", "none"} {
		t.Run(name, func(t *testing.T) {
			codec, err := GetCodec(name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			compressed, err := codec.Compress(payload, codec.DefaultLevel())
			if err != nil {
				t.Fatalf("compression failed: %v", err)
			}

			reader, err := codec.NewReader(bytes.NewReader(compressed))
			if err != nil {
				t.Fatalf("failed to create reader: %v", err)
			}
			defer reader.Close()

			decompressed, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("decompression failed: %v", err)
			}
			if !bytes.Equal(decompressed, payload) {
				t.Fatalf("round trip corrupted the payload: %q", decompressed)
			}
		})
	}
}

func TestDetectCompression(t *testing.T) {
	cases := map[string]string{
		"data/users.csv.zst": "zstd",
		"data/users.csv.lz4": "lz4",
		"data/users.csv.gz":  "gzip",
		"data/users.CSV.GZ":  "gzip",
		"data/users.csv":     "none",
		"data/users":         "none",
	}
	for path, want := range cases {
		if got := DetectCompression(path); got != want {
			t.Fatalf("DetectCompression(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestTrimCompressionExt(t *testing.T) {
	if got := TrimCompressionExt("users.csv.zst"); got != "users.csv" {
		t.Fatalf("expected users.csv, got %q", got)
	}
	if got := TrimCompressionExt("users.csv"); got != "users.csv" {
		t.Fatalf("uncompressed path must pass through, got %q", got)
	}
}

func TestLZ4CompressionLevels(t *testing.T) {
	payload := []byte("id,name,amount\n1,alice,10.5\n2,bob,20.0\n")
	codec := NewLZ4Codec()

	for level := 1; level <= 9; level++ {
		compressed, err := codec.Compress(payload, level)
		if err != nil {
			t.Fatalf("level %d: compression failed: %v", level, err)
		}

		reader, err := codec.NewReader(bytes.NewReader(compressed))
		if err != nil {
			t.Fatalf("level %d: failed to create reader: %v", level, err)
		}
		decompressed, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			t.Fatalf("level %d: decompression failed: %v", level, err)
		}
		if !bytes.Equal(decompressed, payload) {
			t.Fatalf("level %d: round trip corrupted the payload", level)
		}
	}
}
