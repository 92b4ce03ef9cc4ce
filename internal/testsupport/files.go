package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteAudio writes a fake recording of size bytes under dir and returns its
// path. The contents are a repeating byte pattern; a size <= 0 writes a
// single byte.
func WriteAudio(t testing.TB, dir, name string, size int64) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = byte(i % 251)
	}

	for remaining := size; remaining > 0; {
		n := min(remaining, int64(chunkSize))
		if _, err := f.Write(buf[:n]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= n
	}
	return path
}
