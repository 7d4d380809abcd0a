// Package cache stores rendered output compressed on disk and decides
// whether it is still fresh.
//
// A cache file starts with a header line naming the key it was written
// for, followed by a zstd frame holding the output.
package cache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const magic = "laraguide-cache/1"

// ErrCorrupt is returned for files that are not laraguide caches.
var ErrCorrupt = errors.New("cache: corrupt file")

// Key joins the parts that identify an output (format, filter) into a
// single-line cache key.
func Key(parts ...string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(strings.Join(parts, " "))
}

// Write stores data under key at path.
func Write(path, key string, data []byte) error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer enc.Close()

	var buf bytes.Buffer
	buf.WriteString(magic + " " + Key(key) + "\n")
	buf.Write(enc.EncodeAll(data, nil))
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Read returns the data stored at path and the key it was written for.
func Read(path string) (data []byte, key string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	header, body, ok := bytes.Cut(raw, []byte("\n"))
	if !ok {
		return nil, "", ErrCorrupt
	}
	key, ok = strings.CutPrefix(string(header), magic+" ")
	if !ok {
		return nil, "", ErrCorrupt
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, "", fmt.Errorf("cache: %w", err)
	}
	defer dec.Close()

	data, err = dec.DecodeAll(body, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return data, key, nil
}

// Load returns the cached data when the file at path was written for key
// and every input modification time is older than the cache file.
func Load(path, key string, inputs []time.Time) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	written := info.ModTime()
	for _, t := range inputs {
		if !t.Before(written) {
			return nil, false
		}
	}

	data, stored, err := Read(path)
	if err != nil || stored != Key(key) {
		return nil, false
	}
	return data, true
}
