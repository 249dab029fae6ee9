// Package seed fills a store from JSON lines files, one event per line, optionally gzip or zstd compressed.
package seed

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mailru/easyjson"
	"github.com/memrelay/nostr"
	"github.com/memrelay/nostr/eventstore"
	"github.com/rs/zerolog"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

type Stats struct {
	Lines    int
	Invalid  int
	Admitted map[eventstore.Result]int
}

func (s Stats) Saved() int { return s.Admitted[eventstore.Saved] }

// LoadFile admits every event found in path into store.
func LoadFile(store eventstore.Store, path string, log zerolog.Logger) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	stats, err := Load(store, f, log.With().Str("file", path).Logger())
	if err != nil {
		return stats, fmt.Errorf("failed to read '%s': %w", path, err)
	}
	return stats, nil
}

// Load admits every event read from r into store. Lines that aren't events are logged and skipped.
func Load(store eventstore.Store, r io.Reader, log zerolog.Logger) (Stats, error) {
	stats := Stats{Admitted: make(map[eventstore.Result]int, 6)}

	dec, err := decompress(r)
	if err != nil {
		return stats, err
	}
	defer dec.Close()

	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 16*1024*1024), 256*1024*1024)
	for scanner.Scan() {
		stats.Lines++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var evt nostr.Event
		if err := easyjson.Unmarshal(line, &evt); err != nil {
			stats.Invalid++
			log.Warn().Err(err).Int("line", stats.Lines).Msg("invalid event in seed")
			continue
		}

		stats.Admitted[store.Admit(evt)]++
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}

	log.Debug().
		Int("lines", stats.Lines).
		Int("saved", stats.Saved()).
		Int("invalid", stats.Invalid).
		Msg("seed loaded")

	return stats, nil
}

func decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip stream: %w", err)
		}
		return gz, nil
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("invalid zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return io.NopCloser(br), nil
	}
}
