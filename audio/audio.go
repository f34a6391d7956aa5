// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"strings"
	"sync"
)

// Source is a pull based PCM stream.
type Source interface {
	// SampleRate is the stream rate in Hz.
	SampleRate() int
	// Channels is the number of interleaved channels.
	Channels() int
	// ReadSamples fills dst with interleaved samples in [-1, 1] and returns
	// the number of values written, not frames. io.EOF marks the end of the
	// stream and may come with a final non-zero count.
	ReadSamples(dst []float32) (n int, err error)
	// BufSize is the preferred number of values per ReadSamples call.
	BufSize() int
	Close() error
}

// Decoder opens a Source over an encoded stream.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format keys such as "wav" or ".MP3" to decoders. Keys are
// case insensitive and a leading dot is ignored, so file extensions can be
// used directly. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

func normalizeKey(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}

// Register binds format to d, replacing any previous decoder. Empty keys
// are ignored.
func (r *Registry) Register(format string, d Decoder) {
	key := normalizeKey(format)
	if key == "" || d == nil {
		return
	}

	r.mu.Lock()
	r.codecs[key] = d
	r.mu.Unlock()
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.codecs[normalizeKey(format)]
	return d, ok
}

// Formats returns the registered keys in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	slices.Sort(keys)
	return keys
}
