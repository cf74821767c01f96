package grid

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"image"
	_ "image/gif" // decoders registered for image.Decode dispatch by format sniff
	"log"
	"sync"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp" // Kitty graphics payloads are occasionally re-encoded as BMP by lightweight clients
)

// imageKey is the content hash a cell's ImageRef points at.
type imageKey = uint64

// storedImage is a decoded sixel/Kitty-graphics payload plus the refcount
// of grid cells currently pointing at it.
type storedImage struct {
	pixels   image.Image
	refcount int
}

// SixelImageStore is the process-wide, refcounted, append-mostly store:
// entries are added by the parser and garbage collected only once no grid
// cell references them any longer. A bounded LRU of decoded pixel buffers
// sits alongside the refcount map so memory use stays capped even if a
// pathological stream never releases refs.
type SixelImageStore struct {
	mu      sync.Mutex
	entries map[imageKey]*storedImage
	cache   *lru.Cache[imageKey, image.Image]
}

// NewSixelImageStore creates a store with a bounded secondary decode cache
// holding at most maxCached images.
func NewSixelImageStore(maxCached int) *SixelImageStore {
	cache, err := lru.New[imageKey, image.Image](maxCached)
	if err != nil {
		// Only returns an error for a non-positive size; fall back to a
		// minimal cache rather than failing image storage altogether.
		cache, _ = lru.New[imageKey, image.Image](1)
	}
	return &SixelImageStore{
		entries: make(map[imageKey]*storedImage),
		cache:   cache,
	}
}

// hashPayload derives a stable content-hash key for a raw sixel/Kitty image
// payload, so two identical images transmitted separately share storage.
func hashPayload(payload []byte) imageKey {
	sum := sha256.Sum256(payload)
	return binary.BigEndian.Uint64(sum[:8])
}

// Put decodes and stores an image payload, returning its content-hash key.
// If the payload cannot be decoded by any registered codec, the raw bytes
// are still keyed and retained (a cell may reference it for re-transmission
// purposes even though this process cannot rasterize it).
func (s *SixelImageStore) Put(payload []byte) imageKey {
	key := hashPayload(payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		return key
	}
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		log.Printf("grid: sixel payload (%s) not decodable by any registered codec, storing opaque: %v",
			humanize.Bytes(uint64(len(payload))), err)
	}
	s.entries[key] = &storedImage{pixels: img}
	if img != nil {
		s.cache.Add(key, img)
	}
	return key
}

// Retain increments a stored image's cell-refcount. Called when a cell
// gains an ImageRef.
func (s *SixelImageStore) Retain(key imageKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.refcount++
	}
}

// Release decrements a stored image's refcount, evicting it once no cell
// references it any longer.
func (s *SixelImageStore) Release(key imageKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.refcount--
	if e.refcount <= 0 {
		delete(s.entries, key)
		s.cache.Remove(key)
	}
}

// Image returns the decoded pixel buffer for a key, if any codec could
// decode it.
func (s *SixelImageStore) Image(key imageKey) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if img, ok := s.cache.Get(key); ok {
		return img, true
	}
	if e, ok := s.entries[key]; ok && e.pixels != nil {
		return e.pixels, true
	}
	return nil, false
}

// Len reports the number of distinct images currently retained. Exposed
// for diagnostics and tests.
func (s *SixelImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
