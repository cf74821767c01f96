package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallestGIF is the canonical minimal 1x1 transparent GIF89a image, used
// so Put() has something a registered codec (image/gif) can actually decode.
var smallestGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x21, 0xF9, 0x04, 0x01, 0x00, 0x00, 0x00,
	0x00, 0x2C, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02,
	0x44, 0x01, 0x00, 0x3B,
}

func TestSixelStorePutThenRetainAndReleaseEvictsAtZeroRefcount(t *testing.T) {
	s := NewSixelImageStore(8)
	key := s.Put(smallestGIF)
	assert.Equal(t, 1, s.Len())

	s.Retain(key)
	s.Retain(key)
	s.Release(key)
	assert.Equal(t, 1, s.Len(), "refcount is still 1 after two retains and one release")

	s.Release(key)
	assert.Equal(t, 0, s.Len(), "the second release drops refcount to zero and evicts")
}

func TestSixelStorePutSameContentTwiceSharesOneEntry(t *testing.T) {
	s := NewSixelImageStore(8)
	key1 := s.Put(smallestGIF)
	key2 := s.Put(smallestGIF)
	assert.Equal(t, key1, key2)
	assert.Equal(t, 1, s.Len())
}

func TestSixelStoreImageReturnsDecodedPixelsForValidPayload(t *testing.T) {
	s := NewSixelImageStore(8)
	key := s.Put(smallestGIF)

	img, ok := s.Image(key)
	require.True(t, ok)
	assert.Equal(t, 1, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
}

func TestSixelStoreUndecodablePayloadIsStillRetainedOpaquely(t *testing.T) {
	s := NewSixelImageStore(8)
	key := s.Put([]byte("not an image"))
	assert.Equal(t, 1, s.Len())

	_, ok := s.Image(key)
	assert.False(t, ok, "an undecodable payload has no pixel buffer to return")
}

func TestSixelStoreReleaseUnknownKeyIsANoop(t *testing.T) {
	s := NewSixelImageStore(8)
	assert.NotPanics(t, func() { s.Release(999) })
	assert.Equal(t, 0, s.Len())
}
