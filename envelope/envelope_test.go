package envelope

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildDoc(body string) []byte {
	doc := make([]byte, 12+len(body))
	binary.LittleEndian.PutUint32(doc[4:8], uint32(len(doc)))
	binary.LittleEndian.PutUint32(doc[8:12], ExpectedFormatVersion)
	copy(doc[12:], body)
	Update(doc)
	return doc
}

func TestCRC32RoundTrip(t *testing.T) {
	doc := buildDoc("hello save data")
	require.NoError(t, Verify(doc))

	doc[20] ^= 0xFF // flip a byte in the checksummed domain
	require.ErrorIs(t, Verify(doc), ErrBadChecksum)

	Update(doc)
	require.NoError(t, Verify(doc))
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	doc := buildDoc("the quick brown fox jumps over the lazy dog, repeatedly, for compression")

	compressed, err := Compress(doc)
	require.NoError(t, err)

	got, err := Decompress(compressed, nil)
	require.NoError(t, err)
	require.Equal(t, doc, got)
	require.NoError(t, Verify(got))
}

func TestDecompressEnvelopeRoundTripIsStable(t *testing.T) {
	doc := buildDoc("stability check payload")
	c1, err := Compress(doc)
	require.NoError(t, err)

	d1, err := Decompress(c1, nil)
	require.NoError(t, err)

	c2, err := Compress(d1)
	require.NoError(t, err)

	d2, err := Decompress(c2, nil)
	require.NoError(t, err)

	require.Equal(t, d1, d2)
}

func TestDecompressRejectsBadMagic(t *testing.T) {
	doc := buildDoc("x")
	compressed, err := Compress(doc)
	require.NoError(t, err)

	corrupt := append([]byte(nil), compressed...)
	corrupt[12] ^= 0xFF

	_, err = Decompress(corrupt, nil)
	require.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestCompressChunksLargeInput(t *testing.T) {
	big := make([]byte, int(ChunkMaxSize)*2+500)
	for i := range big {
		big[i] = byte(i)
	}
	doc := make([]byte, 12+len(big))
	binary.LittleEndian.PutUint32(doc[4:8], uint32(len(doc)))
	binary.LittleEndian.PutUint32(doc[8:12], ExpectedFormatVersion)
	copy(doc[12:], big)
	Update(doc)

	compressed, err := Compress(doc)
	require.NoError(t, err)

	got, err := Decompress(compressed, nil)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}
