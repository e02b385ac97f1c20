// Package envelope implements the chunked zlib compression wrapper around
// a save document and its CRC32 integrity check.
//
// An envelope is a fixed 12-byte outer header followed by one or more
// chunks, each independently zlib-compressed. The decompressed document
// that results from concatenating every chunk's inflated bytes carries its
// own 16-byte file header, whose first 12 bytes deliberately overlap the
// outer envelope header's fields — see Decompress for the exact byte
// layout this produces.
package envelope

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"log/slog"

	"github.com/klauspost/compress/zlib"
)

const (
	// ChunkMagic identifies the start of a chunk header.
	ChunkMagic uint64 = 0x222222229E2A83C1
	// ChunkMaxSize is the maximum number of decompressed bytes per chunk.
	ChunkMaxSize uint64 = 0x20000
	// CompressorZlib is the only compressor byte this format defines.
	CompressorZlib uint8 = 3
	// ExpectedFormatVersion is the outer header's format_version this
	// codec was built against; other values are accepted but logged.
	ExpectedFormatVersion uint32 = 9
)

var (
	// ErrMalformedEnvelope covers bad chunk magic, unknown compressor, or
	// an inflate failure.
	ErrMalformedEnvelope = errors.New("envelope: malformed")
	// ErrBadChecksum is returned by Verify when the stored CRC32 does not
	// match the computed one.
	ErrBadChecksum = errors.New("envelope: bad crc32 checksum")
	// ErrSizeMismatch covers a chunk's declared decompressed_size
	// disagreeing with what was actually inflated.
	ErrSizeMismatch = errors.New("envelope: size mismatch")
)

// OuterHeader is the fixed 12-byte header preceding the chunk stream.
type OuterHeader struct {
	CRC32            uint32
	DecompressedSize int32
	FormatVersion    uint32
}

// Decompress parses a compressed envelope and returns the reconstructed
// decompressed document: bytes [0:4] hold crc32, [4:8] hold
// decompressed_size, and [8:12] hold format_version, overlapping the first
// 12 bytes of the inner file header by construction (see package doc).
// logger receives a warning if format_version is unexpected; this is not
// fatal.
func Decompress(data []byte, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: envelope shorter than outer header", ErrMalformedEnvelope)
	}
	hdr := OuterHeader{
		CRC32:            binary.LittleEndian.Uint32(data[0:4]),
		DecompressedSize: int32(binary.LittleEndian.Uint32(data[4:8])),
		FormatVersion:    binary.LittleEndian.Uint32(data[8:12]),
	}
	if hdr.FormatVersion != ExpectedFormatVersion {
		logger.Warn("envelope: unexpected format_version", "got", hdr.FormatVersion, "want", ExpectedFormatVersion)
	}

	var out bytes.Buffer
	pos := 12
	for pos < len(data) {
		if pos+49 > len(data) {
			return nil, fmt.Errorf("%w: truncated chunk header at %d", ErrMalformedEnvelope, pos)
		}
		magic := binary.LittleEndian.Uint64(data[pos : pos+8])
		if magic != ChunkMagic {
			return nil, fmt.Errorf("%w: bad chunk magic at %d", ErrMalformedEnvelope, pos)
		}
		pos += 8
		pos += 8 // chunk_max, unused on read
		compressor := data[pos]
		pos++
		if compressor != CompressorZlib {
			return nil, fmt.Errorf("%w: unknown compressor byte %d", ErrMalformedEnvelope, compressor)
		}
		compressedSize := binary.LittleEndian.Uint64(data[pos : pos+8])
		pos += 8
		decompressedSize := binary.LittleEndian.Uint64(data[pos : pos+8])
		pos += 8
		pos += 8 // compressed_size dup
		pos += 8 // decompressed_size dup

		if pos+int(compressedSize) > len(data) {
			return nil, fmt.Errorf("%w: chunk body exceeds input", ErrMalformedEnvelope)
		}
		body := data[pos : pos+int(compressedSize)]
		pos += int(compressedSize)

		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: zlib open: %v", ErrMalformedEnvelope, err)
		}
		inflated, err := io.ReadAll(zr)
		_ = zr.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: zlib inflate: %v", ErrMalformedEnvelope, err)
		}
		if uint64(len(inflated)) != decompressedSize {
			return nil, fmt.Errorf("%w: chunk declared %d decompressed bytes, got %d",
				ErrSizeMismatch, decompressedSize, len(inflated))
		}
		out.Write(inflated)
	}

	result := out.Bytes()
	if len(result) < 12 {
		return nil, fmt.Errorf("%w: decompressed document shorter than file header", ErrMalformedEnvelope)
	}
	// result is the concatenated inflated chunk bytes, i.e. doc[8:] of the
	// original document (format_version onward — see Compress's own
	// body := patched[8:] chunking). Prepend the outer header's
	// crc32/decompressed_size to reconstruct bytes [0:8], then restore
	// format_version into [8:12] from the outer header, overwriting the
	// copy Compress patched to decompressedSize-12.
	full := make([]byte, len(result)+8)
	copy(full[8:], result)
	binary.LittleEndian.PutUint32(full[0:4], hdr.CRC32)
	binary.LittleEndian.PutUint32(full[4:8], uint32(hdr.DecompressedSize))
	binary.LittleEndian.PutUint32(full[8:12], hdr.FormatVersion)
	return full, nil
}

// Compress re-chunks and zlib-deflates a decompressed document (as
// produced by Decompress, or after in-place mutation of one) back into a
// compressed envelope. It restores bytes [8:12] to decompressed_size-12,
// the engine's original "save size" field that Decompress had overwritten
// with format_version, before splitting the buffer (from offset 8 onward)
// into ChunkMaxSize chunks.
func Compress(doc []byte) ([]byte, error) {
	if len(doc) < 12 {
		return nil, fmt.Errorf("%w: document shorter than file header", ErrMalformedEnvelope)
	}
	crc := binary.LittleEndian.Uint32(doc[0:4])
	decompressedSize := int32(binary.LittleEndian.Uint32(doc[4:8]))
	formatVersion := binary.LittleEndian.Uint32(doc[8:12])

	patched := make([]byte, len(doc))
	copy(patched, doc)
	binary.LittleEndian.PutUint32(patched[8:12], uint32(decompressedSize-12))

	var out bytes.Buffer
	out.Write(mustLE32(crc))
	out.Write(mustLE32(uint32(decompressedSize)))
	out.Write(mustLE32(formatVersion))

	body := patched[8:]
	for off := 0; off < len(body); off += int(ChunkMaxSize) {
		end := off + int(ChunkMaxSize)
		if end > len(body) {
			end = len(body)
		}
		chunk := body[off:end]

		var deflated bytes.Buffer
		zw := zlib.NewWriter(&deflated)
		if _, err := zw.Write(chunk); err != nil {
			return nil, fmt.Errorf("envelope: zlib deflate: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("envelope: zlib deflate close: %w", err)
		}

		writeChunkHeader(&out, uint64(deflated.Len()), uint64(len(chunk)))
		out.Write(deflated.Bytes())
	}
	return out.Bytes(), nil
}

func writeChunkHeader(w *bytes.Buffer, compressedSize, decompressedSize uint64) {
	w.Write(mustLE64(ChunkMagic))
	w.Write(mustLE64(ChunkMaxSize))
	w.WriteByte(CompressorZlib)
	w.Write(mustLE64(compressedSize))
	w.Write(mustLE64(decompressedSize))
	w.Write(mustLE64(compressedSize))
	w.Write(mustLE64(decompressedSize))
}

func mustLE32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func mustLE64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// CRC32 computes the IEEE CRC32 of doc[4:], the checksum domain used by
// the file header.
func CRC32(doc []byte) uint32 {
	if len(doc) < 4 {
		return crc32.ChecksumIEEE(nil)
	}
	return crc32.ChecksumIEEE(doc[4:])
}

// Verify reports whether doc's stored checksum (bytes [0:4]) matches
// CRC32(doc).
func Verify(doc []byte) error {
	if len(doc) < 4 {
		return fmt.Errorf("%w: document too short to carry a checksum", ErrBadChecksum)
	}
	want := binary.LittleEndian.Uint32(doc[0:4])
	got := CRC32(doc)
	if want != got {
		return fmt.Errorf("%w: stored %08x, computed %08x", ErrBadChecksum, want, got)
	}
	return nil
}

// Update recomputes CRC32(doc) and writes it into doc[0:4] in place.
func Update(doc []byte) {
	if len(doc) < 4 {
		return
	}
	binary.LittleEndian.PutUint32(doc[0:4], CRC32(doc))
}
