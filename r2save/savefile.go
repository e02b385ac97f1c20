package r2save

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/envelope"
	"github.com/cybergrind/r2save/names"
	"github.com/cybergrind/r2save/prop"
	"github.com/cybergrind/r2save/save"
)

// SaveFile is a decoded world/character save document: the top-level
// document carries both a package version and a top-level asset path ahead
// of its OffsetInfo, unlike a PersistenceContainer actor's nested archive
// (see save.Data's doc comment).
type SaveFile struct {
	header save.FileHeader
	data   *save.Data
	logger *slog.Logger
}

// Load reads path, decompresses its envelope, and decodes its document.
func Load(path string, opts ...Option) (*SaveFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("r2save: %w", err)
	}
	return FromCompressed(b, opts...)
}

// Save re-encodes f and writes it to path.
func (f *SaveFile) Save(path string) error {
	b, err := f.ToCompressed()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// FromCompressed decodes a SaveFile from the raw bytes of a compressed
// envelope.
func FromCompressed(b []byte, opts ...Option) (*SaveFile, error) {
	o := newOptions(opts...)
	doc, err := envelope.Decompress(b, o.logger)
	if err != nil {
		return nil, err
	}
	return fromDecompressedWithOptions(doc, o)
}

// ToCompressed re-encodes f's document and wraps it in a fresh envelope.
func (f *SaveFile) ToCompressed() ([]byte, error) {
	doc, err := f.ToDecompressed()
	if err != nil {
		return nil, err
	}
	return envelope.Compress(doc)
}

// FromDecompressed decodes a SaveFile from an already-decompressed document
// (as produced by ToDecompressed, or by envelope.Decompress).
func FromDecompressed(b []byte, opts ...Option) (*SaveFile, error) {
	return fromDecompressedWithOptions(b, newOptions(opts...))
}

func fromDecompressedWithOptions(b []byte, o *options) (*SaveFile, error) {
	r := bio.NewReader(b)
	header, err := save.ReadFileHeader(r)
	if err != nil {
		return nil, err
	}
	if o.strictEnvelopeVersion && header.FormatVersion != int32(envelope.ExpectedFormatVersion) {
		return nil, fmt.Errorf("%w: document format_version %d", ErrMalformedEnvelope, header.FormatVersion)
	}
	data, err := save.ReadData(r, true, true, o.logger)
	if err != nil {
		return nil, err
	}
	return &SaveFile{header: header, data: data, logger: o.logger}, nil
}

// ToDecompressed serializes f's document, recomputing DecompressedSize and
// CRC32 in its FileHeader.
func (f *SaveFile) ToDecompressed() ([]byte, error) {
	w := bio.NewWriter()
	f.header.Write(w) // placeholder; patched below once the real size/crc are known
	if err := save.WriteData(w, f.data); err != nil {
		return nil, err
	}
	doc := w.Bytes()

	f.header.DecompressedSize = int32(len(doc))
	if err := w.Seek(0); err != nil {
		return nil, err
	}
	f.header.Write(w)
	f.header.CRC32 = envelope.CRC32(w.Bytes())
	if err := w.Seek(0); err != nil {
		return nil, err
	}
	f.header.Write(w)
	return w.Bytes(), nil
}

// NamesTable returns the document's top-level interned names table.
func (f *SaveFile) NamesTable() *names.Table { return f.data.Names }

// PersistenceBlobNamesTable decodes the document's PersistenceContainer (if
// any) and returns the names table of its first actor's archive — distinct
// from the top-level one, since each SaveData owns its own table. Other
// actors' tables are not returned; ok is false when there is no blob, it
// does not decode, or the container has no actors.
func (f *SaveFile) PersistenceBlobNamesTable() (*names.Table, bool) {
	blob, ok := f.data.PersistenceBlob()
	if !ok {
		return nil, false
	}
	c, err := save.DecodeBlobAsContainer(blob, f.logger)
	if err != nil || len(c.Actors) == 0 {
		return nil, false
	}
	return c.Actors[0].Archive.Names, true
}

// ReplaceName renames old to new in the top-level names table in place,
// preserving every FName index (see names.Table.Replace).
func (f *SaveFile) ReplaceName(old, new string) bool {
	return f.data.Names.Replace(old, new)
}

// ReplaceInnerName decodes the document's PersistenceContainer, renames old
// to new in every actor archive's own names table, and re-encodes the
// container back into the document.
func (f *SaveFile) ReplaceInnerName(old, new string) bool {
	blob, ok := f.data.PersistenceBlob()
	if !ok {
		return false
	}
	c, err := save.DecodeBlobAsContainer(blob, f.logger)
	if err != nil {
		return false
	}
	found := false
	for _, a := range c.Actors {
		if a.Archive != nil && a.Archive.Names.Replace(old, new) {
			found = true
		}
	}
	if !found {
		return false
	}
	newBlob, err := save.EncodeContainerAsBlob(c)
	if err != nil {
		return false
	}
	return f.data.SetPersistenceBlob(newBlob)
}

// WalkObjects visits every top-level object in document order, stopping
// early if visit returns false.
func (f *SaveFile) WalkObjects(visit func(*save.Object) bool) {
	for _, obj := range f.data.Objects {
		if !visit(obj) {
			return
		}
	}
}

// WalkFNames visits every FName leaf reachable from the document.
func (f *SaveFile) WalkFNames(visit func(*names.FName) bool) {
	f.data.WalkFNames(visit)
}

// FindArraysOfStructs returns every array-of-structs property whose element
// struct type resolves to elementTypeName, anywhere in the document.
func (f *SaveFile) FindArraysOfStructs(elementTypeName string) []*prop.ArrayOfStructsValue {
	return f.data.FindArraysOfStructs(elementTypeName)
}
