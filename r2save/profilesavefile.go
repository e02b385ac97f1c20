package r2save

import (
	"bytes"
	"fmt"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
	"github.com/cybergrind/r2save/prop"
	"github.com/cybergrind/r2save/save"
)

// ProfileSaveFile is a profile-variant document: its PersistenceBlob nests
// a SaveData (no package version, no top-level asset path) rather than a
// PersistenceContainer. Which decode path applies is chosen by which
// constructor the caller uses, not by inspecting a class_path string at
// runtime (see DESIGN.md).
type ProfileSaveFile struct {
	*SaveFile
}

// ProfileLoad reads path and decodes it as a profile save.
func ProfileLoad(path string, opts ...Option) (*ProfileSaveFile, error) {
	f, err := Load(path, opts...)
	if err != nil {
		return nil, err
	}
	return &ProfileSaveFile{SaveFile: f}, nil
}

// ProfileFromCompressed decodes a ProfileSaveFile from a compressed envelope.
func ProfileFromCompressed(b []byte, opts ...Option) (*ProfileSaveFile, error) {
	f, err := FromCompressed(b, opts...)
	if err != nil {
		return nil, err
	}
	return &ProfileSaveFile{SaveFile: f}, nil
}

// ProfileFromDecompressed decodes a ProfileSaveFile from an already-decompressed
// document.
func ProfileFromDecompressed(b []byte, opts ...Option) (*ProfileSaveFile, error) {
	f, err := FromDecompressed(b, opts...)
	if err != nil {
		return nil, err
	}
	return &ProfileSaveFile{SaveFile: f}, nil
}

// innerData decodes the profile's nested SaveData from its PersistenceBlob.
func (p *ProfileSaveFile) innerData() (*save.Data, error) {
	blob, ok := p.data.PersistenceBlob()
	if !ok {
		return nil, ErrBlobDetectionFailed
	}
	return save.DecodeBlobAsData(blob, p.logger)
}

// InnerNamesTable decodes the profile's nested SaveData and returns its own
// names table, distinct from the outer document's.
func (p *ProfileSaveFile) InnerNamesTable() (*names.Table, error) {
	d, err := p.innerData()
	if err != nil {
		return nil, err
	}
	return d.Names, nil
}

// ReplaceInnerName fully decodes the nested SaveData, renames old to new in
// its names table, and re-encodes it back into the PersistenceBlob. Prefer
// ReplaceInnerNameSurgical when old and new are known to encode to
// equal-length FStrings — it avoids the full decode/re-encode round trip.
func (p *ProfileSaveFile) ReplaceInnerName(old, new string) bool {
	d, err := p.innerData()
	if err != nil {
		return false
	}
	if !d.Names.Replace(old, new) {
		return false
	}
	blob, err := save.EncodeDataAsBlob(d)
	if err != nil {
		return false
	}
	return p.data.SetPersistenceBlob(blob)
}

// ReplaceInnerNameSurgical renames old to new inside the nested
// PersistenceBlob by patching its encoded FString bytes in place, without
// decoding the nested SaveData at all, when old and new encode to FStrings
// of identical on-wire byte length (both ASCII or both UTF-16LE, same
// character count). This is strictly an optimization over ReplaceInnerName
// for the common equal-length rename; any length change falls back to the
// fully structured path, since patching a length change would invalidate
// every NamesOffset/ObjectsOffset recorded after the patch point.
func (p *ProfileSaveFile) ReplaceInnerNameSurgical(old, new string) (bool, error) {
	oldEnc, err := encodeFString(old)
	if err != nil {
		return false, err
	}
	newEnc, err := encodeFString(new)
	if err != nil {
		return false, err
	}
	if len(oldEnc) != len(newEnc) {
		return p.ReplaceInnerName(old, new), nil
	}

	blob, ok := p.data.PersistenceBlob()
	if !ok {
		return false, ErrBlobDetectionFailed
	}
	idx := bytes.Index(blob.Data, oldEnc)
	if idx < 0 {
		return false, nil
	}
	patched := append([]byte(nil), blob.Data...)
	copy(patched[idx:idx+len(newEnc)], newEnc)
	return p.data.SetPersistenceBlob(prop.PersistenceBlobPayload{Data: patched}), nil
}

// encodeFString returns the full on-wire encoding of an FString carrying
// text (length prefix, character bytes, null terminator), for matching
// against raw blob bytes.
func encodeFString(s string) ([]byte, error) {
	w := bio.NewWriter()
	if err := names.WriteFString(w, s, true); err != nil {
		return nil, fmt.Errorf("r2save: encode fstring: %w", err)
	}
	return w.Bytes(), nil
}
