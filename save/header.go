// Package save implements the top-level document format: the file header,
// the names/objects tables, per-object property data and components, and
// the nested persistence container describing world actors.
package save

import "github.com/cybergrind/r2save/bio"

// FileHeader is the 16-byte header of a decompressed document. CRC32 and
// DecompressedSize mirror the envelope's own outer header fields (see
// package envelope's doc comment for the deliberate byte overlap between
// the two); FormatVersion and BuildNumber are specific to the document.
type FileHeader struct {
	CRC32            uint32
	DecompressedSize int32
	FormatVersion    int32
	BuildNumber      int32
}

// ReadFileHeader reads a FileHeader.
func ReadFileHeader(r *bio.Reader) (FileHeader, error) {
	var h FileHeader
	var err error
	c, err := r.U32()
	if err != nil {
		return h, err
	}
	h.CRC32 = c
	if h.DecompressedSize, err = r.I32(); err != nil {
		return h, err
	}
	if h.FormatVersion, err = r.I32(); err != nil {
		return h, err
	}
	if h.BuildNumber, err = r.I32(); err != nil {
		return h, err
	}
	return h, nil
}

// Write writes a FileHeader.
func (h FileHeader) Write(w *bio.Writer) {
	w.U32(h.CRC32)
	w.I32(h.DecompressedSize)
	w.I32(h.FormatVersion)
	w.I32(h.BuildNumber)
}

// PackageVersion is the optional engine/licensee version pair some
// documents carry ahead of their OffsetInfo.
type PackageVersion struct {
	UEVersion         int32
	UELicenseeVersion int32
}

// ReadPackageVersion reads a PackageVersion.
func ReadPackageVersion(r *bio.Reader) (PackageVersion, error) {
	var v PackageVersion
	var err error
	if v.UEVersion, err = r.I32(); err != nil {
		return v, err
	}
	if v.UELicenseeVersion, err = r.I32(); err != nil {
		return v, err
	}
	return v, nil
}

// Write writes a PackageVersion.
func (v PackageVersion) Write(w *bio.Writer) {
	w.I32(v.UEVersion)
	w.I32(v.UELicenseeVersion)
}

// OffsetInfo is the 20-byte record giving the absolute (archive-relative)
// positions of a SaveData's names and objects tables, written last and
// pointed at first.
type OffsetInfo struct {
	NamesOffset   int64
	Version       uint32
	ObjectsOffset int64
}

// ReadOffsetInfo reads an OffsetInfo.
func ReadOffsetInfo(r *bio.Reader) (OffsetInfo, error) {
	var o OffsetInfo
	var err error
	if o.NamesOffset, err = r.I64(); err != nil {
		return o, err
	}
	if o.Version, err = r.U32(); err != nil {
		return o, err
	}
	if o.ObjectsOffset, err = r.I64(); err != nil {
		return o, err
	}
	return o, nil
}

// Write writes an OffsetInfo.
func (o OffsetInfo) Write(w *bio.Writer) {
	w.I64(o.NamesOffset)
	w.U32(o.Version)
	w.I64(o.ObjectsOffset)
}
