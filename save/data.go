package save

import (
	"log/slog"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
	"github.com/cybergrind/r2save/prop"
)

// Data is a parsed SaveData: a document's own names table, its objects,
// and the optional headers that precede its OffsetInfo. A Data owns its
// Names table; objects and their property trees own their own sub-trees.
//
// NamesOffset/ObjectsOffset in the wire OffsetInfo are recorded relative
// to wherever this Data's own serialization begins (captured internally
// as the reader/writer position at the start of Read/Write) rather than
// against an externally supplied base: nested archives (e.g. a
// PersistenceContainer actor) are always copied byte-for-byte intact
// between buffers, so a structure's internal offsets resolve correctly
// wherever it is later embedded without threading an explicit
// container-offset parameter through this API. See DESIGN.md for the
// reasoning.
type Data struct {
	HasPackageVersion bool
	PackageVersion    PackageVersion

	HasTopLevelAssetPath bool
	TopLevelAssetPath    prop.TopLevelAssetPath

	OffsetVersion uint32
	Names         *names.Table
	Objects       []*Object
}

// ReadData parses a SaveData from r starting at its current position.
// hasPackageVersion/hasTopLevelAssetPath are caller-directed: the
// top-level document carries both; a PersistenceContainer actor's nested
// archive carries neither.
func ReadData(r *bio.Reader, hasPackageVersion, hasTopLevelAssetPath bool, logger *slog.Logger) (*Data, error) {
	if logger == nil {
		logger = slog.Default()
	}
	origin := r.Pos()
	d := &Data{HasPackageVersion: hasPackageVersion, HasTopLevelAssetPath: hasTopLevelAssetPath}

	if hasPackageVersion {
		pv, err := ReadPackageVersion(r)
		if err != nil {
			return nil, err
		}
		d.PackageVersion = pv
	}
	if hasTopLevelAssetPath {
		p, err := prop.ReadTopLevelAssetPath(r)
		if err != nil {
			return nil, err
		}
		d.TopLevelAssetPath = p
	}

	offsets, err := ReadOffsetInfo(r)
	if err != nil {
		return nil, err
	}
	d.OffsetVersion = offsets.Version
	objectsDataStart := r.Pos()

	if err := r.Seek(origin + int(offsets.NamesOffset)); err != nil {
		return nil, err
	}
	nameCount, err := r.I32()
	if err != nil {
		return nil, err
	}
	nameList := make([]string, 0, nameCount)
	for i := int32(0); i < nameCount; i++ {
		s, _, err := names.ReadFString(r)
		if err != nil {
			return nil, err
		}
		nameList = append(nameList, s)
	}
	d.Names = names.NewTableFrom(nameList)

	if err := r.Seek(origin + int(offsets.ObjectsOffset)); err != nil {
		return nil, err
	}
	objCount, err := r.I32()
	if err != nil {
		return nil, err
	}
	headers := make([]ObjectHeader, 0, objCount)
	for i := int32(0); i < objCount; i++ {
		h, err := readObjectHeader(r, int(i), hasTopLevelAssetPath)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	maxPos := r.Pos()

	if err := r.Seek(objectsDataStart); err != nil {
		return nil, err
	}
	d.Objects = make([]*Object, 0, objCount)
	for i := range headers {
		body, err := readObjectBody(r, d.Names, logger)
		if err != nil {
			return nil, err
		}
		body.Header = headers[i]
		d.Objects = append(d.Objects, body)
	}
	if r.Pos() > maxPos {
		maxPos = r.Pos()
	}
	return d, r.Seek(maxPos)
}

// WriteData serializes d, backpatching its OffsetInfo once the names and
// objects table positions are known.
func WriteData(w *bio.Writer, d *Data) error {
	origin := w.Pos()

	if d.HasPackageVersion {
		d.PackageVersion.Write(w)
	}
	if d.HasTopLevelAssetPath {
		if err := d.TopLevelAssetPath.Write(w); err != nil {
			return err
		}
	}

	offsetsPos := w.Pos()
	OffsetInfo{}.Write(w) // placeholder, patched below

	for _, obj := range d.Objects {
		if err := writeObjectBody(w, d.Names, obj); err != nil {
			return err
		}
	}

	objectsOffset := w.Pos() - origin
	w.I32(int32(len(d.Objects)))
	for i, obj := range d.Objects {
		if err := writeObjectHeader(w, obj.Header, i, d.HasTopLevelAssetPath); err != nil {
			return err
		}
	}

	namesOffset := w.Pos() - origin
	nameList := d.Names.Slice()
	w.I32(int32(len(nameList)))
	for _, n := range nameList {
		if err := names.WriteFString(w, n, true); err != nil {
			return err
		}
	}

	end := w.Pos()
	if err := w.Seek(offsetsPos); err != nil {
		return err
	}
	OffsetInfo{
		NamesOffset:   int64(namesOffset),
		Version:       d.OffsetVersion,
		ObjectsOffset: int64(objectsOffset),
	}.Write(w)
	return w.Seek(end)
}
