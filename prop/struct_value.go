package prop

import (
	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
)

// StructValue is a StructProperty: a typed GUID-tagged payload whose shape
// is chosen by StructType's resolved text.
type StructValue struct {
	StructType names.FName
	Guid       Guid
	Reserved   uint8
	Payload    StructPayload
}

func (StructValue) isValue() {}

// StructPayload is the value carried inside a StructValue, one arm per
// struct type name recognized in §4.4.
type StructPayload interface {
	isStructPayload()
}

type GuidPayload Guid

func (GuidPayload) isStructPayload() {}

type VectorPayload Vector

func (VectorPayload) isStructPayload() {}

type RotatorPayload Rotator

func (RotatorPayload) isStructPayload() {}

// TimespanPayload holds a tick count (100ns units), the engine's FTimespan
// wire representation.
type TimespanPayload int64

func (TimespanPayload) isStructPayload() {}

// DateTimePayload holds a tick count, the engine's FDateTime wire
// representation.
type DateTimePayload int64

func (DateTimePayload) isStructPayload() {}

type SoftClassPathPayload SoftObjectPath

func (SoftClassPathPayload) isStructPayload() {}

type SoftObjectPathPayload SoftObjectPath

func (SoftObjectPathPayload) isStructPayload() {}

// PersistenceBlobPayload holds the raw bytes of a size-prefixed recursive
// payload. Its inner bytes are either a nested SaveData or a
// PersistenceContainer. Neither this package nor package save inspects a
// class path to tell them apart: the caller picks save.DecodeBlobAsData or
// save.DecodeBlobAsContainer.
type PersistenceBlobPayload struct {
	Data []byte
}

func (PersistenceBlobPayload) isStructPayload() {}

// DefaultPayload is a nested PropertyBag, the catch-all struct payload
// for any StructType not otherwise recognized.
type DefaultPayload struct {
	Bag *Bag
}

func (DefaultPayload) isStructPayload() {}

// readStructPayload reads size bytes of struct payload, dispatching on
// structType's resolved text.
func readStructPayload(r *bio.Reader, table *names.Table, structType names.FName, size int) (StructPayload, error) {
	end := -1
	if size >= 0 {
		end = r.Pos() + size
	}
	typeName, err := structType.Name(table)
	if err != nil {
		return nil, err
	}
	switch typeName {
	case StructGuid:
		g, err := ReadGuid(r)
		return GuidPayload(g), err
	case StructVector:
		v, err := ReadVector(r)
		return VectorPayload(v), err
	case StructRotator:
		v, err := ReadRotator(r)
		return RotatorPayload(v), err
	case StructTimespan:
		v, err := r.I64()
		return TimespanPayload(v), err
	case StructDateTime:
		v, err := r.I64()
		return DateTimePayload(v), err
	case StructSoftClassPath:
		p, err := ReadSoftObjectPath(r)
		return SoftClassPathPayload(p), err
	case StructSoftObjectPath:
		p, err := ReadSoftObjectPath(r)
		return SoftObjectPathPayload(p), err
	case StructPersistenceBlob:
		blobSize, err := r.I32()
		if err != nil {
			return nil, err
		}
		data, err := r.Bytes(int(blobSize))
		if err != nil {
			return nil, err
		}
		return PersistenceBlobPayload{Data: append([]byte(nil), data...)}, nil
	default:
		bag, err := ReadBag(r, table)
		if err != nil {
			return nil, err
		}
		// Struct payloads are size-bounded; skip any trailer the bag
		// read didn't consume (defensive against unknown nested fields).
		if end >= 0 {
			if remaining := end - r.Pos(); remaining > 0 {
				if _, err := r.Bytes(remaining); err != nil {
					return nil, err
				}
			}
		}
		return DefaultPayload{Bag: bag}, nil
	}
}

func writeStructPayload(w *bio.Writer, table *names.Table, p StructPayload) error {
	switch v := p.(type) {
	case GuidPayload:
		WriteGuid(w, Guid(v))
	case VectorPayload:
		WriteVector(w, Vector(v))
	case RotatorPayload:
		WriteRotator(w, Rotator(v))
	case TimespanPayload:
		w.I64(int64(v))
	case DateTimePayload:
		w.I64(int64(v))
	case SoftClassPathPayload:
		return SoftObjectPath(v).Write(w)
	case SoftObjectPathPayload:
		return SoftObjectPath(v).Write(w)
	case PersistenceBlobPayload:
		w.I32(int32(len(v.Data)))
		w.WriteBytes(v.Data)
	case DefaultPayload:
		return WriteBag(w, table, v.Bag)
	}
	return nil
}
