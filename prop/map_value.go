package prop

import (
	"fmt"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
)

// MapEntry is one key/value pair of a MapValue.
type MapEntry struct {
	Key   RawValue
	Value RawValue
}

// MapValue is a MapProperty. Unlike StructProperty/ArrayProperty, its
// stored size field is never adjusted on write (§4.4 — the one deliberate
// exception).
type MapValue struct {
	KeyType   names.FName
	ValueType names.FName
	Reserved  [5]byte
	Entries   []MapEntry
}

func (MapValue) isValue() {}

func readMapValue(r *bio.Reader, table *names.Table) (Value, error) {
	keyType, err := names.ReadFName(r)
	if err != nil {
		return nil, err
	}
	valueType, err := names.ReadFName(r)
	if err != nil {
		return nil, err
	}
	var reserved [5]byte
	for i := range reserved {
		b, err := r.U8()
		if err != nil {
			return nil, err
		}
		reserved[i] = b
	}
	count, err := r.I32()
	if err != nil {
		return nil, err
	}

	keyTypeName, err := keyType.Name(table)
	if err != nil {
		return nil, err
	}
	valueTypeName, err := valueType.Name(table)
	if err != nil {
		return nil, err
	}
	entries := make([]MapEntry, 0, count)
	for i := int32(0); i < count; i++ {
		k, err := readRawElement(r, keyTypeName)
		if err != nil {
			return nil, err
		}
		if k == nil {
			return nil, fmt.Errorf("prop: map entry %d: unsupported raw key type %q", i, keyTypeName)
		}
		v, err := readRawElement(r, valueTypeName)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, fmt.Errorf("prop: map entry %d: unsupported raw value type %q", i, valueTypeName)
		}
		entries = append(entries, MapEntry{Key: k, Value: v})
	}

	return MapValue{KeyType: keyType, ValueType: valueType, Reserved: reserved, Entries: entries}, nil
}

func writeMapValue(w *bio.Writer, v MapValue) error {
	names.WriteFName(w, v.KeyType)
	names.WriteFName(w, v.ValueType)
	for _, b := range v.Reserved {
		w.U8(b)
	}
	w.I32(int32(len(v.Entries)))
	for i, e := range v.Entries {
		if !writeRawElement(w, e.Key) {
			return fmt.Errorf("prop: map entry %d: unsupported raw key value %T", i, e.Key)
		}
		if !writeRawElement(w, e.Value) {
			return fmt.Errorf("prop: map entry %d: unsupported raw value value %T", i, e.Value)
		}
	}
	return nil
}
