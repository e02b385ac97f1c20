// Package prop implements the engine's reflection property system: typed
// property values (~20 kinds), PropertyBag sequencing, and the
// size-adjustment rules applied on write.
package prop

import (
	"fmt"
	"log/slog"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
)

// noneSentinel is the PropertyBag terminator name.
const noneSentinel = "None"

// Property is one named, typed entry in a PropertyBag.
type Property struct {
	Name  names.FName
	Type  names.FName
	Index uint32
	Value Value
}

// Bag is an ordered sequence of Property, as read up to (and not
// including) the "None" terminator.
type Bag struct {
	Properties []Property
}

// ReadBag reads properties until the "None" terminator FName is hit.
func ReadBag(r *bio.Reader, table *names.Table) (*Bag, error) {
	return ReadBagLogged(r, table, nil)
}

// ReadBagLogged is ReadBag with an explicit logger for unknown-kind
// warnings; a nil logger uses slog.Default().
func ReadBagLogged(r *bio.Reader, table *names.Table, logger *slog.Logger) (*Bag, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bag := &Bag{}
	for {
		nameF, err := names.ReadFName(r)
		if err != nil {
			return nil, err
		}
		name, err := nameF.Name(table)
		if err != nil {
			return nil, err
		}
		if name == noneSentinel {
			return bag, nil
		}

		typeF, err := names.ReadFName(r)
		if err != nil {
			return nil, err
		}
		size, err := r.U32()
		if err != nil {
			return nil, err
		}
		index, err := r.U32()
		if err != nil {
			return nil, err
		}

		typeName, err := typeF.Name(table)
		if err != nil {
			return nil, err
		}
		value, err := readPropertyValue(r, table, typeName, int(size), logger)
		if err != nil {
			return nil, fmt.Errorf("prop: property %q (%s): %w", name, typeName, err)
		}

		bag.Properties = append(bag.Properties, Property{Name: nameF, Type: typeF, Index: index, Value: value})
	}
}

func readPropertyValue(r *bio.Reader, table *names.Table, typeName string, size int, logger *slog.Logger) (Value, error) {
	if v, ok, err := readNamedScalar(r, typeName); ok {
		return v, err
	}
	switch typeName {
	case TypeStruct:
		structType, err := names.ReadFName(r)
		if err != nil {
			return nil, err
		}
		guid, err := ReadGuid(r)
		if err != nil {
			return nil, err
		}
		reserved, err := r.U8()
		if err != nil {
			return nil, err
		}
		// size is the wire-stored size field, already carrying the -19 write
		// adjustment (§4.4): it equals the payload bytes alone, not
		// including the StructType/Guid/Reserved header just consumed.
		payload, err := readStructPayload(r, table, structType, size)
		if err != nil {
			return nil, err
		}
		return StructValue{StructType: structType, Guid: guid, Reserved: reserved, Payload: payload}, nil
	case TypeArray:
		return readArrayValue(r, table)
	case TypeMap:
		return readMapValue(r, table)
	case TypeByte:
		return readByteValue(r, table)
	case TypeEnum:
		return readEnumValue(r)
	case TypeText:
		return readTextValue(r, size)
	default:
		logger.Warn("prop: unknown property kind, preserving opaque bytes", "type", typeName, "size", size)
		data, err := r.Bytes(size)
		if err != nil {
			return nil, err
		}
		return OpaqueValue{Data: append([]byte(nil), data...)}, nil
	}
}

// WriteBag writes a Bag followed by the "None" terminator.
func WriteBag(w *bio.Writer, table *names.Table, bag *Bag) error {
	for _, p := range bag.Properties {
		names.WriteFName(w, p.Name)
		names.WriteFName(w, p.Type)

		sizePos := w.Pos()
		w.U32(0) // size placeholder
		w.U32(p.Index)

		bodyStart := w.Pos()
		typeName, err := p.Type.Name(table)
		if err != nil {
			return err
		}
		if err := writePropertyValue(w, table, typeName, p.Value); err != nil {
			name, nameErr := p.Name.Name(table)
			if nameErr != nil {
				name = "?"
			}
			return fmt.Errorf("prop: property %q (%s): %w", name, typeName, err)
		}
		actual := w.Pos() - bodyStart

		stored := sizeForWrite(typeName, actual)
		endPos := w.Pos()
		if err := w.Seek(sizePos); err != nil {
			return err
		}
		w.U32(uint32(stored))
		if err := w.Seek(endPos); err != nil {
			return err
		}
	}
	noneFName := names.NewFName(table, noneSentinel)
	names.WriteFName(w, noneFName)
	return nil
}

// sizeForWrite applies the §4.4 size-adjustment table: the stored size
// field is actual payload bytes plus a kind-specific delta. MapProperty is
// deliberately NOT adjusted — applying the struct/array delta to it
// produces a size downstream readers reject.
func sizeForWrite(typeName string, actual int) int {
	switch typeName {
	case TypeStruct:
		return actual - 19
	case TypeArray:
		return actual - 3
	default:
		return actual
	}
}

func writePropertyValue(w *bio.Writer, table *names.Table, typeName string, v Value) error {
	if writeNamedScalar(w, v) {
		return nil
	}
	switch val := v.(type) {
	case StructValue:
		names.WriteFName(w, val.StructType)
		WriteGuid(w, val.Guid)
		w.U8(val.Reserved)
		return writeStructPayload(w, table, val.Payload)
	case ArrayValue:
		return writeArrayValue(w, table, val)
	case ArrayOfStructsValue:
		return writeArrayValue(w, table, val)
	case MapValue:
		return writeMapValue(w, val)
	case ByteValue:
		writeByteValue(w, val)
		return nil
	case EnumValue:
		writeEnumValue(w, val)
		return nil
	case TextValue:
		return writeTextValue(w, val)
	case OpaqueValue:
		w.WriteBytes(val.Data)
		return nil
	default:
		return fmt.Errorf("prop: unsupported value type %T", v)
	}
}
