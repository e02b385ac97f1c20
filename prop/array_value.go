package prop

import (
	"fmt"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
)

// ArrayValue is an ArrayProperty whose element type is anything other than
// StructProperty: elements are packed as RawValue in the declared element
// type, with no per-element no_raw byte.
type ArrayValue struct {
	ElementType names.FName
	Reserved    uint8
	Elements    []RawValue
}

func (ArrayValue) isValue() {}

// ArrayOfStructsValue is the specialized wire layout used when
// ArrayProperty's element type is StructProperty (§4.4).
type ArrayOfStructsValue struct {
	OuterElementType names.FName // always resolves to "StructProperty"
	ElementName      names.FName
	ElementType      names.FName
	Index            uint32
	StructType       names.FName
	Guid             Guid
	Reserved         uint8
	Elements         []StructPayload
}

func (ArrayOfStructsValue) isValue() {}

func readArrayValue(r *bio.Reader, table *names.Table) (Value, error) {
	elementType, err := names.ReadFName(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.U8(); err != nil { // reserved
		return nil, err
	}
	count, err := r.I32()
	if err != nil {
		return nil, err
	}

	typeName, err := elementType.Name(table)
	if err != nil {
		return nil, err
	}
	if typeName == TypeStruct {
		return readArrayOfStructs(r, table, elementType, count)
	}

	elems := make([]RawValue, 0, count)
	for i := int32(0); i < count; i++ {
		v, err := readRawElement(r, typeName)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, fmt.Errorf("prop: array element %d: unsupported raw element type %q", i, typeName)
		}
		elems = append(elems, v)
	}
	return ArrayValue{ElementType: elementType, Elements: elems}, nil
}

func readArrayOfStructs(r *bio.Reader, table *names.Table, elementType names.FName, count int32) (Value, error) {
	elementName, err := names.ReadFName(r)
	if err != nil {
		return nil, err
	}
	innerElementType, err := names.ReadFName(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.U32(); err != nil { // elements_total_size, recomputed on write
		return nil, err
	}
	index, err := r.U32()
	if err != nil {
		return nil, err
	}
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

	elems := make([]StructPayload, 0, count)
	for i := int32(0); i < count; i++ {
		p, err := readStructPayload(r, table, structType, -1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, p)
	}

	return ArrayOfStructsValue{
		OuterElementType: elementType,
		ElementName:      elementName,
		ElementType:      innerElementType,
		Index:            index,
		StructType:       structType,
		Guid:             guid,
		Reserved:         reserved,
		Elements:         elems,
	}, nil
}

func writeArrayValue(w *bio.Writer, table *names.Table, v Value) error {
	switch val := v.(type) {
	case ArrayValue:
		names.WriteFName(w, val.ElementType)
		w.U8(val.Reserved)
		w.I32(int32(len(val.Elements)))
		for i, elem := range val.Elements {
			if !writeRawElement(w, elem) {
				return fmt.Errorf("prop: array element %d: unsupported raw element value %T", i, elem)
			}
		}
		return nil
	case ArrayOfStructsValue:
		names.WriteFName(w, val.OuterElementType)
		w.U8(0)
		w.I32(int32(len(val.Elements)))

		names.WriteFName(w, val.ElementName)
		names.WriteFName(w, val.ElementType)
		sizePos := w.Pos()
		w.U32(0) // elements_total_size placeholder
		w.U32(val.Index)
		names.WriteFName(w, val.StructType)
		WriteGuid(w, val.Guid)
		w.U8(val.Reserved)

		bodyStart := w.Pos()
		for i, elem := range val.Elements {
			if err := writeStructPayload(w, table, elem); err != nil {
				return fmt.Errorf("prop: array-of-structs element %d: %w", i, err)
			}
		}
		bodySize := w.Pos() - bodyStart
		endPos := w.Pos()
		if err := w.Seek(sizePos); err != nil {
			return err
		}
		w.U32(uint32(bodySize))
		return w.Seek(endPos)
	default:
		return fmt.Errorf("prop: not an array value: %T", v)
	}
}
