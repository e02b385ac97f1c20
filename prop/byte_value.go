package prop

import (
	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
)

// ByteValue is a ByteProperty: a raw byte when EnumType resolves to
// "None", otherwise an FName naming the enum constant.
type ByteValue struct {
	EnumType names.FName
	Reserved uint8
	Byte     *uint8
	Name     *names.FName
}

func (ByteValue) isValue() {}

func readByteValue(r *bio.Reader, table *names.Table) (Value, error) {
	enumType, err := names.ReadFName(r)
	if err != nil {
		return nil, err
	}
	reserved, err := r.U8()
	if err != nil {
		return nil, err
	}
	v := ByteValue{EnumType: enumType, Reserved: reserved}
	enumTypeName, err := enumType.Name(table)
	if err != nil {
		return nil, err
	}
	if enumTypeName == "None" {
		b, err := r.U8()
		if err != nil {
			return nil, err
		}
		v.Byte = &b
		return v, nil
	}
	fn, err := names.ReadFName(r)
	if err != nil {
		return nil, err
	}
	v.Name = &fn
	return v, nil
}

func writeByteValue(w *bio.Writer, v ByteValue) {
	names.WriteFName(w, v.EnumType)
	w.U8(v.Reserved)
	if v.Byte != nil {
		w.U8(*v.Byte)
		return
	}
	if v.Name != nil {
		names.WriteFName(w, *v.Name)
	}
}

// EnumValue is an EnumProperty: the enum constant is always an FName.
type EnumValue struct {
	EnumType names.FName
	Reserved uint8
	Value    names.FName
}

func (EnumValue) isValue() {}

func readEnumValue(r *bio.Reader) (Value, error) {
	enumType, err := names.ReadFName(r)
	if err != nil {
		return nil, err
	}
	reserved, err := r.U8()
	if err != nil {
		return nil, err
	}
	value, err := names.ReadFName(r)
	if err != nil {
		return nil, err
	}
	return EnumValue{EnumType: enumType, Reserved: reserved, Value: value}, nil
}

func writeEnumValue(w *bio.Writer, v EnumValue) {
	names.WriteFName(w, v.EnumType)
	w.U8(v.Reserved)
	names.WriteFName(w, v.Value)
}
