package prop

import (
	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
)

// Value is the payload carried by a Property: one of the scalar kinds,
// StructValue, ArrayValue, ArrayOfStructsValue, MapValue, ByteValue,
// EnumValue, TextValue, or OpaqueValue (for a property kind this codec
// does not recognize).
type Value interface {
	isValue()
}

// RawValue is an element value inside an ArrayValue or MapValue, encoded
// without the no_raw discriminator byte or named-property framing that
// wraps the same kind at the top level.
type RawValue interface {
	isRawValue()
}

// Known property type names, matched against an FName's resolved text.
const (
	TypeInt       = "IntProperty"
	TypeUInt32    = "UInt32Property"
	TypeInt64     = "Int64Property"
	TypeUInt64    = "UInt64Property"
	TypeFloat     = "FloatProperty"
	TypeDouble    = "DoubleProperty"
	TypeBool      = "BoolProperty"
	TypeStr       = "StrProperty"
	TypeName      = "NameProperty"
	TypeObject    = "ObjectProperty"
	TypeSoftClass = "SoftClassProperty"
	TypeSoftObj   = "SoftObjectProperty"
	TypeStruct    = "StructProperty"
	TypeArray     = "ArrayProperty"
	TypeMap       = "MapProperty"
	TypeByte      = "ByteProperty"
	TypeEnum      = "EnumProperty"
	TypeText      = "TextProperty"
)

// Struct payload type names, matched against StructValue.StructType.
const (
	StructGuid            = "Guid"
	StructVector          = "Vector"
	StructRotator         = "Rotator"
	StructTimespan        = "Timespan"
	StructDateTime        = "DateTime"
	StructSoftClassPath   = "SoftClassPath"
	StructSoftObjectPath  = "SoftObjectPath"
	StructPersistenceBlob = "PersistenceBlob"
)

// --- scalar value kinds ---

type IntValue int32

func (IntValue) isValue()    {}
func (IntValue) isRawValue() {}

type UInt32Value uint32

func (UInt32Value) isValue()    {}
func (UInt32Value) isRawValue() {}

type Int64Value int64

func (Int64Value) isValue()    {}
func (Int64Value) isRawValue() {}

type UInt64Value uint64

func (UInt64Value) isValue()    {}
func (UInt64Value) isRawValue() {}

type FloatValue float32

func (FloatValue) isValue()    {}
func (FloatValue) isRawValue() {}

type DoubleValue float64

func (DoubleValue) isValue()    {}
func (DoubleValue) isRawValue() {}

type BoolValue bool

func (BoolValue) isValue()    {}
func (BoolValue) isRawValue() {}

type StrValue FString

func (StrValue) isValue()    {}
func (StrValue) isRawValue() {}

type NameValue names.FName

func (NameValue) isValue()    {}
func (NameValue) isRawValue() {}

type ObjectValue int32

func (ObjectValue) isValue()    {}
func (ObjectValue) isRawValue() {}

type SoftClassValue SoftObjectPath

func (SoftClassValue) isValue()    {}
func (SoftClassValue) isRawValue() {}

type SoftObjectValue SoftObjectPath

func (SoftObjectValue) isValue()    {}
func (SoftObjectValue) isRawValue() {}

// GuidValue is the raw-mode element form of a StructProperty array/map
// element ("StructProperty in raw mode is a single FGuid").
type GuidValue Guid

func (GuidValue) isRawValue() {}

// OpaqueValue preserves the bytes of a property kind this codec does not
// recognize, so the property still round-trips unchanged.
type OpaqueValue struct {
	Data []byte
}

func (OpaqueValue) isValue()    {}
func (OpaqueValue) isRawValue() {}

// readNamedScalar reads a scalar Value in named-property context (with its
// leading no_raw byte, or trailing for Bool), dispatching on typeName.
// ok is false if typeName is not a recognized scalar kind.
func readNamedScalar(r *bio.Reader, typeName string) (Value, bool, error) {
	switch typeName {
	case TypeInt:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		v, err := r.I32()
		return IntValue(v), true, err
	case TypeUInt32:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		v, err := r.U32()
		return UInt32Value(v), true, err
	case TypeInt64:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		v, err := r.I64()
		return Int64Value(v), true, err
	case TypeUInt64:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		v, err := r.U64()
		return UInt64Value(v), true, err
	case TypeFloat:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		v, err := r.F32()
		return FloatValue(v), true, err
	case TypeDouble:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		v, err := r.F64()
		return DoubleValue(v), true, err
	case TypeBool:
		b, err := r.Bool()
		if err != nil {
			return nil, true, err
		}
		if _, err := r.U8(); err != nil { // NoRaw byte, trailing for Bool
			return nil, true, err
		}
		return BoolValue(b), true, nil
	case TypeStr:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		s, err := ReadOptionalFString(r)
		return StrValue(s), true, err
	case TypeName:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		fn, err := names.ReadFName(r)
		return NameValue(fn), true, err
	case TypeObject:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		v, err := r.I32()
		return ObjectValue(v), true, err
	case TypeSoftClass:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		p, err := ReadSoftObjectPath(r)
		return SoftClassValue(p), true, err
	case TypeSoftObj:
		if _, err := r.U8(); err != nil {
			return nil, true, err
		}
		p, err := ReadSoftObjectPath(r)
		return SoftObjectValue(p), true, err
	default:
		return nil, false, nil
	}
}

func writeNamedScalar(w *bio.Writer, v Value) bool {
	switch val := v.(type) {
	case IntValue:
		w.U8(0)
		w.I32(int32(val))
	case UInt32Value:
		w.U8(0)
		w.U32(uint32(val))
	case Int64Value:
		w.U8(0)
		w.I64(int64(val))
	case UInt64Value:
		w.U8(0)
		w.U64(uint64(val))
	case FloatValue:
		w.U8(0)
		w.F32(float32(val))
	case DoubleValue:
		w.U8(0)
		w.F64(float64(val))
	case BoolValue:
		w.Bool(bool(val))
		w.U8(0)
	case StrValue:
		w.U8(0)
		_ = FString(val).Write(w)
	case NameValue:
		w.U8(0)
		names.WriteFName(w, names.FName(val))
	case ObjectValue:
		w.U8(0)
		w.I32(int32(val))
	case SoftClassValue:
		w.U8(0)
		_ = SoftObjectPath(val).Write(w)
	case SoftObjectValue:
		w.U8(0)
		_ = SoftObjectPath(val).Write(w)
	default:
		return false
	}
	return true
}

// readRawElement reads an element Value inside an array or map: the
// no_raw byte and other named-property framing is omitted, but a value's
// own intrinsic framing (FString's length prefix, FName's index) still
// applies.
func readRawElement(r *bio.Reader, typeName string) (RawValue, error) {
	switch typeName {
	case TypeInt:
		v, err := r.I32()
		return IntValue(v), err
	case TypeUInt32:
		v, err := r.U32()
		return UInt32Value(v), err
	case TypeInt64:
		v, err := r.I64()
		return Int64Value(v), err
	case TypeUInt64:
		v, err := r.U64()
		return UInt64Value(v), err
	case TypeFloat:
		v, err := r.F32()
		return FloatValue(v), err
	case TypeDouble:
		v, err := r.F64()
		return DoubleValue(v), err
	case TypeBool:
		b, err := r.Bool()
		return BoolValue(b), err
	case TypeStr:
		s, err := ReadOptionalFString(r)
		return StrValue(s), err
	case TypeName:
		fn, err := names.ReadFName(r)
		return NameValue(fn), err
	case TypeObject:
		v, err := r.I32()
		return ObjectValue(v), err
	case TypeSoftClass:
		p, err := ReadSoftObjectPath(r)
		return SoftClassValue(p), err
	case TypeSoftObj:
		p, err := ReadSoftObjectPath(r)
		return SoftObjectValue(p), err
	case TypeStruct:
		g, err := ReadGuid(r)
		return GuidValue(g), err
	default:
		return nil, nil
	}
}

func writeRawElement(w *bio.Writer, v RawValue) bool {
	switch val := v.(type) {
	case IntValue:
		w.I32(int32(val))
	case UInt32Value:
		w.U32(uint32(val))
	case Int64Value:
		w.I64(int64(val))
	case UInt64Value:
		w.U64(uint64(val))
	case FloatValue:
		w.F32(float32(val))
	case DoubleValue:
		w.F64(float64(val))
	case BoolValue:
		w.Bool(bool(val))
	case StrValue:
		_ = FString(val).Write(w)
	case NameValue:
		names.WriteFName(w, names.FName(val))
	case ObjectValue:
		w.I32(int32(val))
	case SoftClassValue:
		_ = SoftObjectPath(val).Write(w)
	case SoftObjectValue:
		_ = SoftObjectPath(val).Write(w)
	case GuidValue:
		WriteGuid(w, Guid(val))
	default:
		return false
	}
	return true
}
