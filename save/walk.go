package save

import (
	"github.com/cybergrind/r2save/names"
	"github.com/cybergrind/r2save/prop"
)

// WalkFNames visits every FName leaf reachable from d: object headers,
// property names/types, and FName-valued properties nested arbitrarily
// deep inside structs, arrays, and maps. visit may mutate the FName in
// place (e.g. to change its Number); returning false from visit stops the
// traversal early.
//
// This is the general-purpose traversal primitive that a game-specific
// helper (for example, one that walks to a particular array-of-structs'
// row names) would be built from; it carries no knowledge of any
// particular property or component name.
func (d *Data) WalkFNames(visit func(*names.FName) bool) {
	for _, obj := range d.Objects {
		if !obj.Header.WasLoaded {
			if !visit(&obj.Header.LoadedName) {
				return
			}
		}
		if !walkBagFNames(obj.Properties, visit) {
			return
		}
		for _, c := range obj.Components {
			if !walkBagFNames(c.Payload, visit) {
				return
			}
		}
	}
}

func walkBagFNames(bag *prop.Bag, visit func(*names.FName) bool) bool {
	if bag == nil {
		return true
	}
	for i := range bag.Properties {
		p := &bag.Properties[i]
		if !visit(&p.Name) {
			return false
		}
		if !visit(&p.Type) {
			return false
		}
		if !walkValueFNames(&p.Value, visit) {
			return false
		}
	}
	return true
}

func walkValueFNames(v *prop.Value, visit func(*names.FName) bool) bool {
	switch val := (*v).(type) {
	case prop.NameValue:
		fn := names.FName(val)
		cont := visit(&fn)
		*v = prop.NameValue(fn)
		return cont
	case prop.StructValue:
		return walkStructPayloadFNames(val.Payload, visit)
	case prop.ArrayValue:
		for i, e := range val.Elements {
			if nv, ok := e.(prop.NameValue); ok {
				fn := names.FName(nv)
				cont := visit(&fn)
				val.Elements[i] = prop.NameValue(fn)
				if !cont {
					return false
				}
			}
		}
		return true
	case prop.ArrayOfStructsValue:
		for _, e := range val.Elements {
			if !walkStructPayloadFNames(e, visit) {
				return false
			}
		}
		return true
	case prop.MapValue:
		for i, e := range val.Entries {
			if nv, ok := e.Key.(prop.NameValue); ok {
				fn := names.FName(nv)
				cont := visit(&fn)
				val.Entries[i].Key = prop.NameValue(fn)
				if !cont {
					return false
				}
			}
			if nv, ok := e.Value.(prop.NameValue); ok {
				fn := names.FName(nv)
				cont := visit(&fn)
				val.Entries[i].Value = prop.NameValue(fn)
				if !cont {
					return false
				}
			}
		}
		return true
	case prop.ByteValue:
		if val.Name != nil {
			return visit(val.Name)
		}
		return true
	case prop.EnumValue:
		cont := visit(&val.Value)
		*v = val
		return cont
	}
	return true
}

func walkStructPayloadFNames(p prop.StructPayload, visit func(*names.FName) bool) bool {
	dp, ok := p.(prop.DefaultPayload)
	if !ok {
		return true
	}
	return walkBagFNames(dp.Bag, visit)
}

// FindArraysOfStructs returns every ArrayOfStructsValue in the document
// whose StructType resolves to elementTypeName, at any nesting depth. A
// caller can use this to express game-specific row-finding queries (e.g.
// "find the segments-by-row array") without this package naming any
// game-specific type itself.
func (d *Data) FindArraysOfStructs(elementTypeName string) []*prop.ArrayOfStructsValue {
	var found []*prop.ArrayOfStructsValue
	for _, obj := range d.Objects {
		collectArraysOfStructs(obj.Properties, d.Names, elementTypeName, &found)
		for _, c := range obj.Components {
			collectArraysOfStructs(c.Payload, d.Names, elementTypeName, &found)
		}
	}
	return found
}

func collectArraysOfStructs(bag *prop.Bag, table *names.Table, elementTypeName string, out *[]*prop.ArrayOfStructsValue) {
	if bag == nil {
		return
	}
	for i := range bag.Properties {
		p := &bag.Properties[i]
		switch val := p.Value.(type) {
		case prop.ArrayOfStructsValue:
			// An invalid StructType index can't match any caller-supplied
			// name; treat it as a non-match rather than erroring, since this
			// is a best-effort query over already-decoded data.
			if name, err := val.StructType.Name(table); err == nil && name == elementTypeName {
				*out = append(*out, &val)
			}
		case prop.StructValue:
			if dp, ok := val.Payload.(prop.DefaultPayload); ok {
				collectArraysOfStructs(dp.Bag, table, elementTypeName, out)
			}
		}
	}
}
