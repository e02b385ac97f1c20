package save

import (
	"fmt"
	"log/slog"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
	"github.com/cybergrind/r2save/prop"
)

// variablesKeys is the set of Component keys whose payload the original
// producer treats as a distinct "variables" collection. On the wire this
// collection has the same shape as a PropertyBag (named, typed entries
// terminated by a "None" sentinel), so Component.Payload is modeled
// uniformly as *prop.Bag for every key; Key is preserved so callers can
// still special-case this family.
var variablesKeys = map[string]bool{
	"GlobalVariables":  true,
	"Variables":        true,
	"Variable":         true,
	"PersistenceKeys":  true,
	"PersistanceKeys1": true,
	"PersistenceKeys1": true,
}

// IsVariablesKey reports whether key routes to the "variables" payload
// family, matching the ambiguous small set of textual variants the
// original producer accepts as-is.
func IsVariablesKey(key string) bool { return variablesKeys[key] }

// Component is one entry of an actor UObject's component list.
type Component struct {
	Key     string
	Payload *prop.Bag
}

// ReadComponent reads a length-framed Component; any non-zero trailing
// bytes inside the declared length are preserved and logged.
func ReadComponent(r *bio.Reader, table *names.Table, logger *slog.Logger) (*Component, error) {
	key, _, err := names.ReadFString(r)
	if err != nil {
		return nil, err
	}
	length, err := r.I32()
	if err != nil {
		return nil, err
	}
	bodyStart := r.Pos()
	bag, err := prop.ReadBagLogged(r, table, logger)
	if err != nil {
		return nil, err
	}
	if err := consumeTrailer(r, bodyStart, int(length), logger, fmt.Sprintf("component %q", key)); err != nil {
		return nil, err
	}
	return &Component{Key: key, Payload: bag}, nil
}

// WriteComponent writes a Component, backpatching its declared length.
func WriteComponent(w *bio.Writer, table *names.Table, c *Component) error {
	if err := names.WriteFString(w, c.Key, true); err != nil {
		return err
	}
	lenPos := w.Pos()
	w.I32(0)
	bodyStart := w.Pos()
	if err := prop.WriteBag(w, table, c.Payload); err != nil {
		return err
	}
	return patchLength(w, lenPos, bodyStart)
}

func consumeTrailer(r *bio.Reader, bodyStart, declaredLen int, logger *slog.Logger, what string) error {
	consumed := r.Pos() - bodyStart
	trailing := declaredLen - consumed
	if trailing <= 0 {
		return nil
	}
	data, err := r.Bytes(trailing)
	if err != nil {
		return err
	}
	for _, b := range data {
		if b != 0 {
			if logger == nil {
				logger = slog.Default()
			}
			logger.Warn("save: non-zero trailing bytes preserved", "in", what, "count", trailing)
			break
		}
	}
	return nil
}

func patchLength(w *bio.Writer, lenPos, bodyStart int) error {
	actual := w.Pos() - bodyStart
	end := w.Pos()
	if err := w.Seek(lenPos); err != nil {
		return err
	}
	w.I32(int32(actual))
	return w.Seek(end)
}

// ObjectHeader is the "was this object previously loaded" header an
// object's entry in the objects table carries.
type ObjectHeader struct {
	WasLoaded bool
	// Path is present when WasLoaded is false, or when WasLoaded is true
	// and this object's path was not elided via the document's top-level
	// asset path (see readObjectHeader).
	Path prop.FString
	// LoadedName/LoadedOuterID are present iff WasLoaded is false.
	LoadedName    names.FName
	LoadedOuterID uint32
}

// Object is one entry of a document's object list: its table header plus
// its data-section body (property bag, actor flag, components).
type Object struct {
	Header      ObjectHeader
	ObjectIndex int32
	Properties  *prop.Bag
	IsActor     bool
	Components  []*Component
}

func readObjectHeader(r *bio.Reader, index int, hasTopLevelAssetPath bool) (ObjectHeader, error) {
	var h ObjectHeader
	wasLoaded, err := r.U8()
	if err != nil {
		return h, err
	}
	h.WasLoaded = wasLoaded != 0
	if wasLoaded == 0 {
		path, err := prop.ReadOptionalFString(r)
		if err != nil {
			return h, err
		}
		h.Path = path
		name, err := names.ReadFName(r)
		if err != nil {
			return h, err
		}
		h.LoadedName = name
		outer, err := r.U32()
		if err != nil {
			return h, err
		}
		h.LoadedOuterID = outer
		return h, nil
	}

	elided := index == 0 && hasTopLevelAssetPath
	if !elided {
		path, err := prop.ReadOptionalFString(r)
		if err != nil {
			return h, err
		}
		h.Path = path
	}
	return h, nil
}

func writeObjectHeader(w *bio.Writer, h ObjectHeader, index int, hasTopLevelAssetPath bool) error {
	if !h.WasLoaded {
		w.U8(0)
		if err := h.Path.Write(w); err != nil {
			return err
		}
		names.WriteFName(w, h.LoadedName)
		w.U32(h.LoadedOuterID)
		return nil
	}
	w.U8(1)
	elided := index == 0 && hasTopLevelAssetPath
	if !elided {
		return h.Path.Write(w)
	}
	return nil
}

func readObjectBody(r *bio.Reader, table *names.Table, logger *slog.Logger) (*Object, error) {
	obj := &Object{}
	idx, err := r.I32()
	if err != nil {
		return nil, err
	}
	obj.ObjectIndex = idx

	propsLen, err := r.U32()
	if err != nil {
		return nil, err
	}
	propsStart := r.Pos()
	bag, err := prop.ReadBagLogged(r, table, logger)
	if err != nil {
		return nil, err
	}
	obj.Properties = bag
	if err := consumeTrailer(r, propsStart, int(propsLen), logger, "object properties"); err != nil {
		return nil, err
	}

	isActor, err := r.U8()
	if err != nil {
		return nil, err
	}
	obj.IsActor = isActor != 0
	if obj.IsActor {
		count, err := r.U32()
		if err != nil {
			return nil, err
		}
		for i := uint32(0); i < count; i++ {
			c, err := ReadComponent(r, table, logger)
			if err != nil {
				return nil, fmt.Errorf("save: object %d component %d: %w", idx, i, err)
			}
			obj.Components = append(obj.Components, c)
		}
	}
	return obj, nil
}

func writeObjectBody(w *bio.Writer, table *names.Table, obj *Object) error {
	w.I32(obj.ObjectIndex)
	lenPos := w.Pos()
	w.U32(0)
	bodyStart := w.Pos()
	if err := prop.WriteBag(w, table, obj.Properties); err != nil {
		return err
	}
	if err := patchLength(w, lenPos, bodyStart); err != nil {
		return err
	}

	if obj.IsActor {
		w.U8(1)
		w.U32(uint32(len(obj.Components)))
		for i, c := range obj.Components {
			if err := WriteComponent(w, table, c); err != nil {
				return fmt.Errorf("save: component %d: %w", i, err)
			}
		}
	} else {
		w.U8(0)
	}
	return nil
}
