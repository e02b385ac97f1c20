package prop

import (
	"github.com/cybergrind/r2save/bio"
)

// TextValue is a TextProperty. Its shape depends on HistoryType: 0 carries
// a (namespace, key, source) triple; -1 or 255 carries a flag-gated
// optional string; anything else is preserved as opaque bytes.
type TextValue struct {
	Flags       uint32
	HistoryType int8
	Base        *TextBase
	Simple      *TextSimple
	Opaque      []byte
}

func (TextValue) isValue() {}

// TextBase is the HistoryType == 0 payload.
type TextBase struct {
	Namespace FString
	Key       FString
	Source    FString
}

// TextSimple is the HistoryType ∈ {-1, 255} payload.
type TextSimple struct {
	Flag  uint32
	Value FString
}

func readTextValue(r *bio.Reader, size int) (Value, error) {
	start := r.Pos()
	flags, err := r.U32()
	if err != nil {
		return nil, err
	}
	historyType, err := r.I8()
	if err != nil {
		return nil, err
	}

	v := TextValue{Flags: flags, HistoryType: historyType}
	switch historyType {
	case 0:
		ns, err := ReadOptionalFString(r)
		if err != nil {
			return nil, err
		}
		key, err := ReadOptionalFString(r)
		if err != nil {
			return nil, err
		}
		src, err := ReadOptionalFString(r)
		if err != nil {
			return nil, err
		}
		v.Base = &TextBase{Namespace: ns, Key: key, Source: src}
	case -1:
		flag, err := r.U32()
		if err != nil {
			return nil, err
		}
		var value FString
		if flag != 0 {
			value, err = ReadOptionalFString(r)
			if err != nil {
				return nil, err
			}
		}
		v.Simple = &TextSimple{Flag: flag, Value: value}
	default:
		consumed := r.Pos() - start
		remaining := size - consumed
		if remaining < 0 {
			remaining = 0
		}
		data, err := r.Bytes(remaining)
		if err != nil {
			return nil, err
		}
		v.Opaque = append([]byte(nil), data...)
	}
	return v, nil
}

func writeTextValue(w *bio.Writer, v TextValue) error {
	w.U32(v.Flags)
	w.I8(v.HistoryType)
	switch {
	case v.Base != nil:
		if err := v.Base.Namespace.Write(w); err != nil {
			return err
		}
		if err := v.Base.Key.Write(w); err != nil {
			return err
		}
		return v.Base.Source.Write(w)
	case v.Simple != nil:
		w.U32(v.Simple.Flag)
		if v.Simple.Flag != 0 {
			return v.Simple.Value.Write(w)
		}
		return nil
	default:
		w.WriteBytes(v.Opaque)
		return nil
	}
}
