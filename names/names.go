// Package names implements the engine's length-prefixed string encoding
// (FString) and interned-name references (FName), plus the per-document
// names table that FName indices resolve against.
package names

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cybergrind/r2save/bio"
)

// ErrInvalidName indicates an FName index outside its table's bounds —
// the "InvalidName" error kind a malformed document can trigger.
var ErrInvalidName = errors.New("names: invalid fname index")

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// ReadFString reads a length-prefixed string. present is false when the
// length field was zero, meaning the string is absent (not an empty
// string).
func ReadFString(r *bio.Reader) (value string, present bool, err error) {
	length, err := r.I32()
	if err != nil {
		return "", false, err
	}
	if length == 0 {
		return "", false, nil
	}
	if length > 0 {
		raw, err := r.Bytes(int(length) - 1)
		if err != nil {
			return "", false, err
		}
		if _, err := r.U8(); err != nil { // null terminator
			return "", false, err
		}
		return string(raw), true, nil
	}

	// -length is the UTF-16LE byte count including the 2-byte terminator,
	// matching what WriteFString emits.
	byteLen := int(-length) - 2
	raw, err := r.Bytes(byteLen)
	if err != nil {
		return "", false, err
	}
	if _, err := r.U16(); err != nil { // null terminator
		return "", false, err
	}
	decoded, err := transform.Bytes(utf16le.NewDecoder(), raw)
	if err != nil {
		return "", false, fmt.Errorf("names: utf16le decode: %w", err)
	}
	return string(decoded), true, nil
}

// WriteFString writes a length-prefixed string. If present is false, a
// zero length field is written and value is ignored. The encoding (ASCII
// vs UTF-16LE) is chosen from the content: any codepoint above 0x7F forces
// UTF-16LE.
func WriteFString(w *bio.Writer, value string, present bool) error {
	if !present {
		w.I32(0)
		return nil
	}
	if isASCII(value) {
		w.I32(int32(len(value) + 1))
		w.WriteBytes([]byte(value))
		w.U8(0)
		return nil
	}

	encoded, err := transform.Bytes(utf16le.NewEncoder(), []byte(value))
	if err != nil {
		return fmt.Errorf("names: utf16le encode: %w", err)
	}
	charCount := len(encoded) / 2
	w.I32(int32(-2 * (charCount + 1)))
	w.WriteBytes(encoded)
	w.U16(0)
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

// FName is a reference to a string in a document's Table, with an
// optional instance number. Index is meaningful only against the Table
// the FName was read from or is destined to be written against.
type FName struct {
	Index  uint16
	Number *int32
}

// NewFName builds an FName with no instance number by interning text into
// table.
func NewFName(table *Table, text string) FName {
	return FName{Index: uint16(table.GetOrAdd(text))}
}

// Text resolves the FName's index against table and returns its display
// form: "name" or "name_number" when an instance number is present.
// Returns ErrInvalidName if Index is out of table's bounds.
func (f FName) Text(table *Table) (string, error) {
	name, err := table.At(int(f.Index))
	if err != nil {
		return "", err
	}
	if f.Number == nil {
		return name, nil
	}
	return fmt.Sprintf("%s_%d", name, *f.Number), nil
}

// Name resolves just the interned text, ignoring any instance number.
// Returns ErrInvalidName if Index is out of table's bounds.
func (f FName) Name(table *Table) (string, error) {
	return table.At(int(f.Index))
}

// IsNone reports whether this FName's interned text is the PropertyBag
// terminator sentinel "None".
func (f FName) IsNone(table *Table) (bool, error) {
	name, err := f.Name(table)
	if err != nil {
		return false, err
	}
	return name == "None", nil
}

const hasNumberFlag = uint16(0x8000)
const indexMask = uint16(0x7FFF)

// ReadFName reads an FName: a u16 with bit 15 as "has instance number"
// and bits 0-14 as the names-table index, followed by an i32 instance
// number iff the flag bit is set.
func ReadFName(r *bio.Reader) (FName, error) {
	raw, err := r.U16()
	if err != nil {
		return FName{}, err
	}
	fn := FName{Index: raw & indexMask}
	if raw&hasNumberFlag != 0 {
		n, err := r.I32()
		if err != nil {
			return FName{}, err
		}
		fn.Number = &n
	}
	return fn, nil
}

// WriteFName writes an FName in the wire form ReadFName expects.
func WriteFName(w *bio.Writer, f FName) {
	raw := f.Index & indexMask
	if f.Number != nil {
		raw |= hasNumberFlag
	}
	w.U16(raw)
	if f.Number != nil {
		w.I32(*f.Number)
	}
}

// Table is a document's interned names vector. FName.Index values are
// indices into it. Table is not safe for concurrent mutation.
type Table struct {
	names []string
	index map[string]int
}

// NewTable returns an empty names table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// NewTableFrom builds a Table from an already-ordered slice of names, as
// produced by reading a document's names table off the wire.
func NewTableFrom(existing []string) *Table {
	t := &Table{names: append([]string(nil), existing...), index: make(map[string]int, len(existing))}
	for i, n := range existing {
		if _, ok := t.index[n]; !ok {
			t.index[n] = i
		}
	}
	return t
}

// Len returns the number of interned names.
func (t *Table) Len() int { return len(t.names) }

// At returns the name at idx, or ErrInvalidName if idx is out of range.
func (t *Table) At(idx int) (string, error) {
	if idx < 0 || idx >= len(t.names) {
		return "", fmt.Errorf("%w: index %d, table has %d entries", ErrInvalidName, idx, len(t.names))
	}
	return t.names[idx], nil
}

// Slice returns the table's names in index order. The caller must not
// mutate the returned slice.
func (t *Table) Slice() []string { return t.names }

// GetOrAdd returns the index of text, interning it at the end of the
// table if it is not already present. Growth is append-only and
// deterministic.
func (t *Table) GetOrAdd(text string) int {
	if idx, ok := t.index[text]; ok {
		return idx
	}
	idx := len(t.names)
	t.names = append(t.names, text)
	t.index[text] = idx
	return idx
}

// HintIndex resolves a write-side index hint: if hintIndex still carries
// text (the slot wasn't reassigned since read), the original index is
// reused; otherwise a new or existing slot is obtained via GetOrAdd. This
// implements the "reuse unless stale" rule during serialization.
func (t *Table) HintIndex(hintIndex int, text string) int {
	if hintIndex >= 0 && hintIndex < len(t.names) && t.names[hintIndex] == text {
		return hintIndex
	}
	return t.GetOrAdd(text)
}

// Replace renames every occurrence of old to new in place, preserving the
// index (and therefore every FName reference) so all readers see the new
// text as if it had always been there. Reports whether old was found.
func (t *Table) Replace(old, new string) bool {
	idx, ok := t.index[old]
	if !ok {
		return false
	}
	t.names[idx] = new
	delete(t.index, old)
	t.index[new] = idx
	return true
}
