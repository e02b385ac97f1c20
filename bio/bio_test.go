package bio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderPrimitivesRoundTrip(t *testing.T) {
	w := NewWriter()
	w.U8(0xAB)
	w.I8(-5)
	w.Bool(true)
	w.U16(0xCAFE)
	w.I16(-1234)
	w.U32(0xDEADBEEF)
	w.I32(-77)
	w.U64(0x0123456789ABCDEF)
	w.I64(-9000000000)
	w.F32(3.5)
	w.F64(2.718281828)
	w.WriteBytes([]byte("hello"))

	r := NewReader(w.Bytes())

	u8, err := r.U8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), u8)

	i8, err := r.I8()
	require.NoError(t, err)
	require.Equal(t, int8(-5), i8)

	b, err := r.Bool()
	require.NoError(t, err)
	require.True(t, b)

	u16, err := r.U16()
	require.NoError(t, err)
	require.Equal(t, uint16(0xCAFE), u16)

	i16, err := r.I16()
	require.NoError(t, err)
	require.Equal(t, int16(-1234), i16)

	u32, err := r.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	i32, err := r.I32()
	require.NoError(t, err)
	require.Equal(t, int32(-77), i32)

	u64, err := r.U64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0123456789ABCDEF), u64)

	i64, err := r.I64()
	require.NoError(t, err)
	require.Equal(t, int64(-9000000000), i64)

	f32, err := r.F32()
	require.NoError(t, err)
	require.Equal(t, float32(3.5), f32)

	f64, err := r.F64()
	require.NoError(t, err)
	require.Equal(t, 2.718281828, f64)

	rest, err := r.Bytes(5)
	require.NoError(t, err)
	require.Equal(t, "hello", string(rest))
}

func TestReaderOutOfBounds(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	_, err := r.U32()
	require.ErrorIs(t, err, ErrOutOfBounds)

	require.Error(t, r.Seek(10))
	require.NoError(t, r.Seek(3))
}

func TestWriterBackpatch(t *testing.T) {
	w := NewWriter()
	placeholder := w.Pos()
	w.U32(0) // placeholder for a length we'll patch later

	start := w.Pos()
	w.WriteBytes([]byte("payload-bytes"))
	length := w.Pos() - start
	end := w.Pos()

	require.NoError(t, w.Seek(placeholder))
	w.U32(uint32(length))
	require.NoError(t, w.Seek(end))
	w.WriteBytes([]byte("-trailer"))

	r := NewReader(w.Bytes())
	got, err := r.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(len("payload-bytes")), got)

	body, err := r.Bytes(int(got))
	require.NoError(t, err)
	require.Equal(t, "payload-bytes", string(body))

	trailer, err := r.Bytes(len("-trailer"))
	require.NoError(t, err)
	require.Equal(t, "-trailer", string(trailer))
}

func TestWriterSeekDoesNotTruncate(t *testing.T) {
	w := NewWriter()
	w.WriteBytes([]byte("abcdef"))
	require.NoError(t, w.Seek(2))
	w.WriteBytes([]byte("XY"))
	require.Equal(t, "abXYef", string(w.Bytes()))
	require.Equal(t, 4, w.Pos())
	require.Equal(t, 6, w.Len())
}
