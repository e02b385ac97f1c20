package save

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
	"github.com/cybergrind/r2save/prop"
)

func TestComponentRoundTrip(t *testing.T) {
	table := names.NewTable()
	bag := &prop.Bag{Properties: []prop.Property{
		{Name: names.NewFName(table, "Count"), Type: names.NewFName(table, prop.TypeInt), Value: prop.IntValue(3)},
	}}
	c := &Component{Key: "Variables", Payload: bag}

	w := bio.NewWriter()
	require.NoError(t, WriteComponent(w, table, c))

	r := bio.NewReader(w.Bytes())
	got, err := ReadComponent(r, table, nil)
	require.NoError(t, err)
	require.Equal(t, c.Key, got.Key)
	require.Equal(t, c.Payload.Properties[0].Value, got.Payload.Properties[0].Value)
	require.True(t, IsVariablesKey(got.Key))
}

func TestComponentPreservesTrailingBytes(t *testing.T) {
	table := names.NewTable()
	w := bio.NewWriter()
	require.NoError(t, names.WriteFString(w, "Legacy", true))
	lenPos := w.Pos()
	w.I32(0)
	bodyStart := w.Pos()
	require.NoError(t, prop.WriteBag(w, table, &prop.Bag{}))
	w.WriteBytes([]byte{0, 0, 0}) // padding inside the declared length
	actual := w.Pos() - bodyStart
	end := w.Pos()
	require.NoError(t, w.Seek(lenPos))
	w.I32(int32(actual))
	require.NoError(t, w.Seek(end))

	r := bio.NewReader(w.Bytes())
	got, err := ReadComponent(r, table, nil)
	require.NoError(t, err)
	require.Equal(t, "Legacy", got.Key)
	require.Empty(t, got.Payload.Properties)
}

func TestObjectHeaderElidesPathForIndexZeroWithTopLevelAssetPath(t *testing.T) {
	w := bio.NewWriter()
	h := ObjectHeader{WasLoaded: true}
	require.NoError(t, writeObjectHeader(w, h, 0, true))

	r := bio.NewReader(w.Bytes())
	got, err := readObjectHeader(r, 0, true)
	require.NoError(t, err)
	require.True(t, got.WasLoaded)
	require.False(t, got.Path.Present)
	require.Equal(t, w.Pos(), r.Pos())
}

func TestObjectHeaderCarriesPathWhenNotLoaded(t *testing.T) {
	table := names.NewTable()
	w := bio.NewWriter()
	h := ObjectHeader{
		WasLoaded:     false,
		Path:          prop.FString{Text: "/Game/Obj", Present: true},
		LoadedName:    names.NewFName(table, "ObjName"),
		LoadedOuterID: 5,
	}
	require.NoError(t, writeObjectHeader(w, h, 1, true))

	r := bio.NewReader(w.Bytes())
	got, err := readObjectHeader(r, 1, true)
	require.NoError(t, err)
	require.False(t, got.WasLoaded)
	require.Equal(t, h.Path, got.Path)
	require.Equal(t, h.LoadedName, got.LoadedName)
	require.Equal(t, h.LoadedOuterID, got.LoadedOuterID)
}

func TestObjectHeaderCarriesPathForNonZeroIndexEvenWithTopLevelAssetPath(t *testing.T) {
	w := bio.NewWriter()
	h := ObjectHeader{WasLoaded: true, Path: prop.FString{Text: "/Game/Other", Present: true}}
	require.NoError(t, writeObjectHeader(w, h, 1, true))

	r := bio.NewReader(w.Bytes())
	got, err := readObjectHeader(r, 1, true)
	require.NoError(t, err)
	require.True(t, got.Path.Present)
	require.Equal(t, "/Game/Other", got.Path.Text)
}
