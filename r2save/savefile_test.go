package r2save

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
	"github.com/cybergrind/r2save/prop"
	"github.com/cybergrind/r2save/save"
)

func buildMinimalSaveFile(t *testing.T) *SaveFile {
	t.Helper()
	table := names.NewTable()
	bag := &prop.Bag{Properties: []prop.Property{
		{Name: names.NewFName(table, "Level"), Type: names.NewFName(table, prop.TypeInt), Value: prop.IntValue(5)},
	}}
	data := &save.Data{
		HasPackageVersion:    true,
		PackageVersion:       save.PackageVersion{UEVersion: 522},
		HasTopLevelAssetPath: true,
		TopLevelAssetPath: prop.TopLevelAssetPath{
			PackageName: prop.FString{Text: "/Game/World", Present: true},
			AssetName:   prop.FString{Text: "World_C", Present: true},
		},
		OffsetVersion: 1,
		Names:         table,
		Objects: []*save.Object{
			{Header: save.ObjectHeader{WasLoaded: true}, ObjectIndex: 0, Properties: bag},
		},
	}
	return &SaveFile{
		header: save.FileHeader{FormatVersion: 9, BuildNumber: 1234},
		data:   data,
		logger: nil,
	}
}

func TestSaveFileRoundTripThroughCompressedEnvelope(t *testing.T) {
	f := buildMinimalSaveFile(t)

	compressed, err := f.ToCompressed()
	require.NoError(t, err)

	got, err := FromCompressed(compressed)
	require.NoError(t, err)

	require.Equal(t, f.data.TopLevelAssetPath, got.data.TopLevelAssetPath)
	require.Len(t, got.data.Objects, 1)
	require.Equal(t, f.data.Objects[0].Properties.Properties[0].Value, got.data.Objects[0].Properties.Properties[0].Value)
}

func TestSaveFileFixedPointProperty(t *testing.T) {
	// Property #4: encode(decode(bytes)) == encode(decode(encode(decode(bytes)))).
	f := buildMinimalSaveFile(t)
	c1, err := f.ToCompressed()
	require.NoError(t, err)

	d1, err := FromCompressed(c1)
	require.NoError(t, err)
	c2, err := d1.ToCompressed()
	require.NoError(t, err)

	d2, err := FromCompressed(c2)
	require.NoError(t, err)
	c3, err := d2.ToCompressed()
	require.NoError(t, err)

	require.Equal(t, c2, c3)
}

func TestSaveFileReplaceName(t *testing.T) {
	f := buildMinimalSaveFile(t)
	require.True(t, f.ReplaceName("Level", "PlayerLevel"))
	require.False(t, f.ReplaceName("DoesNotExist", "Whatever"))

	found := false
	f.WalkFNames(func(fn *names.FName) bool {
		if name, err := fn.Name(f.NamesTable()); err == nil && name == "PlayerLevel" {
			found = true
		}
		return true
	})
	require.True(t, found)
}

func TestSaveFileWalkObjects(t *testing.T) {
	f := buildMinimalSaveFile(t)
	count := 0
	f.WalkObjects(func(o *save.Object) bool {
		count++
		return true
	})
	require.Equal(t, 1, count)
}

func buildSaveFileWithPersistenceBlob(t *testing.T) *SaveFile {
	t.Helper()
	f := buildMinimalSaveFile(t)

	innerTable := names.NewTable()
	actorBag := &prop.Bag{Properties: []prop.Property{
		{Name: names.NewFName(innerTable, "ActorTag"), Type: names.NewFName(innerTable, prop.TypeInt), Value: prop.IntValue(1)},
	}}
	container := &save.PersistenceContainer{
		Version: 1,
		Actors: []*save.Actor{
			{
				UniqueID: 55,
				Archive: &save.Data{
					OffsetVersion: 1,
					Names:         innerTable,
					Objects: []*save.Object{
						{Header: save.ObjectHeader{WasLoaded: true}, ObjectIndex: 0, Properties: actorBag},
					},
				},
			},
		},
	}
	blob, err := save.EncodeContainerAsBlob(container)
	require.NoError(t, err)

	blobProp := prop.Property{
		Name: names.NewFName(f.data.Names, "SaveGameData"),
		Type: names.NewFName(f.data.Names, prop.TypeStruct),
		Value: prop.StructValue{
			StructType: names.NewFName(f.data.Names, prop.StructPersistenceBlob),
			Payload:    blob,
		},
	}
	f.data.Objects[0].Properties.Properties = append(f.data.Objects[0].Properties.Properties, blobProp)
	return f
}

func TestSaveFilePersistenceBlobNamesTableAndReplaceInnerName(t *testing.T) {
	f := buildSaveFileWithPersistenceBlob(t)

	table, ok := f.PersistenceBlobNamesTable()
	require.True(t, ok)
	require.Contains(t, table.Slice(), "ActorTag")

	require.True(t, f.ReplaceInnerName("ActorTag", "ActorTagRenamed"))

	table2, ok := f.PersistenceBlobNamesTable()
	require.True(t, ok)
	require.Contains(t, table2.Slice(), "ActorTagRenamed")
	require.NotContains(t, table2.Slice(), "ActorTag")
}

func TestSaveFileStrictEnvelopeVersionRejectsMismatch(t *testing.T) {
	f := buildMinimalSaveFile(t)
	f.header.FormatVersion = 3 // not envelope.ExpectedFormatVersion

	compressed, err := f.ToCompressed()
	require.NoError(t, err)

	_, err = FromCompressed(compressed, WithStrictEnvelopeVersion(true))
	require.ErrorIs(t, err, ErrMalformedEnvelope)

	// Without the option, a mismatched document format_version is tolerated.
	got, err := FromCompressed(compressed)
	require.NoError(t, err)
	require.Equal(t, int32(3), got.header.FormatVersion)
}

func TestSaveFileReplaceInnerNameSurgical(t *testing.T) {
	f := buildSaveFileWithPersistenceBlob(t)
	p := &ProfileSaveFile{SaveFile: f}

	// Same byte length (8 ASCII characters each): takes the surgical,
	// in-place byte-patch path rather than a full decode/re-encode.
	changed, err := p.ReplaceInnerNameSurgical("ActorTag", "ActorTal")
	require.NoError(t, err)
	require.True(t, changed)

	table, ok := p.PersistenceBlobNamesTable()
	require.True(t, ok)
	require.Contains(t, table.Slice(), "ActorTal")
	require.NotContains(t, table.Slice(), "ActorTag")

	// A name with no match in the blob at all, same byte length: the
	// surgical path finds nothing to patch and reports no change.
	changed, err = p.ReplaceInnerNameSurgical("NotFound1234", "NotFound5678")
	require.NoError(t, err)
	require.False(t, changed)
}

func TestSaveFileReadFileHeaderWiredThroughDecompressed(t *testing.T) {
	f := buildMinimalSaveFile(t)
	doc, err := f.ToDecompressed()
	require.NoError(t, err)

	r := bio.NewReader(doc)
	h, err := save.ReadFileHeader(r)
	require.NoError(t, err)
	require.Equal(t, int32(len(doc)), h.DecompressedSize)
	require.Equal(t, int32(9), h.FormatVersion)
}
