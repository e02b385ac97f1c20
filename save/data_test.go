package save

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
	"github.com/cybergrind/r2save/prop"
)

func buildMinimalData(t *testing.T, hasPackageVersion, hasTopLevelAssetPath bool) *Data {
	t.Helper()
	table := names.NewTable()
	bag := &prop.Bag{Properties: []prop.Property{
		{Name: names.NewFName(table, "Health"), Type: names.NewFName(table, prop.TypeInt), Value: prop.IntValue(100)},
	}}
	d := &Data{
		HasPackageVersion:    hasPackageVersion,
		HasTopLevelAssetPath: hasTopLevelAssetPath,
		OffsetVersion:        1,
		Names:                table,
		Objects: []*Object{
			{
				Header:      ObjectHeader{WasLoaded: true},
				ObjectIndex: 0,
				Properties:  bag,
			},
		},
	}
	if hasPackageVersion {
		d.PackageVersion = PackageVersion{UEVersion: 522, UELicenseeVersion: 0}
	}
	if hasTopLevelAssetPath {
		d.TopLevelAssetPath = prop.TopLevelAssetPath{
			PackageName: prop.FString{Text: "/Game/Foo", Present: true},
			AssetName:   prop.FString{Text: "Foo_C", Present: true},
		}
	}
	return d
}

func TestDataRoundTrip(t *testing.T) {
	d := buildMinimalData(t, true, true)

	w := bio.NewWriter()
	require.NoError(t, WriteData(w, d))

	r := bio.NewReader(w.Bytes())
	got, err := ReadData(r, true, true, nil)
	require.NoError(t, err)

	require.Equal(t, d.PackageVersion, got.PackageVersion)
	require.Equal(t, d.TopLevelAssetPath, got.TopLevelAssetPath)
	if diff := cmp.Diff(d.Names.Slice(), got.Names.Slice()); diff != "" {
		t.Fatalf("names table mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, got.Objects, 1)
	if diff := cmp.Diff(d.Objects[0].Header, got.Objects[0].Header); diff != "" {
		t.Fatalf("object header mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, d.Objects[0].Properties.Properties[0].Value, got.Objects[0].Properties.Properties[0].Value)
}

func TestDataRoundTripNoPackageVersionNoAssetPath(t *testing.T) {
	d := buildMinimalData(t, false, false)

	w := bio.NewWriter()
	require.NoError(t, WriteData(w, d))

	r := bio.NewReader(w.Bytes())
	got, err := ReadData(r, false, false, nil)
	require.NoError(t, err)
	require.Len(t, got.Objects, 1)
}

func TestDataOffsetsAreSelfRelative(t *testing.T) {
	// A Data embedded at a nonzero position in a larger buffer must still
	// round-trip: its NamesOffset/ObjectsOffset are relative to wherever
	// its own serialization began, not to the start of the outer buffer.
	d := buildMinimalData(t, false, false)

	w := bio.NewWriter()
	w.WriteBytes([]byte{0xAA, 0xBB, 0xCC, 0xDD}) // unrelated leading bytes
	require.NoError(t, WriteData(w, d))

	full := w.Bytes()
	r := bio.NewReader(full)
	require.NoError(t, r.Skip(4))
	got, err := ReadData(r, false, false, nil)
	require.NoError(t, err)
	require.Len(t, got.Objects, 1)
	require.Equal(t, d.Objects[0].Properties.Properties[0].Value, got.Objects[0].Properties.Properties[0].Value)
}
