package prop

import (
	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/names"
)

// FString is a string read from an optional length-prefixed field,
// distinguishing "absent" (length field was zero) from the empty string.
type FString struct {
	Text    string
	Present bool
}

// ReadOptionalFString reads an FString field.
func ReadOptionalFString(r *bio.Reader) (FString, error) {
	s, present, err := names.ReadFString(r)
	if err != nil {
		return FString{}, err
	}
	return FString{Text: s, Present: present}, nil
}

// Write writes the FString field back out.
func (f FString) Write(w *bio.Writer) error {
	return names.WriteFString(w, f.Text, f.Present)
}

// TopLevelAssetPath identifies an asset by package and class name, used
// both for a document's top-level asset path header and for the
// SoftClassPath/SoftObjectPath StructProperty payloads.
type TopLevelAssetPath struct {
	PackageName FString
	AssetName   FString
}

// ReadTopLevelAssetPath reads a TopLevelAssetPath.
func ReadTopLevelAssetPath(r *bio.Reader) (TopLevelAssetPath, error) {
	var p TopLevelAssetPath
	var err error
	if p.PackageName, err = ReadOptionalFString(r); err != nil {
		return p, err
	}
	if p.AssetName, err = ReadOptionalFString(r); err != nil {
		return p, err
	}
	return p, nil
}

// Write writes a TopLevelAssetPath.
func (p TopLevelAssetPath) Write(w *bio.Writer) error {
	if err := p.PackageName.Write(w); err != nil {
		return err
	}
	return p.AssetName.Write(w)
}

// SoftObjectPath is the SoftClassPath/SoftObjectPath StructProperty
// payload: a top-level asset path plus an optional sub-path string (e.g.
// identifying a specific component within a Blueprint asset).
type SoftObjectPath struct {
	AssetPath  TopLevelAssetPath
	SubPathStr FString
}

// ReadSoftObjectPath reads a SoftObjectPath.
func ReadSoftObjectPath(r *bio.Reader) (SoftObjectPath, error) {
	var p SoftObjectPath
	var err error
	if p.AssetPath, err = ReadTopLevelAssetPath(r); err != nil {
		return p, err
	}
	if p.SubPathStr, err = ReadOptionalFString(r); err != nil {
		return p, err
	}
	return p, nil
}

// Write writes a SoftObjectPath.
func (p SoftObjectPath) Write(w *bio.Writer) error {
	if err := p.AssetPath.Write(w); err != nil {
		return err
	}
	return p.SubPathStr.Write(w)
}
