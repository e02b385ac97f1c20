package save

import (
	"fmt"
	"log/slog"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/prop"
)

// ErrBlobDetectionFailed is returned when a PersistenceBlob's bytes
// cannot be parsed as the structure the caller expected.
var ErrBlobDetectionFailed = fmt.Errorf("save: persistence blob not found")

// DecodeBlobAsContainer parses a PersistenceBlob's raw bytes as a
// PersistenceContainer: the path taken for ordinary world-save documents.
func DecodeBlobAsContainer(blob prop.PersistenceBlobPayload, logger *slog.Logger) (*PersistenceContainer, error) {
	r := bio.NewReader(blob.Data)
	c, err := ReadPersistenceContainer(r, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlobDetectionFailed, err)
	}
	return c, nil
}

// EncodeContainerAsBlob serializes c into a PersistenceBlobPayload.
func EncodeContainerAsBlob(c *PersistenceContainer) (prop.PersistenceBlobPayload, error) {
	w := bio.NewWriter()
	if err := WritePersistenceContainer(w, c); err != nil {
		return prop.PersistenceBlobPayload{}, err
	}
	return prop.PersistenceBlobPayload{Data: w.Bytes()}, nil
}

// DecodeBlobAsData parses a PersistenceBlob's raw bytes as a nested
// SaveData: the path taken when the enclosing document's class path
// identifies the profile variant. Profile archives carry neither a
// package version nor a top-level asset path.
func DecodeBlobAsData(blob prop.PersistenceBlobPayload, logger *slog.Logger) (*Data, error) {
	r := bio.NewReader(blob.Data)
	d, err := ReadData(r, false, false, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlobDetectionFailed, err)
	}
	return d, nil
}

// EncodeDataAsBlob serializes d into a PersistenceBlobPayload.
func EncodeDataAsBlob(d *Data) (prop.PersistenceBlobPayload, error) {
	w := bio.NewWriter()
	if err := WriteData(w, d); err != nil {
		return prop.PersistenceBlobPayload{}, err
	}
	return prop.PersistenceBlobPayload{Data: w.Bytes()}, nil
}
