package save

import (
	"fmt"
	"log/slog"

	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/prop"
)

// Info is one entry of a PersistenceContainer's actor index: the actor's
// unique id and the [Offset, Offset+Size) byte range (in the container's
// own local coordinates) its archive occupies.
type Info struct {
	UniqueID uint64
	Offset   int32
	Size     int32
}

// ActorDynamicData is per-actor transform and class-path data matched
// back to its Actor by UniqueID.
type ActorDynamicData struct {
	UniqueID  uint64
	Transform prop.Transform
	ClassPath prop.FString
}

// Actor is one entry of a PersistenceContainer: an optional transform plus
// a nested archive (a SaveData with no package version and no top-level
// asset path), and the dynamic data matched to it by UniqueID, if any.
type Actor struct {
	UniqueID  uint64
	Transform *prop.Transform
	Archive   *Data
	Dynamic   *ActorDynamicData
}

// PersistenceContainer is the nested actor index + destroyed-id list +
// per-actor dynamic data embedded inside a PersistenceBlob property.
type PersistenceContainer struct {
	Version   uint32
	Actors    []*Actor
	Destroyed []uint64
}

// ReadPersistenceContainer parses a container from r, which must operate
// over the container's own dedicated buffer (position 0 is the
// container's start, matching how index_offset/dynamic_offset are
// recorded in its header).
func ReadPersistenceContainer(r *bio.Reader, logger *slog.Logger) (*PersistenceContainer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &PersistenceContainer{}

	version, err := r.U32()
	if err != nil {
		return nil, err
	}
	c.Version = version
	indexOffset, err := r.I32()
	if err != nil {
		return nil, err
	}
	dynamicOffset, err := r.I32()
	if err != nil {
		return nil, err
	}

	if err := r.Seek(int(dynamicOffset)); err != nil {
		return nil, err
	}
	dynCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	dynamics := make(map[uint64]*ActorDynamicData, dynCount)
	dynOrder := make([]uint64, 0, dynCount)
	for i := uint32(0); i < dynCount; i++ {
		uid, err := r.U64()
		if err != nil {
			return nil, err
		}
		transform, err := prop.ReadTransform(r)
		if err != nil {
			return nil, err
		}
		classPath, err := prop.ReadOptionalFString(r)
		if err != nil {
			return nil, err
		}
		dynamics[uid] = &ActorDynamicData{UniqueID: uid, Transform: transform, ClassPath: classPath}
		dynOrder = append(dynOrder, uid)
	}

	if err := r.Seek(int(indexOffset)); err != nil {
		return nil, err
	}
	infoCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	infos := make([]Info, 0, infoCount)
	for i := uint32(0); i < infoCount; i++ {
		uid, err := r.U64()
		if err != nil {
			return nil, err
		}
		off, err := r.I32()
		if err != nil {
			return nil, err
		}
		size, err := r.I32()
		if err != nil {
			return nil, err
		}
		infos = append(infos, Info{UniqueID: uid, Offset: off, Size: size})
	}

	destCount, err := r.U32()
	if err != nil {
		return nil, err
	}
	c.Destroyed = make([]uint64, 0, destCount)
	for i := uint32(0); i < destCount; i++ {
		id, err := r.U64()
		if err != nil {
			return nil, err
		}
		c.Destroyed = append(c.Destroyed, id)
	}

	for _, info := range infos {
		if err := r.Seek(int(info.Offset)); err != nil {
			return nil, err
		}
		actor, err := readActor(r, logger)
		if err != nil {
			return nil, fmt.Errorf("save: actor %d: %w", info.UniqueID, err)
		}
		actor.UniqueID = info.UniqueID
		actor.Dynamic = dynamics[info.UniqueID]
		c.Actors = append(c.Actors, actor)
	}
	return c, nil
}

func readActor(r *bio.Reader, logger *slog.Logger) (*Actor, error) {
	hasTransform, err := r.U32()
	if err != nil {
		return nil, err
	}
	a := &Actor{}
	if hasTransform != 0 {
		t, err := prop.ReadTransform(r)
		if err != nil {
			return nil, err
		}
		a.Transform = &t
	}
	archive, err := ReadData(r, false, false, logger)
	if err != nil {
		return nil, err
	}
	a.Archive = archive
	return a, nil
}

// WritePersistenceContainer serializes c, backpatching index_offset and
// dynamic_offset once the actor data, dynamic section, and index section
// positions are known.
func WritePersistenceContainer(w *bio.Writer, c *PersistenceContainer) error {
	w.U32(c.Version)
	headerOffsetsPos := w.Pos()
	w.I32(0) // index_offset placeholder
	w.I32(0) // dynamic_offset placeholder

	infos := make([]Info, 0, len(c.Actors))
	for _, a := range c.Actors {
		start := w.Pos()
		if a.Transform != nil {
			w.U32(1)
			prop.WriteTransform(w, *a.Transform)
		} else {
			w.U32(0)
		}
		if err := WriteData(w, a.Archive); err != nil {
			return err
		}
		infos = append(infos, Info{UniqueID: a.UniqueID, Offset: int32(start), Size: int32(w.Pos() - start)})
	}

	dynamicOffset := w.Pos()
	dynCount := 0
	for _, a := range c.Actors {
		if a.Dynamic != nil {
			dynCount++
		}
	}
	w.U32(uint32(dynCount))
	for _, a := range c.Actors {
		if a.Dynamic == nil {
			continue
		}
		w.U64(a.Dynamic.UniqueID)
		prop.WriteTransform(w, a.Dynamic.Transform)
		if err := a.Dynamic.ClassPath.Write(w); err != nil {
			return err
		}
	}

	indexOffset := w.Pos()
	w.U32(uint32(len(infos)))
	for _, info := range infos {
		w.U64(info.UniqueID)
		w.I32(info.Offset)
		w.I32(info.Size)
	}
	w.U32(uint32(len(c.Destroyed)))
	for _, id := range c.Destroyed {
		w.U64(id)
	}

	end := w.Pos()
	if err := w.Seek(headerOffsetsPos); err != nil {
		return err
	}
	w.I32(int32(indexOffset))
	w.I32(int32(dynamicOffset))
	return w.Seek(end)
}
