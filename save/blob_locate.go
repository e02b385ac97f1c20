package save

import "github.com/cybergrind/r2save/prop"

// blobLocation pins a found PersistenceBlob property to its containing bag
// and index, so SetPersistenceBlob can overwrite it in place.
type blobLocation struct {
	bag   *prop.Bag
	index int
}

// PersistenceBlob returns the first PersistenceBlob StructProperty found
// anywhere in the document (objects, their components, and nested
// StructProperty default bags, searched depth-first), per spec.md §9's
// resolution that the blob is located structurally rather than by a
// game-specific property name.
func (d *Data) PersistenceBlob() (prop.PersistenceBlobPayload, bool) {
	loc := d.findPersistenceBlob()
	if loc == nil {
		return prop.PersistenceBlobPayload{}, false
	}
	sv := loc.bag.Properties[loc.index].Value.(prop.StructValue)
	return sv.Payload.(prop.PersistenceBlobPayload), true
}

// SetPersistenceBlob overwrites the first PersistenceBlob found with blob,
// reporting whether one was found.
func (d *Data) SetPersistenceBlob(blob prop.PersistenceBlobPayload) bool {
	loc := d.findPersistenceBlob()
	if loc == nil {
		return false
	}
	sv := loc.bag.Properties[loc.index].Value.(prop.StructValue)
	sv.Payload = blob
	loc.bag.Properties[loc.index].Value = sv
	return true
}

func (d *Data) findPersistenceBlob() *blobLocation {
	for _, obj := range d.Objects {
		if loc := findPersistenceBlobInBag(obj.Properties); loc != nil {
			return loc
		}
		for _, c := range obj.Components {
			if loc := findPersistenceBlobInBag(c.Payload); loc != nil {
				return loc
			}
		}
	}
	return nil
}

func findPersistenceBlobInBag(bag *prop.Bag) *blobLocation {
	if bag == nil {
		return nil
	}
	for i := range bag.Properties {
		switch val := bag.Properties[i].Value.(type) {
		case prop.StructValue:
			if _, ok := val.Payload.(prop.PersistenceBlobPayload); ok {
				return &blobLocation{bag: bag, index: i}
			}
			if dp, ok := val.Payload.(prop.DefaultPayload); ok {
				if loc := findPersistenceBlobInBag(dp.Bag); loc != nil {
					return loc
				}
			}
		}
	}
	return nil
}
