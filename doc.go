/*

Package r2save decodes and re-encodes the save-file format used by a
particular action-RPG title's persisted player/world state.

A save file is a chunked, zlib-compressed envelope wrapping a serialized
object graph drawn from a game engine's reflection format: an interned
names table, an objects table, and per-object property bags built from
roughly twenty distinct typed property kinds, including nested structs,
arrays, maps, and a recursively-embedded persistence container describing
world actors.

The package is organized bottom-up, mirroring the on-wire layering:

  - r2save/bio: position-tracked little-endian byte reader/writer
  - r2save/envelope: chunked zlib compression and CRC32 integrity
  - r2save/names: FString/FName encoding and the per-document names table
  - r2save/prop: the typed property system (PropertyBag and its ~20 kinds)
  - r2save/save: the top-level document and persistence-container format

The r2save/r2save subpackage ties those layers together behind SaveFile and
ProfileSaveFile,
the two entry points most callers need: load a file, walk or mutate its
names and properties, and write it back out byte-for-byte compatible with
the original producer.

*/
package r2save
