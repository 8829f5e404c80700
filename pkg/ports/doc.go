/*
Package ports defines the driven ports (interfaces) of the drilling data simulator.

These interfaces decouple the generator and exporter from concrete file formats and
coordination backends.

# Key Interfaces

  - TableSerializer: Writes a Table in one file format (CSV, XLSX).
  - TableCodec: A serializer that can also read its own output back.
  - Locker: Serializes exporters that share a directory (in-process or via Redis).
*/
package ports
