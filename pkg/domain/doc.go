/*
Package domain contains the core data model of the drilling data simulator.

It defines the channels that are synthesized, the depth-indexed table they are
assembled into and the export target a table is written to. This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - ChannelSpec: Name, unit and hard bounds of one sensor channel plus its maximum per-step change.
  - DepthAxis: The strictly increasing depth index shared by every channel.
  - Table: The immutable, column-aligned result of one generation request.
  - ExportTarget: Directory, file prefix and Format a Table is exported to.
  - GenerationRequest: The configuration surface consumed from the presentation layer.
*/
package domain
