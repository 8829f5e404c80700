package ports

import (
	"io"

	"github.com/aretw0/drillsim/pkg/domain"
)

// TableSerializer writes a table in a single file format.
// Implementations must write the columns in table.Columns() order.
type TableSerializer interface {
	// Format identifies the serializer and the file extension it produces.
	Format() domain.Format

	// Write encodes the whole table to w.
	Write(w io.Writer, table *domain.Table) error
}

// TableReader decodes a table previously written by the matching serializer.
type TableReader interface {
	Read(r io.Reader) (*domain.Table, error)
}

// TableCodec is a serializer that can read its own output back.
type TableCodec interface {
	TableSerializer
	TableReader
}
