// Package table implements the list protocol shared by every data grid:
// filters, search, sort, pagination and CSV export.
package table

type Kind int

const (
	Text Kind = iota
	Enum
	Number
	Date
	Bool
)

// Column whitelists one field for filtering and sorting. Name is the query
// parameter spelling and also the SQL column, which is why only columns
// declared here ever reach a query string.
type Column struct {
	Name       string
	Kind       Kind
	Options    []string // allowed values for Enum
	Searchable bool
}

type Columns []Column

func (cs Columns) Lookup(name string) (Column, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (cs Columns) searchable() []string {
	var out []string
	for _, c := range cs {
		if c.Searchable {
			out = append(out, c.Name)
		}
	}
	return out
}

// Base columns every record table has.
func Base(cols ...Column) Columns {
	return append(Columns{
		{Name: "created_at", Kind: Date},
		{Name: "updated_at", Kind: Date},
	}, cols...)
}

func TextCol(name string) Column   { return Column{Name: name, Kind: Text, Searchable: true} }
func NumberCol(name string) Column { return Column{Name: name, Kind: Number} }
func DateCol(name string) Column   { return Column{Name: name, Kind: Date} }
func BoolCol(name string) Column   { return Column{Name: name, Kind: Bool} }
func EnumCol(name string, options ...string) Column {
	return Column{Name: name, Kind: Enum, Options: options}
}
