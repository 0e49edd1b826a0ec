package query

// Kind tells the parser how to decode a filter value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindTime
	KindUUID
)

// Field maps a public query key onto a column.
type Field struct {
	Column string
	Kind   Kind
	// NoSort excludes the field from sort terms.
	NoSort bool
}

// Schema declares what a resource allows in filters, sorts and keyword search.
type Schema struct {
	Fields   map[string]Field
	Keywords []string
}

var builtinFields = map[string]Field{
	"id":        {Column: "id", Kind: KindUUID},
	"createdAt": {Column: "created_at", Kind: KindTime},
	"updatedAt": {Column: "updated_at", Kind: KindTime},
}

func (s Schema) lookup(name string) (Field, bool) {
	if f, ok := s.Fields[name]; ok {
		return f, true
	}
	f, ok := builtinFields[name]
	return f, ok
}
