package sqlite

import (
	m "github.com/marcboeker/go-sqlite/mapping"
)

// Type is one of SQLite's fundamental datatypes (storage classes).
type Type int

const (
	TYPE_INTEGER = Type(m.TypeInteger)
	TYPE_FLOAT   = Type(m.TypeFloat)
	TYPE_TEXT    = Type(m.TypeText)
	TYPE_BLOB    = Type(m.TypeBlob)
	TYPE_NULL    = Type(m.TypeNull)
)

var typeToStringMap = map[Type]string{
	TYPE_INTEGER: "INTEGER",
	TYPE_FLOAT:   "FLOAT",
	TYPE_TEXT:    "TEXT",
	TYPE_BLOB:    "BLOB",
	TYPE_NULL:    "NULL",
}

func (t Type) String() string {
	if s, ok := typeToStringMap[t]; ok {
		return s
	}
	return unknownTypeErrMsg
}
