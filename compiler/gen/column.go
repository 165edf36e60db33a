package gen

import (
	"strings"
)

// ColumnType is the semantic type of a column, independent of the dialect
// it was introspected from.
type ColumnType uint8

// List of column types.
const (
	TypeInvalid ColumnType = iota
	TypeBool
	TypeInt
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeDecimal
	TypeString
	TypeTime
	TypeDate
	TypeUUID
	TypeBytes
	TypeJSON
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeInt:     "int",
	TypeInt8:    "int8",
	TypeInt16:   "int16",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeUint:    "uint",
	TypeUint8:   "uint8",
	TypeUint16:  "uint16",
	TypeUint32:  "uint32",
	TypeUint64:  "uint64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeDecimal: "decimal",
	TypeString:  "string",
	TypeTime:    "time",
	TypeDate:    "date",
	TypeUUID:    "uuid",
	TypeBytes:   "bytes",
	TypeJSON:    "json",
}

// String returns the string representation of a type.
func (t ColumnType) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type if known type.
func (t ColumnType) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Integer reports if the given type is an integer type.
func (t ColumnType) Integer() bool {
	return t >= TypeInt && t <= TypeUint64
}

// Numeric reports if the given type is a numeric type.
func (t ColumnType) Numeric() bool {
	return t >= TypeInt && t <= TypeDecimal
}

// Temporal reports if the given type holds a point in time.
func (t ColumnType) Temporal() bool {
	return t == TypeTime || t == TypeDate
}

// Keyable reports if columns of this type can act as primary or join keys.
func (t ColumnType) Keyable() bool {
	return t.Integer() || t == TypeString || t == TypeUUID
}

// MarshalText implements encoding.TextMarshaler.
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ColumnType) UnmarshalText(text []byte) error {
	*t = ParseColumnType(string(text))
	return nil
}

// ParseColumnType maps a type name to its ColumnType. It accepts the
// names returned by ColumnType.String and common SQL spellings.
func ParseColumnType(s string) ColumnType {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, '('); i > 0 {
		s = s[:i]
	}
	for t := TypeBool; t < endTypes; t++ {
		if typeNames[t] == s {
			return t
		}
	}
	switch s {
	case "boolean":
		return TypeBool
	case "integer", "mediumint", "serial":
		return TypeInt32
	case "smallint", "smallserial":
		return TypeInt16
	case "tinyint":
		return TypeInt8
	case "bigint", "bigserial":
		return TypeInt64
	case "real", "float":
		return TypeFloat32
	case "double", "double precision":
		return TypeFloat64
	case "numeric":
		return TypeDecimal
	case "varchar", "char", "text", "character varying", "character", "tinytext", "mediumtext", "longtext", "enum":
		return TypeString
	case "timestamp", "timestamptz", "datetime", "timestamp with time zone", "timestamp without time zone":
		return TypeTime
	case "blob", "bytea", "binary", "varbinary", "longblob":
		return TypeBytes
	case "jsonb":
		return TypeJSON
	}
	return TypeInvalid
}

// Column describes a single table column.
type Column struct {
	// Name is the column name as stored in the database.
	Name string `yaml:"name" msgpack:"name"`
	// Type is the semantic type of the column.
	Type ColumnType `yaml:"type" msgpack:"type"`
	// Nullable reports whether the column accepts NULL.
	Nullable bool `yaml:"nullable,omitempty" msgpack:"nullable"`
	// Primary reports whether the column is part of the primary key.
	Primary bool `yaml:"primary,omitempty" msgpack:"primary"`
	// AutoIncrement reports whether the database generates the column value.
	AutoIncrement bool `yaml:"auto_increment,omitempty" msgpack:"auto_increment"`
	// Comment is copied to the generated struct field.
	Comment string `yaml:"comment,omitempty" msgpack:"comment"`

	naming *Naming
}

// StructField returns the Go struct field name of the column.
func (c *Column) StructField() string {
	return c.naming.Pascal(c.Name)
}

// VarName returns a local variable name for the column.
func (c *Column) VarName() string {
	return c.naming.Camel(c.Name)
}

// AutoKey reports whether the column is a key whose value is assigned by
// the database and read back after insert.
func (c *Column) AutoKey() bool {
	return c.AutoIncrement && c.Type.Integer()
}
