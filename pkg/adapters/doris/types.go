package doris

import "strings"

// genericTypes maps Doris column types, parameters stripped, to generic types.
var genericTypes = map[string]string{
	"string":     "text",
	"varchar":    "text",
	"char":       "text",
	"text":       "text",
	"json":       "text",
	"bigint":     "int",
	"int":        "int",
	"integer":    "int",
	"smallint":   "int",
	"tinyint":    "int",
	"largeint":   "int",
	"decimal":    "decimal",
	"decimalv2":  "decimal",
	"decimalv3":  "decimal",
	"boolean":    "boolean",
	"bool":       "boolean",
	"double":     "double",
	"float":      "float",
	"date":       "date",
	"datev2":     "date",
	"datetime":   "timestamp",
	"datetimev2": "timestamp",
}

// ToGenericType maps a Doris column type such as "DECIMAL(10,2)" or
// "varchar(64)" to a generic type. Unknown types are returned lower-cased.
func ToGenericType(dbType string) string {
	t := strings.ToLower(strings.TrimSpace(dbType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if generic, ok := genericTypes[t]; ok {
		return generic
	}
	return t
}
