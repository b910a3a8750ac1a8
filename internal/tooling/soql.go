// Package tooling provides the wire types and query grammar for the
// Salesforce Tooling API.
package tooling

import (
	"strings"
)

// BuildQuery assembles a SOQL query from its parts:
// SELECT <fields> FROM <object> [WHERE <where>].
func BuildQuery(fields []string, object string, where string) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString(" FROM ")
	b.WriteString(object)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	return b.String()
}

// EscapeSOQLString escapes a value for inclusion in a single-quoted SOQL
// string literal. Ids queried by this tool are validated beforehand, but
// names and ids echoed back from the API pass through here anyway.
func EscapeSOQLString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return r.Replace(s)
}
