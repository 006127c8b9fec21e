// style.go - Inline style attribute parsing.
package htmldom

import (
	"strings"

	"github.com/aymerick/douceur/parser"
)

type declaration struct {
	prop  string
	value string
}

// style keeps declarations in source order.
type style []declaration

// parseStyle reads a style attribute. Browsers drop what they cannot parse, so
// a malformed tail keeps the declarations read before it.
func parseStyle(s string) style {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !strings.HasSuffix(s, ";") {
		s += ";"
	}
	decls, _ := parser.ParseDeclarations(s)

	var st style
	for _, d := range decls {
		prop := strings.ToLower(d.Property)
		if prop == "" || d.Value == "" {
			continue
		}
		value := d.Value
		if d.Important {
			value += " !important"
		}
		st.set(prop, value)
	}
	return st
}

func (st style) get(prop string) string {
	prop = strings.ToLower(prop)
	for _, d := range st {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

func (st *style) set(prop, value string) {
	prop = strings.ToLower(prop)
	for i, d := range *st {
		if d.prop != prop {
			continue
		}
		if value == "" {
			*st = append((*st)[:i], (*st)[i+1:]...)
		} else {
			(*st)[i].value = value
		}
		return
	}
	if value != "" {
		*st = append(*st, declaration{prop: prop, value: value})
	}
}

func (st style) String() string {
	parts := make([]string, len(st))
	for i, d := range st {
		parts[i] = d.prop + ": " + d.value + ";"
	}
	return strings.Join(parts, " ")
}
