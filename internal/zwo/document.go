// Package zwo renders a validated workout block sequence into the ZWO
// markup consumed by the fitness platform.
package zwo

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Attr is one element attribute. Order is significant for output fidelity,
// so attributes live in a slice rather than a map.
type Attr struct {
	Name  string
	Value string
}

// Element is one markup element: a name, ordered attributes, optional
// character data, and ordered children.
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []Element
}

func (e *Element) setAttr(name, value string) {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

func (e *Element) addChild(child Element) {
	e.Children = append(e.Children, child)
}

// Document is a rendered ZWO markup tree rooted at workout_file.
type Document struct {
	Root Element
}

const indentUnit = "    "

// Bytes serializes the document pretty-printed with a four-space indent.
// No XML prolog is emitted: the consumer rejects an encoding declaration
// line.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	writeElement(&buf, &d.Root, 0)
	return buf.Bytes()
}

func (d *Document) String() string { return string(d.Bytes()) }

// writeElement emits one element and its subtree. Empty elements
// self-close; elements with only text keep it on one line.
func writeElement(buf *bytes.Buffer, e *Element, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Name)
	for _, attr := range e.Attrs {
		fmt.Fprintf(buf, ` %s="%s"`, attr.Name, escapeAttr(attr.Value))
	}

	switch {
	case len(e.Children) == 0 && e.Text == "":
		buf.WriteString("/>\n")
	case len(e.Children) == 0:
		buf.WriteByte('>')
		buf.WriteString(textEscaper.Replace(e.Text))
		fmt.Fprintf(buf, "</%s>\n", e.Name)
	default:
		buf.WriteString(">\n")
		if e.Text != "" {
			buf.WriteString(indent)
			buf.WriteString(indentUnit)
			buf.WriteString(textEscaper.Replace(e.Text))
			buf.WriteByte('\n')
		}
		for i := range e.Children {
			writeElement(buf, &e.Children[i], depth+1)
		}
		buf.WriteString(indent)
		fmt.Fprintf(buf, "</%s>\n", e.Name)
	}
}

// textEscaper escapes markup-significant characters in character data.
// Whitespace stays literal so multi-line descriptions keep their newlines.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeAttr XML-escapes an attribute value. xml.EscapeText also turns
// whitespace into character references, which only attributes may do.
func escapeAttr(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s)) //nolint:errcheck // bytes.Buffer cannot fail
	return buf.String()
}
