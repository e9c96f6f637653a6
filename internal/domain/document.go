package domain

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
)

// element is one node of a decoded DWML document. Parameter element names
// are an open set, so the document is decoded into a generic tree and walked
// rather than bound to fixed structs.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []element  `xml:",any"`
}

// Document is a parsed DWML forecast.
type Document struct {
	root element
}

// ParseDocument decodes raw DWML bytes. Malformed XML is reported as ErrParse.
func ParseDocument(data []byte) (*Document, error) {
	var root element
	dec := xml.NewDecoder(bytes.NewReader(data))
	// MapClick declares ISO-8859-1.
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: decode dwml: %w", ErrParse, err)
	}
	return &Document{root: root}, nil
}

// attr returns the value of a non-namespaced attribute.
func (e *element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) tag() string { return e.XMLName.Local }

func (e *element) text() string { return strings.TrimSpace(e.Text) }

// children returns the direct children with the given tag.
func (e *element) children(tag string) []*element {
	var out []*element
	for i := range e.Children {
		if e.Children[i].tag() == tag {
			out = append(out, &e.Children[i])
		}
	}
	return out
}

// descendants returns every element below e (excluding e) with the given
// tag, in document order.
func (e *element) descendants(tag string) []*element {
	var out []*element
	var walk func(n *element)
	walk = func(n *element) {
		for i := range n.Children {
			c := &n.Children[i]
			if c.tag() == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// attrValues collects the named attribute from e and all of its
// descendants, in document order.
func (e *element) attrValues(name string) []string {
	var out []string
	var walk func(n *element)
	walk = func(n *element) {
		if v, ok := n.attr(name); ok {
			out = append(out, v)
		}
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	walk(e)
	return out
}

// parameterBlocks returns every <parameters> element in the document.
func (d *Document) parameterBlocks() []*element {
	blocks := d.root.descendants("parameters")
	if d.root.tag() == "parameters" {
		blocks = append([]*element{&d.root}, blocks...)
	}
	return blocks
}
