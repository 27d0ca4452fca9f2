// Package htmldoc implements dom.Document over a parsed x/net/html tree.
// A page is parsed once, localized in place and serialized back, which is the
// server-side equivalent of mutating a live browser DOM.
package htmldoc

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/weblocale/weblocale/dom"
)

// Document wraps a parsed HTML tree. The parser guarantees html, head and
// body elements even for fragmentary input.
type Document struct {
	root *html.Node
	html *html.Node
	head *html.Node
	body *html.Node
}

// Parse reads and parses an HTML page.
func Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		root: node,
		html: findAtom(node, atom.Html),
		head: findAtom(node, atom.Head),
		body: findAtom(node, atom.Body),
	}, nil
}

// Render serializes the document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Elements returns every element carrying the given attribute, in document
// order.
func (d *Document) Elements(attr string) []dom.Element {
	var elements []dom.Element
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := getAttr(n, attr); ok {
				elements = append(elements, &element{n: n})
			}
		}
	})
	return elements
}

// Root returns the html element.
func (d *Document) Root() dom.Element {
	if d.html == nil {
		return nil
	}
	return &element{n: d.html}
}

// Body returns the body element.
func (d *Document) Body() dom.Element {
	if d.body == nil {
		return nil
	}
	return &element{n: d.body}
}

// SetTitle sets the document title, creating the title element under head
// when the page has none.
func (d *Document) SetTitle(title string) {
	node := findAtom(d.root, atom.Title)
	if node == nil {
		if d.head == nil {
			return
		}
		node = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		d.head.AppendChild(node)
	}
	setText(node, title)
}

// SetMetaDescription sets the content attribute of the description meta
// element. It reports false when the page has no such element.
func (d *Document) SetMetaDescription(content string) bool {
	var meta *html.Node
	walk(d.root, func(n *html.Node) {
		if meta != nil || n.Type != html.ElementNode || n.DataAtom != atom.Meta {
			return
		}
		if name, ok := getAttr(n, "name"); ok && strings.EqualFold(name, "description") {
			meta = n
		}
	})
	if meta == nil {
		return false
	}
	setAttr(meta, "content", content)
	return true
}

type element struct {
	n *html.Node
}

func (e *element) Attr(name string) (string, bool) {
	return getAttr(e.n, name)
}

func (e *element) SetAttr(name, value string) {
	setAttr(e.n, name, value)
}

func (e *element) SetText(text string) {
	setText(e.n, text)
}

func (e *element) SetHTML(markup string) error {
	// Fragments are parsed in a neutral container context, so the markup is
	// interpreted the same way regardless of the target element.
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return err
	}
	removeChildren(e.n)
	for _, n := range nodes {
		e.n.AppendChild(n)
	}
	return nil
}

func (e *element) AddClass(name string) {
	classes := classList(e.n)
	for _, c := range classes {
		if c == name {
			return
		}
	}
	setAttr(e.n, "class", strings.Join(append(classes, name), " "))
}

func (e *element) RemoveClass(name string) {
	classes := classList(e.n)
	kept := classes[:0]
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(e.n, "class")
		return
	}
	setAttr(e.n, "class", strings.Join(kept, " "))
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAtom(c, a); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func setText(n *html.Node, text string) {
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

func classList(n *html.Node) []string {
	value, _ := getAttr(n, "class")
	return strings.Fields(value)
}
