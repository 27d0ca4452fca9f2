// Package dom defines the document capability surface the localizer renders
// against. Implementations wrap a real markup tree (see the htmldoc
// subpackage) or an in-memory fake for tests.
package dom

// Element is a single element of a document.
type Element interface {
	// Attr returns the value of the named attribute and whether it is present.
	Attr(name string) (string, bool)
	// SetAttr sets the named attribute, replacing any existing value.
	SetAttr(name, value string)
	// SetText replaces the element's content with plain text.
	SetText(text string)
	// SetHTML replaces the element's content with parsed markup.
	SetHTML(markup string) error
	// AddClass adds a class token if not already present.
	AddClass(name string)
	// RemoveClass removes a class token if present.
	RemoveClass(name string)
}

// Document is a renderable document. Elements returns every element carrying
// the given attribute, in document order.
type Document interface {
	Elements(attr string) []Element
	// Root returns the document root element (html), or nil if absent.
	Root() Element
	// Body returns the document body element, or nil if absent.
	Body() Element
	// SetTitle sets the document title, creating the title element if needed.
	SetTitle(title string)
	// SetMetaDescription sets the content attribute of the description meta
	// element. It reports false when no such element exists.
	SetMetaDescription(content string) bool
}
