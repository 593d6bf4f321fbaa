package html

// RegionType identifies the kind of CSS region found in HTML
type RegionType int

const (
	// UnknownRegion is the zero value, indicating an uninitialized region type
	UnknownRegion RegionType = iota
	// StyleTag represents CSS inside a <style> element
	StyleTag
	// StyleAttribute represents CSS inside a style="..." attribute
	StyleAttribute
)

func (t RegionType) String() string {
	switch t {
	case StyleTag:
		return "style tag"
	case StyleAttribute:
		return "style attribute"
	}
	return "unknown"
}

// CSSRegion represents a region of CSS content found in an HTML document
type CSSRegion struct {
	Content string
	// Start and End are byte offsets of Content in the HTML source
	Start int
	End   int
	Type  RegionType
	// Quote is the character delimiting a style attribute value
	Quote byte
}
