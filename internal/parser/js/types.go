package js

// Segment is the raw source text of a template literal between two ${...}
// substitutions, or between a backtick and a substitution
type Segment struct {
	Content string
	// Start and End are byte offsets of Content in the source
	Start int
	End   int
}

// TemplateRegion is a css or html tagged template literal
type TemplateRegion struct {
	// Tag is "css" or "html"
	Tag string
	// Segments has one more element than there are substitutions
	Segments      []Segment
	Substitutions int
}

// Interpolated reports whether the template contains ${...} substitutions
func (t TemplateRegion) Interpolated() bool {
	return t.Substitutions > 0
}
