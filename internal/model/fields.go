package model

// Field names for the SEO extraction schema.
// These constants are the canonical spelling used in reports, the
// seoImpact map, and the database.
const (
	FieldTitle              = "title"
	FieldDescription        = "description"
	FieldKeywords           = "keywords"
	FieldH1                 = "h1"
	FieldH2                 = "h2"
	FieldCanonical          = "canonical"
	FieldRobots             = "robots"
	FieldOGTitle            = "ogTitle"
	FieldOGDescription      = "ogDescription"
	FieldOGImage            = "ogImage"
	FieldTwitterCard        = "twitterCard"
	FieldTwitterTitle       = "twitterTitle"
	FieldTwitterDescription = "twitterDescription"
)

// Schema is a fixed, ordered set of tracked SEO fields.
// The order is significant: the differ emits changes in schema order,
// and reports list field impact in schema order.
//
// Design decision: We model the schema as an explicit value rather than
// iterating struct fields via reflection because:
//  1. The field order is a documented part of the report format
//  2. Reduced variants (subsets) are first-class, not special cases
//  3. It keeps the differ free of reflection
type Schema struct {
	// name identifies the schema variant ("full" or "core").
	name string

	// fields is the ordered list of tracked field names.
	fields []string
}

// Schema variant names accepted in configuration files.
const (
	SchemaNameFull = "full"
	SchemaNameCore = "core"
)

// FullSchema returns the complete 13-field schema tracking all
// SEO-relevant page attributes including Open Graph and Twitter Card
// metadata.
func FullSchema() Schema {
	return Schema{
		name: SchemaNameFull,
		fields: []string{
			FieldTitle,
			FieldDescription,
			FieldKeywords,
			FieldH1,
			FieldH2,
			FieldCanonical,
			FieldRobots,
			FieldOGTitle,
			FieldOGDescription,
			FieldOGImage,
			FieldTwitterCard,
			FieldTwitterTitle,
			FieldTwitterDescription,
		},
	}
}

// CoreSchema returns the reduced schema variant. It tracks the classic
// on-page fields plus Open Graph title and description, omitting the
// image and Twitter Card fields.
func CoreSchema() Schema {
	return Schema{
		name: SchemaNameCore,
		fields: []string{
			FieldTitle,
			FieldDescription,
			FieldKeywords,
			FieldH1,
			FieldH2,
			FieldCanonical,
			FieldRobots,
			FieldOGTitle,
			FieldOGDescription,
		},
	}
}

// SchemaByName returns the schema variant for the given name.
// An empty or unknown name falls back to the full schema.
func SchemaByName(name string) Schema {
	if name == SchemaNameCore {
		return CoreSchema()
	}
	return FullSchema()
}

// Name returns the schema variant name.
func (s Schema) Name() string {
	return s.name
}

// Fields returns the tracked field names in schema order.
// Callers must not mutate the returned slice.
func (s Schema) Fields() []string {
	return s.fields
}

// Len returns the number of tracked fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// FieldRecord holds the extracted SEO fields of one page.
// Every field is always present; a tag or attribute missing from the
// page yields an empty string, never a null marker. This keeps
// downstream comparison total.
type FieldRecord struct {
	// Title is the text content of the <title> tag.
	Title string `json:"title"`

	// Description is the content of <meta name="description">.
	Description string `json:"description"`

	// Keywords is the content of <meta name="keywords">.
	Keywords string `json:"keywords"`

	// H1 is the text of the first <h1> element.
	H1 string `json:"h1"`

	// H2 is the text of the first <h2> element.
	H2 string `json:"h2"`

	// Canonical is the href of <link rel="canonical">.
	Canonical string `json:"canonical"`

	// Robots is the content of <meta name="robots">.
	Robots string `json:"robots"`

	// OGTitle is the content of <meta property="og:title">.
	OGTitle string `json:"ogTitle"`

	// OGDescription is the content of <meta property="og:description">.
	OGDescription string `json:"ogDescription"`

	// OGImage is the content of <meta property="og:image">.
	OGImage string `json:"ogImage"`

	// TwitterCard is the content of <meta name="twitter:card">.
	TwitterCard string `json:"twitterCard"`

	// TwitterTitle is the content of <meta name="twitter:title">.
	TwitterTitle string `json:"twitterTitle"`

	// TwitterDescription is the content of <meta name="twitter:description">.
	TwitterDescription string `json:"twitterDescription"`

	// ExtractionFailed marks a record produced by a failed extraction.
	// The field values are all empty in that case. The differ uses this
	// flag to tag the page instead of reporting every field as changed.
	ExtractionFailed bool `json:"extractionFailed,omitempty"`
}

// Get returns the value of the named field.
// Unknown field names return an empty string.
func (r *FieldRecord) Get(field string) string {
	switch field {
	case FieldTitle:
		return r.Title
	case FieldDescription:
		return r.Description
	case FieldKeywords:
		return r.Keywords
	case FieldH1:
		return r.H1
	case FieldH2:
		return r.H2
	case FieldCanonical:
		return r.Canonical
	case FieldRobots:
		return r.Robots
	case FieldOGTitle:
		return r.OGTitle
	case FieldOGDescription:
		return r.OGDescription
	case FieldOGImage:
		return r.OGImage
	case FieldTwitterCard:
		return r.TwitterCard
	case FieldTwitterTitle:
		return r.TwitterTitle
	case FieldTwitterDescription:
		return r.TwitterDescription
	default:
		return ""
	}
}

// Empty reports whether every tracked field is the empty string.
func (r *FieldRecord) Empty() bool {
	return *r == FieldRecord{ExtractionFailed: r.ExtractionFailed}
}
