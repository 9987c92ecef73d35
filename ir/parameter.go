package ir

// Location is where a parameter is carried in a request.
type Location string

const (
	LocationPath   Location = "path"
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationCookie Location = "cookie"
)

// Locations lists every parameter location in grouping order.
var Locations = []Location{LocationPath, LocationQuery, LocationHeader, LocationCookie}

// Style is a parameter serialization style.
type Style string

const (
	StyleMatrix         Style = "matrix"
	StyleLabel          Style = "label"
	StyleSimple         Style = "simple"
	StyleForm           Style = "form"
	StyleSpaceDelimited Style = "spaceDelimited"
	StylePipeDelimited  Style = "pipeDelimited"
	StyleDeepObject     Style = "deepObject"
	StyleCookie         Style = "cookie"
)

// Parameter is a normalized operation parameter.
type Parameter struct {
	Name          string   `json:"name"`
	In            Location `json:"in"`
	Required      bool     `json:"required"`
	Style         Style    `json:"style"`
	Explode       bool     `json:"explode"`
	AllowReserved bool     `json:"allowReserved,omitempty"`
	Deprecated    bool     `json:"deprecated,omitempty"`
	Description   string   `json:"description,omitempty"`
	// MediaType is set for parameters described by "content".
	MediaType string `json:"mediaType,omitempty"`
	Schema    Node   `json:"schema"`
	// CoerceToArray is set for query parameters whose schema is an array,
	// so a single occurrence must be read as a one-element list.
	CoerceToArray bool `json:"coerceToArray,omitempty"`
	// Pointer is the canonical pointer of the parameter object.
	Pointer string `json:"pointer,omitempty"`
}

// Group is the parameters of one location. VirtualRef points at the
// synthesized object schema of the group and is nil for an empty group.
type Group struct {
	Name       string       `json:"name,omitempty"`
	List       []*Parameter `json:"list"`
	VirtualRef *Ref         `json:"virtualRef,omitempty"`
}

// Len returns the number of parameters in the group.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.List)
}

// OperationParameters is the normalized parameter set of one operation.
type OperationParameters struct {
	OperationID string       `json:"operationId"`
	All         []*Parameter `json:"all"`
	Path        *Group       `json:"path"`
	Query       *Group       `json:"query"`
	Header      *Group       `json:"header"`
	Cookie      *Group       `json:"cookie"`
}

// Group returns the group for loc.
func (p *OperationParameters) Group(loc Location) *Group {
	switch loc {
	case LocationPath:
		return p.Path
	case LocationQuery:
		return p.Query
	case LocationHeader:
		return p.Header
	case LocationCookie:
		return p.Cookie
	}
	return nil
}
