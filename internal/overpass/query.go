package overpass

import (
	"fmt"
	"strings"
)

// QueryOptions controls the shape of the florist query.
type QueryOptions struct {
	// RequireName restricts results to nodes carrying a name tag.
	RequireName bool
	// TimeoutSeconds is the server-side evaluation budget; zero omits the setting.
	TimeoutSeconds int
}

// BuildQuery returns an Overpass QL query selecting florist nodes inside bbox,
// where bbox is "south,west,north,east".
func BuildQuery(bbox string, opts QueryOptions) string {
	var sb strings.Builder

	sb.WriteString("[out:json]")
	if opts.TimeoutSeconds > 0 {
		fmt.Fprintf(&sb, "[timeout:%d]", opts.TimeoutSeconds)
	}
	sb.WriteString(";\n")

	sb.WriteString(`node["shop"="florist"]`)
	if opts.RequireName {
		sb.WriteString(`["name"]`)
	}
	fmt.Fprintf(&sb, "(%s);\n", bbox)
	sb.WriteString("out body;\n")

	return sb.String()
}
