// Package selection converts parsed GraphQL selection sets into
// eagerload.Selection trees, so a resolver can prune a load plan to the
// fields a query actually requests:
//
//	sel := selection.FromSelectionSet(field.SelectionSet)
//	err := eagerload.ExecuteSelected(ctx, users, sel,
//	    userPosts.With(postComments.With()),
//	    userProfile.With(),
//	)
//
// Parsing and validating the query stays with the host's GraphQL layer;
// this package only walks the AST it already produced.
package selection

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/eagerload"
)

// FromSelectionSet flattens a selection set into a Selection tree.
// Fragment spreads and inline fragments are merged into the level they
// appear on; duplicate fields (e.g. the same field in two fragments)
// merge their sub-selections. Introspection fields (__typename etc.) are
// dropped.
func FromSelectionSet(set ast.SelectionSet) eagerload.Selection {
	out := eagerload.Selection{}
	collect(set, out)
	return out
}

func collect(set ast.SelectionSet, out eagerload.Selection) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			if strings.HasPrefix(s.Name, "__") {
				continue
			}
			sub, ok := out[s.Name]
			if !ok {
				sub = eagerload.Selection{}
				out[s.Name] = sub
			}
			collect(s.SelectionSet, sub)
		case *ast.FragmentSpread:
			if s.Definition != nil {
				collect(s.Definition.SelectionSet, out)
			}
		case *ast.InlineFragment:
			collect(s.SelectionSet, out)
		}
	}
}

// FromField is a convenience for resolvers holding the current field:
// it returns the Selection of the field's own sub-selections.
func FromField(field *ast.Field) eagerload.Selection {
	if field == nil {
		return eagerload.Selection{}
	}
	return FromSelectionSet(field.SelectionSet)
}
