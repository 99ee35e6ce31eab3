// Package eagerload batches the fetching of entity edges so that resolving a
// hierarchical query never issues one fetch per parent row.
//
// Given a set of parent entities and a declared edge (one-to-one, optional
// one-to-one or one-to-many), the engine extracts the distinct lookup keys
// from the parents that still need the edge, performs at most one batched
// Loader call, and distributes the fetched rows back onto the correct parents
// by foreign key. Edges already populated are skipped, so repeating a load is
// free.
//
// # Edge Slots
//
// Entities embed edge slots whose zero value is "not loaded":
//
//	type User struct {
//	    ID    int
//	    Name  string
//	    Edges UserEdges
//	}
//
//	type UserEdges struct {
//	    Posts   eagerload.Many[*Post]
//	    Profile eagerload.Option[*Profile]
//	}
//
// Reading a slot before it was loaded returns a *NotLoadedError, which keeps
// "edge deliberately not requested" distinct from "edge requested but empty".
// Once loaded, a slot never reverts.
//
// # Edge Descriptors
//
// An edge descriptor names the edge, knows how to extract the matching key
// from both sides, points at the parent's slot, and carries the Loader:
//
//	userPosts := eagerload.HasMany("posts",
//	    func(u *User) int { return u.ID },
//	    func(p *Post) int { return p.AuthorID },
//	    func(u *User) *eagerload.Many[*Post] { return &u.Edges.Posts },
//	    postLoader,
//	)
//
//	if err := userPosts.Load(ctx, users); err != nil { ... }
//
// # Load Plans
//
// Edges compose into plans that descend into the fetched children,
// breadth-first, one batched call per edge per level:
//
//	err := eagerload.Execute(ctx, users,
//	    userPosts.With(postComments.With()),
//	    userProfile.With(),
//	)
//
// ExecuteSelected prunes the plan against a Selection (for example one built
// from a GraphQL selection set, see contrib/selection), so only the edges a
// query actually references are fetched.
//
// # Loaders
//
// A Loader is the engine's only reach into storage:
//
//	type Loader[K comparable, C any] interface {
//	    Load(ctx context.Context, keys []K) ([]C, error)
//	}
//
// The engine never calls Load with an empty key set, always deduplicates
// keys, and makes no assumption about result order beyond attaching rows to
// parents in the order the Loader returned them. Request-scoped resources
// (connections, loader bundles) travel on the context; see
// contrib/dataloader.WithLoaders. The sqlload package provides a batched
// SELECT ... IN / = ANY implementation over database/sql.
package eagerload
