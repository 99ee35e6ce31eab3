package eagerload

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Selection is a recursive set of requested field names, used by
// ExecuteSelected to prune a load plan to the edges a query actually
// references. A nested Selection holds the fields requested on that
// child; an empty Selection is a leaf. See contrib/selection for building
// one from a GraphQL selection set.
type Selection map[string]Selection

// Node is one step of a load plan: load an edge on the current parent
// set, then descend into the fetched children with the node's own child
// nodes. Nodes are cheap, stateless values; build them per request or
// reuse them freely.
type Node[P any] struct {
	name string
	run  func(ctx context.Context, wl *worklist, parents []P, sel Selection, pruned bool) error
}

// Name returns the edge name the node loads.
func (n Node[P]) Name() string { return n.name }

// step is one unit of worklist work.
type step func(ctx context.Context) error

// worklist is the explicit FIFO queue driving plan traversal. Using a
// queue instead of recursion makes the descent breadth-first per level
// and keeps stack depth flat regardless of plan depth.
type worklist struct {
	mu    sync.Mutex
	steps []step
}

func (w *worklist) push(s step) {
	w.mu.Lock()
	w.steps = append(w.steps, s)
	w.mu.Unlock()
}

func (w *worklist) next() (step, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.steps) == 0 {
		return nil, false
	}
	s := w.steps[0]
	w.steps = w.steps[1:]
	return s, true
}

// drain removes and returns all currently queued steps.
func (w *worklist) drain() []step {
	w.mu.Lock()
	defer w.mu.Unlock()
	steps := w.steps
	w.steps = nil
	return steps
}

// enqueue schedules the given nodes against one parent set. When pruned,
// nodes absent from sel are dropped and matched nodes receive their
// sub-selection.
func enqueue[P any](wl *worklist, parents []P, sel Selection, pruned bool, nodes []Node[P]) {
	for _, n := range nodes {
		n := n
		sub := sel
		if pruned {
			s, ok := sel[n.name]
			if !ok {
				continue
			}
			sub = s
		}
		parents := parents
		wl.push(func(ctx context.Context) error {
			return n.run(ctx, wl, parents, sub, pruned)
		})
	}
}

// With returns a plan node that loads this edge and then applies the
// given child nodes to the fetched children. Zero children makes a leaf
// node.
func (e *OneEdge[P, C, K]) With(children ...Node[C]) Node[P] {
	return Node[P]{name: e.name, run: func(ctx context.Context, wl *worklist, parents []P, sel Selection, pruned bool) error {
		if err := e.Load(ctx, parents); err != nil {
			return err
		}
		if len(children) > 0 {
			enqueue(wl, e.collect(parents), sel, pruned, children)
		}
		return nil
	}}
}

// With returns a plan node that loads this edge and then applies the
// given child nodes to the fetched children. Zero children makes a leaf
// node.
func (e *OptionEdge[P, C, K]) With(children ...Node[C]) Node[P] {
	return Node[P]{name: e.name, run: func(ctx context.Context, wl *worklist, parents []P, sel Selection, pruned bool) error {
		if err := e.Load(ctx, parents); err != nil {
			return err
		}
		if len(children) > 0 {
			enqueue(wl, e.collect(parents), sel, pruned, children)
		}
		return nil
	}}
}

// With returns a plan node that loads this edge and then applies the
// given child nodes to the fetched children. Zero children makes a leaf
// node.
func (e *ManyEdge[P, C, K]) With(children ...Node[C]) Node[P] {
	return Node[P]{name: e.name, run: func(ctx context.Context, wl *worklist, parents []P, sel Selection, pruned bool) error {
		if err := e.Load(ctx, parents); err != nil {
			return err
		}
		if len(children) > 0 {
			enqueue(wl, e.collect(parents), sel, pruned, children)
		}
		return nil
	}}
}

// Execute runs a load plan over the parent set: every node loads its edge
// with a single batched call across all parents at its level before the
// plan descends further. Execution is sequential and stops at the first
// error; edges populated before the failure remain loaded and readable.
func Execute[P any](ctx context.Context, parents []P, nodes ...Node[P]) error {
	return execute(ctx, parents, nil, false, nodes)
}

// ExecuteSelected is Execute restricted to the edges named in sel: a node
// runs only if its edge name appears at the current selection level, and
// its children are pruned against the matching sub-selection. This lets a
// resolver hand the engine the query's field tree and fetch nothing the
// query did not ask for.
func ExecuteSelected[P any](ctx context.Context, parents []P, sel Selection, nodes ...Node[P]) error {
	return execute(ctx, parents, sel, true, nodes)
}

func execute[P any](ctx context.Context, parents []P, sel Selection, pruned bool, nodes []Node[P]) error {
	if len(parents) == 0 || len(nodes) == 0 {
		return nil
	}
	wl := &worklist{}
	enqueue(wl, parents, sel, pruned, nodes)
	for {
		s, ok := wl.next()
		if !ok {
			return nil
		}
		if err := s(ctx); err != nil {
			return err
		}
	}
}

// ExecuteParallel runs a load plan level by level, with the sibling
// branches of each level loaded concurrently in an errgroup. limit bounds
// the number of in-flight loads per level; limit <= 0 means no bound.
//
// Sibling nodes at one level must load distinct edges (or act on disjoint
// parent sets) since each branch mutates its own edge slots, and the
// context's resources must be safe to share across goroutines. The
// one-batched-call-per-edge-per-level guarantee is unchanged. The first
// error cancels the group and aborts the remaining levels.
func ExecuteParallel[P any](ctx context.Context, parents []P, limit int, nodes ...Node[P]) error {
	if len(parents) == 0 || len(nodes) == 0 {
		return nil
	}
	wl := &worklist{}
	enqueue(wl, parents, nil, false, nodes)
	for {
		steps := wl.drain()
		if len(steps) == 0 {
			return nil
		}
		g, gctx := errgroup.WithContext(ctx)
		if limit > 0 {
			g.SetLimit(limit)
		}
		for _, s := range steps {
			s := s
			g.Go(func() error { return s(gctx) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
}
