// Package store defines the storage contract shared by rdfkit store
// backends: triple patterns, the partitioning model, and the Store
// interface.
package store

import (
	"context"
	"errors"
	"iter"

	"github.com/rdfkit/rdfkit"
)

// ErrNoStore is reported by Open when the requested store does not exist in
// the backend and creation was not requested.
var ErrNoStore = errors.New("store: no such store")

// ErrUnsupportedTerm is reported when a pattern component is not one of the
// shapes documented on Pattern.
var ErrUnsupportedTerm = errors.New("store: unsupported pattern term")

// Match couples a matched triple with the graphs asserting it. Contexts
// holds one entry per context the triple was found in.
type Match struct {
	Triple   rdfkit.Triple
	Contexts []rdfkit.Graph
}

// DropReport summarizes a best-effort teardown. Failed statements are
// collected rather than aborting the teardown; Err holds them joined.
type DropReport struct {
	Dropped int
	Failed  int
	Err     error
}

// Store is the lifecycle and retrieval contract a backend implements.
//
// Implementations are synchronous and are not safe for concurrent use of a
// single handle without external serialization.
type Store interface {
	// Open connects to the backend described by the implementation's
	// configuration. If create is true the store's schema is initialized
	// first. Open reports ErrNoStore when the store does not exist
	// afterwards.
	Open(ctx context.Context, create bool) error
	// Close releases the backend connection.
	Close()

	// Add asserts t in graph g.
	Add(ctx context.Context, t rdfkit.Triple, g rdfkit.Graph) error
	// Remove deletes all statements matching p, optionally restricted to g.
	Remove(ctx context.Context, p Pattern, g *rdfkit.Graph) error

	// Triples yields each matching triple once, with every context it is
	// asserted in. The sequence is finite, single-pass, and not
	// restartable.
	Triples(ctx context.Context, p Pattern, g *rdfkit.Graph) iter.Seq2[Match, error]
	// Len counts stored statements, optionally restricted to g.
	Len(ctx context.Context, g *rdfkit.Graph) (int64, error)
	// Contexts yields the distinct non-formula contexts, optionally
	// restricted to those asserting a triple matching p.
	Contexts(ctx context.Context, p *Pattern) iter.Seq2[rdfkit.Graph, error]

	// Exists reports whether the store's schema is present in the backend.
	Exists(ctx context.Context) (bool, error)
	// Destroy drops the store's schema, best-effort.
	Destroy(ctx context.Context) (DropReport, error)
}

// NamespaceManager is the optional prefix-to-namespace binding surface a
// backend may provide.
type NamespaceManager interface {
	Bind(ctx context.Context, prefix string, uri rdfkit.URIRef) error
	Namespace(ctx context.Context, prefix string) (rdfkit.URIRef, error)
	Prefix(ctx context.Context, uri rdfkit.URIRef) (string, error)
	Namespaces(ctx context.Context) (map[string]rdfkit.URIRef, error)
}
