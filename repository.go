package autocrud

import "context"

// Record is the dynamic representation of a single model row exchanged with the
// repository collaborator and with transport layers.
type Record map[string]any

// clone returns a shallow copy so cached and returned records never alias the
// caller's map.
func (r Record) clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Page defines a public type used by autocrud APIs.
//
// Page instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Page struct {
	Offset int
	Limit  int
}

// Repository is the external storage collaborator every generated operation
// delegates to. Implementations must return [ErrNotFound] (possibly wrapped)
// when an identifier or match has no record; any other error is surfaced to
// callers as [ErrRepository].
//
// Repository implementations must be safe for concurrent use: the Router
// issues calls from many goroutines, bounded only by its concurrency limiter.
type Repository interface {
	Find(ctx context.Context, model string, id any) (Record, error)
	FindBy(ctx context.Context, model string, match Record) (Record, error)
	List(ctx context.Context, model string, page Page) ([]Record, error)
	Count(ctx context.Context, model string) (int64, error)
	Insert(ctx context.Context, model string, rec Record) (Record, error)
	Update(ctx context.Context, model string, id any, partial Record) (Record, error)
	Delete(ctx context.Context, model string, id any) error
}
