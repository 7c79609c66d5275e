package fixture

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrUnsupported is returned by evaluators that cannot compute a function
var ErrUnsupported = errors.New("function not supported by evaluator")

// Evaluator computes one function over every input pair, returning one
// result per pair in input order
type Evaluator interface {
	Evaluate(ctx context.Context, fn Function, pairs []Pair) ([]interface{}, error)
	Close(ctx context.Context) error
}
