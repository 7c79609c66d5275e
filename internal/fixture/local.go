package fixture

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/geometry"
)

// Local evaluates the spatial join predicates in process. Parse failures
// yield None, matching what the database reports for unparsable input.
type Local struct{}

// Evaluate implements Evaluator
func (Local) Evaluate(ctx context.Context, fn Function, pairs []Pair) ([]interface{}, error) {
	pred, err := geometry.ParsePredicate(fn.Name)
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupported, "%s", fn.SQLName())
	}

	out := make([]interface{}, len(pairs))
	for i, pr := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, errA := geometry.ParseWKT(pr.Left)
		b, errB := geometry.ParseWKT(pr.Right)
		if errA != nil || errB != nil {
			out[i] = nil
			continue
		}

		ok, err := pred.Eval(a, b)
		if err != nil {
			out[i] = nil
			continue
		}
		out[i] = ok
	}
	return out, nil
}

// Close implements Evaluator
func (Local) Close(context.Context) error { return nil }
