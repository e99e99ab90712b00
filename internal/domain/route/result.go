package route

// Result is the outcome of one route request: exactly one of Route or Err is set.
type Result struct {
	Route *Route
	Err   error
}

// Success wraps a calculated route.
func Success(r *Route) Result { return Result{Route: r} }

// Failure wraps a request error.
func Failure(err error) Result { return Result{Err: err} }

// OK reports whether the request produced a route.
func (r Result) OK() bool { return r.Err == nil && r.Route != nil }
