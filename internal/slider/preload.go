package slider

// Status is the load status of a single image ref.
type Status int

const (
	StatusNone Status = iota // not requested in this session
	StatusPending
	StatusLoaded
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request asks the host to load one slide image. Session identifies the
// open() call that issued it so late results can be discarded.
type Request struct {
	Session uint64
	Index   int
	Ref     string
}

// Result is the settled outcome of a Request. A nil Err means loaded.
type Result struct {
	Request
	Err error
}

// Loader starts an image load. Load must not block and must not call back into
// the controller synchronously; the host delivers the outcome later through
// Controller.Settle.
type Loader interface {
	Load(req Request)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(req Request)

// Load calls f(req).
func (f LoaderFunc) Load(req Request) { f(req) }

// preloadState tracks per-ref status for one session.
type preloadState map[string]Status

func (p preloadState) status(ref string) Status {
	return p[ref]
}

// begin marks ref pending and reports whether a load should be started.
func (p preloadState) begin(ref string) bool {
	if ref == "" {
		return false
	}
	if _, ok := p[ref]; ok {
		return false
	}
	p[ref] = StatusPending
	return true
}

func (p preloadState) settle(ref string, err error) {
	if err != nil {
		p[ref] = StatusFailed
		return
	}
	p[ref] = StatusLoaded
}
