// Package keypath parses the two identifier forms that appear in gin
// configurations: dotted selectors on the left side of a binding
// (e.g. "train_util.train.num_steps") and slash-separated signal routes
// inside a processor DAG (e.g. "additive/signal").
package keypath

// Selector is the structured form of a binding's left-hand side. The last
// dotted component names a parameter; everything before it addresses a
// configurable. A Selector with an empty Configurable is a macro name.
type Selector struct {
	Configurable string
	Param        string
}

// Route is the structured form of a DAG input key. A Route with an empty
// Node reads a conditioning key; otherwise it reads the named signal
// produced by an earlier node.
type Route struct {
	Node   string
	Signal string
	Key    string
}

// IsConditioning reports whether the route reads directly from the
// conditioning dictionary rather than from another node's output.
func (r Route) IsConditioning() bool {
	return r.Node == ""
}

// String returns the canonical textual form of the route.
func (r Route) String() string {
	if r.IsConditioning() {
		return r.Key
	}
	return r.Node + "/" + r.Signal
}

// String returns the canonical textual form of the selector.
func (s Selector) String() string {
	if s.Configurable == "" {
		return s.Param
	}
	return s.Configurable + "." + s.Param
}
