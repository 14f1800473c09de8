// Package action implements the cloud operations bound to finger
// counts, including the interactive confirmation required before any
// mutating call.
package action

import (
	"io"
	"os"
	"sort"

	"github.com/ayusman/mudra/internal/cloud"
	"github.com/ayusman/mudra/internal/console"
	"github.com/ayusman/mudra/internal/trigger"
)

// Action names as they appear in logs, the journal, and the bindings
// table.
const (
	NameListInstances = "list-instances"
	NameStartInstance = "start-instance"
	NameStopInstance  = "stop-instance"
	NameListBuckets   = "list-buckets"
	NameCreateBucket  = "create-bucket"
)

// Binding is one row of the finger-count table.
type Binding struct {
	Count    int    `json:"count"`
	Action   string `json:"action"`
	Mutating bool   `json:"mutating"`
}

// RegistryConfig holds the collaborators the handlers run against.
type RegistryConfig struct {
	Compute  cloud.Compute
	Storage  cloud.Storage
	Prompter console.Prompter

	// Out receives handler output (inventories, confirmations,
	// results). Defaults to os.Stdout.
	Out io.Writer
}

// Registry holds the fixed finger-count bindings:
//
//	1 = list instances, 2 = start instance, 3 = stop instance,
//	4 = list buckets, 5 = create bucket.
//
// Counts 2, 3, and 5 mutate remote state and require the operator to
// type a literal "yes" before the call is made.
type Registry struct {
	handlers map[int]trigger.Handler
}

// NewRegistry builds the binding table over the given clients and
// prompter.
func NewRegistry(cfg RegistryConfig) *Registry {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	return &Registry{
		handlers: map[int]trigger.Handler{
			1: &listInstances{compute: cfg.Compute, out: out},
			2: &startInstance{compute: cfg.Compute, prompter: cfg.Prompter, out: out},
			3: &stopInstance{compute: cfg.Compute, prompter: cfg.Prompter, out: out},
			4: &listBuckets{storage: cfg.Storage, out: out},
			5: &createBucket{storage: cfg.Storage, prompter: cfg.Prompter, out: out},
		},
	}
}

// Handler returns the handler bound to the given count, or nil for
// counts without a binding.
func (r *Registry) Handler(count int) trigger.Handler {
	return r.handlers[count]
}

// Bindings returns the count-to-action table in count order.
func (r *Registry) Bindings() []Binding {
	counts := make([]int, 0, len(r.handlers))
	for c := range r.handlers {
		counts = append(counts, c)
	}
	sort.Ints(counts)

	bindings := make([]Binding, 0, len(counts))
	for _, c := range counts {
		h := r.handlers[c]
		bindings = append(bindings, Binding{
			Count:    c,
			Action:   h.Name(),
			Mutating: h.Mutating(),
		})
	}
	return bindings
}
