// Package dag builds and validates the processor graph declared by
// ProcessorGroup.dag. Each stage consumes either conditioning keys
// produced upstream of the group (preprocessor, encoder, decoder) or the
// named output signals of earlier stages, written as "node/signal". The
// build rejects unknown processors, unknown routing sources, arity
// mismatches against a processor's declared controls, duplicate node
// names, and cycles, and produces the topologically ordered execution
// plan handed to the engine.
package dag
