//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2025 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package pregel

type TerminationReason int

const (
	// ReasonConverged means every node voted to halt and no message was
	// sent in the last superstep.
	ReasonConverged TerminationReason = iota

	// ReasonIterationLimitReached means the configured maximum number of
	// supersteps ran without convergence. This is a normal outcome, not
	// an error.
	ReasonIterationLimitReached

	// ReasonTerminated means the run's context was cancelled; the value
	// store holds whatever the last completed superstep produced.
	ReasonTerminated
)

func (r TerminationReason) String() string {
	switch r {
	case ReasonConverged:
		return "converged"
	case ReasonIterationLimitReached:
		return "iteration limit reached"
	case ReasonTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Result is the artifact of a finished run: the value store plus how and
// after how many executed supersteps the run ended.
type Result struct {
	NodeValues *NodeValues
	Iterations int
	Reason     TerminationReason
}

func (r *Result) DidConverge() bool {
	return r.Reason == ReasonConverged
}
