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

import "math"

// Reducer folds all messages addressed to one node within a superstep into a
// single value before the next superstep begins. Reduce must be associative
// and commutative, and Reduce(Identity(), x) == x must hold for every x.
type Reducer interface {
	Identity() float64
	Reduce(current, message float64) float64
}

type sumReducer struct{}

func (sumReducer) Identity() float64 {
	return 0
}

func (sumReducer) Reduce(current, message float64) float64 {
	return current + message
}

type minReducer struct{}

func (minReducer) Identity() float64 {
	return math.Inf(1)
}

func (minReducer) Reduce(current, message float64) float64 {
	return math.Min(current, message)
}

type maxReducer struct{}

func (maxReducer) Identity() float64 {
	return math.Inf(-1)
}

func (maxReducer) Reduce(current, message float64) float64 {
	return math.Max(current, message)
}

// countReducer ignores the message payload and counts arrivals.
type countReducer struct{}

func (countReducer) Identity() float64 {
	return 0
}

func (countReducer) Reduce(current, message float64) float64 {
	return current + 1
}

func SumReducer() Reducer   { return sumReducer{} }
func MinReducer() Reducer   { return minReducer{} }
func MaxReducer() Reducer   { return maxReducer{} }
func CountReducer() Reducer { return countReducer{} }
