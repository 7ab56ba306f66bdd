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

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/pregel/graph"
	"github.com/weaviate/pregel/usecases/monitoring"
)

func pathGraph(t *testing.T, nodeCount uint64) graph.Graph {
	t.Helper()

	b := graph.NewBuilder(nodeCount)
	for id := uint64(0); id+1 < nodeCount; id++ {
		b.AddRelationship(id, id+1)
	}
	g, err := b.Build()
	require.Nil(t, err)
	return g
}

func distSchema(t *testing.T) PregelSchema {
	t.Helper()

	schema, err := NewSchemaBuilder().
		AddWithDefault("dist", DoubleDefault(math.Inf(1)), VisibilityPublic).
		Build()
	require.Nil(t, err)
	return schema
}

func distInit(source uint64) InitFunc {
	return func(ctx *InitContext) error {
		if ctx.NodeID() == source {
			return ctx.SetDoubleValue("dist", 0)
		}
		return nil
	}
}

// distCompute relaxes shortest distances over unit-weight relationships: on
// any incoming message m, adopt m+1 if it improves the own distance and
// propagate, otherwise vote to halt.
func distCompute() ComputeFunc {
	return func(ctx *ComputeContext, messages *Messages) error {
		if ctx.IsInitialSuperstep() {
			dist, err := ctx.DoubleValue("dist")
			if err != nil {
				return err
			}
			if dist == 0 {
				ctx.SendToNeighbors(dist)
			}
			return nil
		}

		if messages.IsEmpty() {
			ctx.VoteToHalt()
			return nil
		}

		best := math.Inf(1)
		for messages.Next() {
			if v := messages.Value(); v < best {
				best = v
			}
		}

		dist, err := ctx.DoubleValue("dist")
		if err != nil {
			return err
		}

		if best+1 < dist {
			if err := ctx.SetDoubleValue("dist", best+1); err != nil {
				return err
			}
			ctx.SendToNeighbors(best + 1)
		} else {
			ctx.VoteToHalt()
		}
		return nil
	}
}

func distances(t *testing.T, res *Result) []float64 {
	t.Helper()

	out := make([]float64, res.NodeValues.NodeCount())
	err := res.NodeValues.ForEachDoubleValue("dist", func(nodeID uint64, value float64) {
		out[nodeID] = value
	})
	require.Nil(t, err)
	return out
}

func defaultUserConfig(concurrency int) UserConfig {
	uc := UserConfig{}
	uc.SetDefaults()
	uc.Concurrency = concurrency
	return uc
}

func TestShortestDistanceOnPathGraph(t *testing.T) {
	// the canonical 0->1->2->3 relaxation: one node wakes up per
	// superstep, one trailing superstep confirms convergence
	run := func(t *testing.T, uc UserConfig, reducer Reducer) *Result {
		p, err := New(Config{
			ID:      "sssp",
			Graph:   pathGraph(t, 4),
			Schema:  distSchema(t),
			Init:    distInit(0),
			Compute: distCompute(),
			Reducer: reducer,
		}, uc)
		require.Nil(t, err)
		defer p.Release()

		res, err := p.Run(context.Background())
		require.Nil(t, err)
		return res
	}

	for _, partitioning := range []Partitioning{
		PartitioningRange, PartitioningDegree, PartitioningAuto,
	} {
		t.Run(partitioning.String(), func(t *testing.T) {
			uc := defaultUserConfig(2)
			uc.Partitioning = partitioning

			res := run(t, uc, nil)
			assert.True(t, res.DidConverge())
			assert.Equal(t, 5, res.Iterations)
			assert.Equal(t, []float64{0, 1, 2, 3}, distances(t, res))
		})
	}

	t.Run("with min reducer", func(t *testing.T) {
		res := run(t, defaultUserConfig(2), MinReducer())
		assert.True(t, res.DidConverge())
		assert.Equal(t, 5, res.Iterations)
		assert.Equal(t, []float64{0, 1, 2, 3}, distances(t, res))
	})

	t.Run("asynchronous", func(t *testing.T) {
		uc := defaultUserConfig(1)
		uc.IsAsynchronous = true

		res := run(t, uc, nil)
		assert.True(t, res.DidConverge())
		assert.Equal(t, []float64{0, 1, 2, 3}, distances(t, res))
	})
}

func TestHaltAndReactivation(t *testing.T) {
	var mu sync.Mutex
	invoked := map[int][]uint64{}

	compute := func(ctx *ComputeContext, messages *Messages) error {
		mu.Lock()
		invoked[ctx.Superstep()] = append(invoked[ctx.Superstep()], ctx.NodeID())
		mu.Unlock()

		if ctx.IsInitialSuperstep() && ctx.NodeID() == 0 {
			ctx.SendTo(1, 1)
		}
		ctx.VoteToHalt()
		return nil
	}

	schema, err := NewSchemaBuilder().AddPublic("unused", ValueTypeLong).Build()
	require.Nil(t, err)

	p, err := New(Config{
		Graph:   pathGraph(t, 2),
		Schema:  schema,
		Compute: compute,
	}, defaultUserConfig(1))
	require.Nil(t, err)
	defer p.Release()

	res, err := p.Run(context.Background())
	require.Nil(t, err)

	assert.True(t, res.DidConverge())
	assert.Equal(t, 2, res.Iterations)

	// superstep 0: everybody participates, then halts
	assert.ElementsMatch(t, []uint64{0, 1}, invoked[0])
	// superstep 1: the message reactivates node 1; node 0 stays halted
	assert.Equal(t, []uint64{1}, invoked[1])
	// nothing afterwards
	assert.NotContains(t, invoked, 2)
}

func TestMessageVisibleExactlyOneSuperstepLater(t *testing.T) {
	var mu sync.Mutex
	received := map[int][]float64{}

	compute := func(ctx *ComputeContext, messages *Messages) error {
		if ctx.NodeID() == 1 {
			mu.Lock()
			for messages.Next() {
				received[ctx.Superstep()] = append(received[ctx.Superstep()], messages.Value())
			}
			mu.Unlock()
		}

		if ctx.IsInitialSuperstep() && ctx.NodeID() == 0 {
			ctx.SendTo(1, 42)
		}
		ctx.VoteToHalt()
		return nil
	}

	schema, err := NewSchemaBuilder().AddPublic("unused", ValueTypeLong).Build()
	require.Nil(t, err)

	uc := defaultUserConfig(1)
	uc.MaxIterations = 5

	p, err := New(Config{
		Graph:   pathGraph(t, 2),
		Schema:  schema,
		Compute: compute,
	}, uc)
	require.Nil(t, err)
	defer p.Release()

	res, err := p.Run(context.Background())
	require.Nil(t, err)
	require.True(t, res.DidConverge())

	// absent during the sending superstep, present exactly one later
	assert.NotContains(t, received, 0)
	assert.Equal(t, []float64{42}, received[1])
	assert.NotContains(t, received, 2)
}

func TestIterationLimitIsANormalOutcome(t *testing.T) {
	compute := func(ctx *ComputeContext, messages *Messages) error {
		// never halts, never sends
		return nil
	}

	schema, err := NewSchemaBuilder().AddPublic("unused", ValueTypeLong).Build()
	require.Nil(t, err)

	uc := defaultUserConfig(1)
	uc.MaxIterations = 7

	p, err := New(Config{
		Graph:   pathGraph(t, 3),
		Schema:  schema,
		Compute: compute,
	}, uc)
	require.Nil(t, err)
	defer p.Release()

	res, err := p.Run(context.Background())
	require.Nil(t, err)

	assert.False(t, res.DidConverge())
	assert.Equal(t, ReasonIterationLimitReached, res.Reason)
	assert.Equal(t, 7, res.Iterations)
}

func TestDeterministicAcrossRunsAndPartitionings(t *testing.T) {
	// large enough that fork-join steps actually split
	const nodeCount = 3000

	rnd := rand.New(rand.NewSource(42))
	b := graph.NewBuilder(nodeCount)
	for i := 0; i < 4*nodeCount; i++ {
		b.AddRelationship(uint64(rnd.Intn(nodeCount)), uint64(rnd.Intn(nodeCount)))
	}
	g, err := b.Build()
	require.Nil(t, err)

	run := func(partitioning Partitioning) *Result {
		uc := defaultUserConfig(4)
		uc.Partitioning = partitioning
		uc.MaxIterations = 100

		p, err := New(Config{
			Graph:   g,
			Schema:  distSchema(t),
			Init:    distInit(0),
			Compute: distCompute(),
		}, uc)
		require.Nil(t, err)
		defer p.Release()

		res, err := p.Run(context.Background())
		require.Nil(t, err)
		return res
	}

	first := run(PartitioningRange)
	second := run(PartitioningRange)
	auto := run(PartitioningAuto)
	degree := run(PartitioningDegree)

	assert.Equal(t, first.Reason, second.Reason)
	assert.Equal(t, first.Iterations, second.Iterations)
	assert.Equal(t, distances(t, first), distances(t, second))

	// partitioning changes scheduling, never results
	assert.Equal(t, distances(t, first), distances(t, auto))
	assert.Equal(t, distances(t, first), distances(t, degree))
	assert.Equal(t, first.Iterations, auto.Iterations)
	assert.Equal(t, first.Iterations, degree.Iterations)
}

func TestSenderTracking(t *testing.T) {
	b := graph.NewBuilder(3)
	b.AddRelationship(0, 2)
	b.AddRelationship(1, 2)
	g, err := b.Build()
	require.Nil(t, err)

	var mu sync.Mutex
	senders := map[float64]uint64{}

	compute := func(ctx *ComputeContext, messages *Messages) error {
		if ctx.IsInitialSuperstep() {
			ctx.SendToNeighbors(float64(ctx.NodeID()) * 10)
			return nil
		}

		mu.Lock()
		for messages.Next() {
			if source, ok := messages.Sender(); ok {
				senders[messages.Value()] = source
			}
		}
		mu.Unlock()

		ctx.VoteToHalt()
		return nil
	}

	schema, err := NewSchemaBuilder().AddPublic("unused", ValueTypeLong).Build()
	require.Nil(t, err)

	uc := defaultUserConfig(2)
	uc.TrackSender = true

	p, err := New(Config{
		Graph:   g,
		Schema:  schema,
		Compute: compute,
	}, uc)
	require.Nil(t, err)
	defer p.Release()

	res, err := p.Run(context.Background())
	require.Nil(t, err)
	require.True(t, res.DidConverge())

	assert.Equal(t, map[float64]uint64{0: 0, 10: 1}, senders)
}

func TestCallbackFailuresAbortTheRun(t *testing.T) {
	schema, err := NewSchemaBuilder().AddPublic("unused", ValueTypeLong).Build()
	require.Nil(t, err)

	t.Run("compute error", func(t *testing.T) {
		compute := func(ctx *ComputeContext, messages *Messages) error {
			if ctx.NodeID() == 1 {
				return assert.AnError
			}
			return nil
		}

		p, err := New(Config{
			Graph:   pathGraph(t, 3),
			Schema:  schema,
			Compute: compute,
		}, defaultUserConfig(1))
		require.Nil(t, err)
		defer p.Release()

		res, err := p.Run(context.Background())
		require.NotNil(t, err)
		assert.Nil(t, res)
		assert.Contains(t, err.Error(), "compute node 1")
	})

	t.Run("init error", func(t *testing.T) {
		init := func(ctx *InitContext) error {
			return assert.AnError
		}
		compute := func(ctx *ComputeContext, messages *Messages) error {
			ctx.VoteToHalt()
			return nil
		}

		p, err := New(Config{
			Graph:   pathGraph(t, 3),
			Schema:  schema,
			Init:    init,
			Compute: compute,
		}, defaultUserConfig(1))
		require.Nil(t, err)
		defer p.Release()

		res, err := p.Run(context.Background())
		require.NotNil(t, err)
		assert.Nil(t, res)
		assert.Contains(t, err.Error(), "init node 0")
	})

	t.Run("compute panic", func(t *testing.T) {
		compute := func(ctx *ComputeContext, messages *Messages) error {
			panic("user code gone wrong")
		}

		p, err := New(Config{
			Graph:   pathGraph(t, 3),
			Schema:  schema,
			Compute: compute,
		}, defaultUserConfig(2))
		require.Nil(t, err)
		defer p.Release()

		res, err := p.Run(context.Background())
		require.NotNil(t, err)
		assert.Nil(t, res)
		assert.Contains(t, err.Error(), "panic")
	})
}

func TestCancellation(t *testing.T) {
	compute := func(ctx *ComputeContext, messages *Messages) error {
		return nil // never halts
	}

	schema, err := NewSchemaBuilder().AddPublic("unused", ValueTypeLong).Build()
	require.Nil(t, err)

	p, err := New(Config{
		Graph:   pathGraph(t, 3),
		Schema:  schema,
		Compute: compute,
	}, defaultUserConfig(1))
	require.Nil(t, err)
	defer p.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.Run(ctx)
	require.Nil(t, err)

	assert.Equal(t, ReasonTerminated, res.Reason)
	assert.Equal(t, 0, res.Iterations)
	assert.NotNil(t, res.NodeValues)
}

func TestBuildTimeValidation(t *testing.T) {
	schema, err := NewSchemaBuilder().AddPublic("unused", ValueTypeLong).Build()
	require.Nil(t, err)

	t.Run("missing collaborators", func(t *testing.T) {
		_, err := New(Config{}, defaultUserConfig(1))
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("invalid user config", func(t *testing.T) {
		uc := defaultUserConfig(0)
		_, err := New(Config{
			Graph:   pathGraph(t, 2),
			Schema:  schema,
			Compute: func(ctx *ComputeContext, messages *Messages) error { return nil },
		}, uc)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "invalid user config")
	})
}

func TestToleranceIsHandedToUserCode(t *testing.T) {
	var seen *float64

	compute := func(ctx *ComputeContext, messages *Messages) error {
		seen = ctx.Config().Tolerance
		ctx.VoteToHalt()
		return nil
	}

	schema, err := NewSchemaBuilder().AddPublic("unused", ValueTypeLong).Build()
	require.Nil(t, err)

	tolerance := 0.5
	uc := defaultUserConfig(1)
	uc.Tolerance = &tolerance

	p, err := New(Config{
		Graph:   pathGraph(t, 1),
		Schema:  schema,
		Compute: compute,
	}, uc)
	require.Nil(t, err)
	defer p.Release()

	_, err = p.Run(context.Background())
	require.Nil(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, 0.5, *seen)
}

func TestPrometheusMetricsAreReported(t *testing.T) {
	pm := monitoring.NewPrometheusMetricsWithRegisterer(prometheus.NewRegistry())

	p, err := New(Config{
		ID:                "metrics-run",
		Graph:             pathGraph(t, 4),
		Schema:            distSchema(t),
		Init:              distInit(0),
		Compute:           distCompute(),
		PrometheusMetrics: pm,
	}, defaultUserConfig(2))
	require.Nil(t, err)
	defer p.Release()

	res, err := p.Run(context.Background())
	require.Nil(t, err)
	require.True(t, res.DidConverge())

	assert.Equal(t, float64(res.Iterations),
		testutil.ToFloat64(pm.PregelIterations.WithLabelValues("metrics-run")))
	assert.Equal(t, float64(0),
		testutil.ToFloat64(pm.PregelActiveNodes.WithLabelValues("metrics-run")))
	// 0->1, 1->2, 2->3
	assert.Equal(t, float64(3),
		testutil.ToFloat64(pm.PregelSentMessages.WithLabelValues("metrics-run")))
}

func TestEmptyMessagesSingleton(t *testing.T) {
	assert.True(t, EmptyMessages.IsEmpty())
	assert.False(t, EmptyMessages.Next())

	_, ok := EmptyMessages.Sender()
	assert.False(t, ok)
}
