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
	"encoding/json"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/pregel/entities/errorcompounder"
	"github.com/weaviate/pregel/graph"
	"github.com/weaviate/pregel/usecases/monitoring"
)

// InitFunc runs once per node in the first superstep, with exclusive write
// access to that node's row in the value store.
type InitFunc func(ctx *InitContext) error

// ComputeFunc runs per participating node per superstep. It may send
// messages, vote to halt and read/write its own row. Returning an error
// aborts the whole run.
type ComputeFunc func(ctx *ComputeContext, messages *Messages) error

type Partitioning int

const (
	PartitioningRange Partitioning = iota
	PartitioningDegree
	PartitioningAuto
)

func (p Partitioning) String() string {
	switch p {
	case PartitioningDegree:
		return "DEGREE"
	case PartitioningAuto:
		return "AUTO"
	default:
		return "RANGE"
	}
}

// ParsePartitioning accepts the uppercase names case-insensitively.
func ParsePartitioning(in string) (Partitioning, error) {
	switch strings.ToUpper(strings.TrimSpace(in)) {
	case "RANGE":
		return PartitioningRange, nil
	case "DEGREE":
		return PartitioningDegree, nil
	case "AUTO":
		return PartitioningAuto, nil
	default:
		return PartitioningRange, errors.Errorf("unknown partitioning %q", in)
	}
}

const DefaultMaxIterations = 20

// UserConfig is the user-settable part of a computation's configuration,
// validated before the run starts.
type UserConfig struct {
	Concurrency    int          `json:"concurrency"`
	MaxIterations  int          `json:"maxIterations"`
	Tolerance      *float64     `json:"tolerance,omitempty"`
	IsAsynchronous bool         `json:"isAsynchronous"`
	Partitioning   Partitioning `json:"partitioning"`
	TrackSender    bool         `json:"trackSender"`
}

func (uc *UserConfig) SetDefaults() {
	uc.Concurrency = runtime.GOMAXPROCS(0)
	uc.MaxIterations = DefaultMaxIterations
	uc.Partitioning = PartitioningRange
}

func (uc UserConfig) Validate() error {
	ec := &errorcompounder.ErrorCompounder{}

	if uc.Concurrency < 1 {
		ec.Addf("concurrency must be a positive integer, got %d", uc.Concurrency)
	}

	if uc.MaxIterations < 1 {
		ec.Addf("maxIterations must be a positive integer, got %d", uc.MaxIterations)
	}

	if uc.Tolerance != nil && *uc.Tolerance <= 0 {
		ec.Addf("tolerance must be positive, got %f", *uc.Tolerance)
	}

	return ec.ToError()
}

// ParseUserConfig builds a UserConfig from an untyped map, as handed over by
// API layers that do not know the concrete config type.
func ParseUserConfig(input interface{}) (UserConfig, error) {
	uc := UserConfig{}
	uc.SetDefaults()

	if input == nil {
		return uc, nil
	}

	asMap, ok := input.(map[string]interface{})
	if !ok || asMap == nil {
		return uc, errors.New("input must be a non-nil map")
	}

	if err := optionalIntFromMap(asMap, "concurrency", func(v int) {
		uc.Concurrency = v
	}); err != nil {
		return uc, err
	}

	if err := optionalIntFromMap(asMap, "maxIterations", func(v int) {
		uc.MaxIterations = v
	}); err != nil {
		return uc, err
	}

	if err := optionalFloatFromMap(asMap, "tolerance", func(v float64) {
		uc.Tolerance = &v
	}); err != nil {
		return uc, err
	}

	if err := optionalBoolFromMap(asMap, "isAsynchronous", func(v bool) {
		uc.IsAsynchronous = v
	}); err != nil {
		return uc, err
	}

	if err := optionalBoolFromMap(asMap, "trackSender", func(v bool) {
		uc.TrackSender = v
	}); err != nil {
		return uc, err
	}

	if err := optionalStringFromMap(asMap, "partitioning", func(v string) error {
		parsed, err := ParsePartitioning(v)
		if err != nil {
			return err
		}
		uc.Partitioning = parsed
		return nil
	}); err != nil {
		return uc, err
	}

	return uc, nil
}

func optionalIntFromMap(in map[string]interface{}, name string,
	setFn func(v int),
) error {
	value, ok := in[name]
	if !ok {
		return nil
	}

	var asInt64 int64
	var err error

	// depending on whether we get the results from disk or from the REST
	// API, numbers have different types
	switch typed := value.(type) {
	case json.Number:
		asInt64, err = typed.Int64()
	case int:
		asInt64 = int64(typed)
	case float64:
		asInt64 = int64(typed)
	default:
		err = errors.Errorf("unrecognized type %T", value)
	}
	if err != nil {
		return errors.Wrapf(err, "%s", name)
	}

	setFn(int(asInt64))
	return nil
}

func optionalFloatFromMap(in map[string]interface{}, name string,
	setFn func(v float64),
) error {
	value, ok := in[name]
	if !ok {
		return nil
	}

	var asFloat64 float64
	var err error

	switch typed := value.(type) {
	case json.Number:
		asFloat64, err = typed.Float64()
	case int:
		asFloat64 = float64(typed)
	case float64:
		asFloat64 = typed
	default:
		err = errors.Errorf("unrecognized type %T", value)
	}
	if err != nil {
		return errors.Wrapf(err, "%s", name)
	}

	setFn(asFloat64)
	return nil
}

func optionalBoolFromMap(in map[string]interface{}, name string,
	setFn func(v bool),
) error {
	value, ok := in[name]
	if !ok {
		return nil
	}

	asBool, ok := value.(bool)
	if !ok {
		return errors.Errorf("%s must be a bool, got %T", name, value)
	}

	setFn(asBool)
	return nil
}

func optionalStringFromMap(in map[string]interface{}, name string,
	setFn func(v string) error,
) error {
	value, ok := in[name]
	if !ok {
		return nil
	}

	asString, ok := value.(string)
	if !ok {
		return errors.Errorf("%s must be a string, got %T", name, value)
	}

	return setFn(asString)
}

// Config carries everything a run needs that is not user-settable: the
// topology, the value schema and the user callbacks, plus the usual
// observability collaborators.
type Config struct {
	ID      string
	Graph   graph.Graph
	Schema  PregelSchema
	Init    InitFunc
	Compute ComputeFunc
	Reducer Reducer

	Logger            logrus.FieldLogger
	PrometheusMetrics *monitoring.PrometheusMetrics
	Progress          ProgressTracker
}

func (c Config) Validate() error {
	ec := &errorcompounder.ErrorCompounder{}

	if c.Graph == nil {
		ec.Addf("graph cannot be nil")
	}

	if c.Compute == nil {
		ec.Addf("compute function cannot be nil")
	}

	if len(c.Schema.elements) == 0 {
		ec.Addf("schema cannot be empty")
	}

	return ec.ToError()
}
