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

import "github.com/pkg/errors"

var (
	// ErrPropertyNotFound is returned when an accessor names a key the
	// schema never declared.
	ErrPropertyNotFound = errors.New("property not found in schema")

	// ErrTypeMismatch is returned when an accessor's type disagrees with
	// the declared element type.
	ErrTypeMismatch = errors.New("property type mismatch")

	// ErrPrivateProperty is returned when a private element is iterated
	// for materialization.
	ErrPrivateProperty = errors.New("property is private")
)

// NodeValues backs every schema element with one dense, node-indexed array
// sized to the node count. The arrays are shared across all compute steps of
// a run; writers of the same superstep only ever touch disjoint node ids,
// which is the scheduler's invariant, not enforced here.
type NodeValues struct {
	schema     PregelSchema
	nodeCount  uint64
	properties map[string]*propertyValues
}

type propertyValues struct {
	element Element

	longs        []int64
	doubles      []float64
	longArrays   [][]int64
	doubleArrays [][]float64
}

// NewNodeValues allocates and defaults one array per schema element. The
// node count is fixed for the whole run, there is no resize.
func NewNodeValues(schema PregelSchema, nodeCount uint64) *NodeValues {
	nv := &NodeValues{
		schema:     schema,
		nodeCount:  nodeCount,
		properties: make(map[string]*propertyValues, len(schema.elements)),
	}

	for _, el := range schema.elements {
		nv.properties[el.PropertyKey] = newPropertyValues(el, nodeCount)
	}

	return nv
}

func newPropertyValues(el Element, nodeCount uint64) *propertyValues {
	pv := &propertyValues{element: el}

	switch el.PropertyType {
	case ValueTypeLong:
		pv.longs = make([]int64, nodeCount)
		if def := el.DefaultValue.long; def != 0 {
			for i := range pv.longs {
				pv.longs[i] = def
			}
		}
	case ValueTypeDouble:
		pv.doubles = make([]float64, nodeCount)
		if def := el.DefaultValue.double; def != 0 {
			for i := range pv.doubles {
				pv.doubles[i] = def
			}
		}
	case ValueTypeLongArray:
		pv.longArrays = make([][]int64, nodeCount)
		if def := el.DefaultValue.longs; def != nil {
			for i := range pv.longArrays {
				pv.longArrays[i] = def
			}
		}
	case ValueTypeDoubleArray:
		pv.doubleArrays = make([][]float64, nodeCount)
		if def := el.DefaultValue.doubles; def != nil {
			for i := range pv.doubleArrays {
				pv.doubleArrays[i] = def
			}
		}
	}

	return pv
}

func (nv *NodeValues) Schema() PregelSchema {
	return nv.schema
}

func (nv *NodeValues) NodeCount() uint64 {
	return nv.nodeCount
}

func (nv *NodeValues) property(key string, valueType ValueType) (*propertyValues, error) {
	pv, ok := nv.properties[key]
	if !ok {
		return nil, errors.Wrapf(ErrPropertyNotFound, "key %q", key)
	}

	if pv.element.PropertyType != valueType {
		return nil, errors.Wrapf(ErrTypeMismatch,
			"key %q is declared %s, accessed as %s",
			key, pv.element.PropertyType, valueType)
	}

	return pv, nil
}

func (nv *NodeValues) LongValue(key string, nodeID uint64) (int64, error) {
	pv, err := nv.property(key, ValueTypeLong)
	if err != nil {
		return 0, err
	}
	return pv.longs[nodeID], nil
}

func (nv *NodeValues) SetLongValue(key string, nodeID uint64, value int64) error {
	pv, err := nv.property(key, ValueTypeLong)
	if err != nil {
		return err
	}
	pv.longs[nodeID] = value
	return nil
}

func (nv *NodeValues) DoubleValue(key string, nodeID uint64) (float64, error) {
	pv, err := nv.property(key, ValueTypeDouble)
	if err != nil {
		return 0, err
	}
	return pv.doubles[nodeID], nil
}

func (nv *NodeValues) SetDoubleValue(key string, nodeID uint64, value float64) error {
	pv, err := nv.property(key, ValueTypeDouble)
	if err != nil {
		return err
	}
	pv.doubles[nodeID] = value
	return nil
}

func (nv *NodeValues) LongArrayValue(key string, nodeID uint64) ([]int64, error) {
	pv, err := nv.property(key, ValueTypeLongArray)
	if err != nil {
		return nil, err
	}
	return pv.longArrays[nodeID], nil
}

func (nv *NodeValues) SetLongArrayValue(key string, nodeID uint64, value []int64) error {
	pv, err := nv.property(key, ValueTypeLongArray)
	if err != nil {
		return err
	}
	pv.longArrays[nodeID] = value
	return nil
}

func (nv *NodeValues) DoubleArrayValue(key string, nodeID uint64) ([]float64, error) {
	pv, err := nv.property(key, ValueTypeDoubleArray)
	if err != nil {
		return nil, err
	}
	return pv.doubleArrays[nodeID], nil
}

func (nv *NodeValues) SetDoubleArrayValue(key string, nodeID uint64, value []float64) error {
	pv, err := nv.property(key, ValueTypeDoubleArray)
	if err != nil {
		return err
	}
	pv.doubleArrays[nodeID] = value
	return nil
}

// ForEachLongValue streams (nodeID, value) pairs of a public long element
// for materialization into external storage.
func (nv *NodeValues) ForEachLongValue(key string, fn func(nodeID uint64, value int64)) error {
	pv, err := nv.property(key, ValueTypeLong)
	if err != nil {
		return err
	}
	if pv.element.Visibility != VisibilityPublic {
		return errors.Wrapf(ErrPrivateProperty, "key %q", key)
	}

	for i, v := range pv.longs {
		fn(uint64(i), v)
	}
	return nil
}

// ForEachDoubleValue streams (nodeID, value) pairs of a public double
// element for materialization into external storage.
func (nv *NodeValues) ForEachDoubleValue(key string, fn func(nodeID uint64, value float64)) error {
	pv, err := nv.property(key, ValueTypeDouble)
	if err != nil {
		return err
	}
	if pv.element.Visibility != VisibilityPublic {
		return errors.Wrapf(ErrPrivateProperty, "key %q", key)
	}

	for i, v := range pv.doubles {
		fn(uint64(i), v)
	}
	return nil
}
