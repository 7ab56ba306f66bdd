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

type ValueType int

const (
	ValueTypeLong ValueType = iota
	ValueTypeDouble
	ValueTypeLongArray
	ValueTypeDoubleArray
)

func (vt ValueType) String() string {
	switch vt {
	case ValueTypeLong:
		return "long"
	case ValueTypeDouble:
		return "double"
	case ValueTypeLongArray:
		return "long[]"
	case ValueTypeDoubleArray:
		return "double[]"
	default:
		return "unknown"
	}
}

// Visibility controls whether an element is eligible for materialization
// back into external storage (public) or is scratch space (private).
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
)

func (v Visibility) String() string {
	if v == VisibilityPrivate {
		return "private"
	}
	return "public"
}

// DefaultValue is the typed initial value of a schema element.
type DefaultValue struct {
	valueType ValueType
	long      int64
	double    float64
	longs     []int64
	doubles   []float64
}

func LongDefault(v int64) DefaultValue {
	return DefaultValue{valueType: ValueTypeLong, long: v}
}

func DoubleDefault(v float64) DefaultValue {
	return DefaultValue{valueType: ValueTypeDouble, double: v}
}

func LongArrayDefault(v []int64) DefaultValue {
	return DefaultValue{valueType: ValueTypeLongArray, longs: v}
}

func DoubleArrayDefault(v []float64) DefaultValue {
	return DefaultValue{valueType: ValueTypeDoubleArray, doubles: v}
}

// zeroDefault is used for elements registered without an explicit default.
func zeroDefault(vt ValueType) DefaultValue {
	return DefaultValue{valueType: vt}
}

// Element declares one named, typed per-node slot.
type Element struct {
	PropertyKey  string
	PropertyType ValueType
	DefaultValue DefaultValue
	Visibility   Visibility
}

// PregelSchema is the immutable set of per-node slots a computation works
// with. Built once via SchemaBuilder, never mutated after the run starts.
type PregelSchema struct {
	elements []Element
}

func (s PregelSchema) Elements() []Element {
	out := make([]Element, len(s.elements))
	copy(out, s.elements)
	return out
}

func (s PregelSchema) Element(key string) (Element, bool) {
	for _, el := range s.elements {
		if el.PropertyKey == key {
			return el, true
		}
	}
	return Element{}, false
}

type SchemaBuilder struct {
	elements []Element
	err      error
}

func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{}
}

// AddPublic registers a public element defaulting to the zero value of its
// type.
func (b *SchemaBuilder) AddPublic(key string, valueType ValueType) *SchemaBuilder {
	return b.add(Element{
		PropertyKey:  key,
		PropertyType: valueType,
		DefaultValue: zeroDefault(valueType),
		Visibility:   VisibilityPublic,
	})
}

// AddWithDefault registers an element whose type is taken from the default
// value.
func (b *SchemaBuilder) AddWithDefault(key string, defaultValue DefaultValue,
	visibility Visibility,
) *SchemaBuilder {
	return b.add(Element{
		PropertyKey:  key,
		PropertyType: defaultValue.valueType,
		DefaultValue: defaultValue,
		Visibility:   visibility,
	})
}

func (b *SchemaBuilder) add(el Element) *SchemaBuilder {
	if el.PropertyKey == "" {
		b.setErr(errors.New("schema element key cannot be empty"))
		return b
	}

	for _, existing := range b.elements {
		if existing.PropertyKey == el.PropertyKey {
			b.setErr(errors.Errorf("duplicate schema element %q", el.PropertyKey))
			return b
		}
	}

	b.elements = append(b.elements, el)
	return b
}

func (b *SchemaBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *SchemaBuilder) Build() (PregelSchema, error) {
	if b.err != nil {
		return PregelSchema{}, b.err
	}

	if len(b.elements) == 0 {
		return PregelSchema{}, errors.New("schema must declare at least one element")
	}

	elements := make([]Element, len(b.elements))
	copy(elements, b.elements)
	return PregelSchema{elements: elements}, nil
}
