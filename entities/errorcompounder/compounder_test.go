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

package errorcompounder

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCompounder(t *testing.T) {
	t.Run("empty compounder yields nil", func(t *testing.T) {
		ec := &ErrorCompounder{}
		assert.True(t, ec.Empty())
		assert.Nil(t, ec.ToError())
		assert.Nil(t, ec.First())
	})

	t.Run("nil errors are ignored", func(t *testing.T) {
		ec := &ErrorCompounder{}
		ec.Add(nil)
		ec.AddWrap(nil, "ignored")
		assert.True(t, ec.Empty())
	})

	t.Run("multiple errors are joined", func(t *testing.T) {
		ec := &ErrorCompounder{}
		ec.Add(errors.New("first"))
		ec.Addf("second with %d", 42)

		require.Equal(t, 2, ec.Len())
		assert.Equal(t, "first", ec.First().Error())
		assert.Equal(t, "first, second with 42", ec.ToError().Error())
	})
}
