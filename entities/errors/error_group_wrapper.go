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

package errors

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrorGroupWrapper is a custom type that embeds errgroup.Group and adds
// panic recovery to every task, turning a panic into a regular error.
type ErrorGroupWrapper struct {
	*errgroup.Group

	returnLock  sync.Mutex
	returnError error

	logger logrus.FieldLogger
}

// NewErrorGroupWrapper creates a new ErrorGroupWrapper.
func NewErrorGroupWrapper(logger logrus.FieldLogger) *ErrorGroupWrapper {
	return &ErrorGroupWrapper{
		Group:  new(errgroup.Group),
		logger: logger,
	}
}

// Go overrides the Go method to add panic recovery logic.
func (egw *ErrorGroupWrapper) Go(f func() error) {
	egw.Group.Go(egw.recovered(f))
}

// TryGo overrides TryGo so that saturation-aware callers can fall back to
// running f on the current goroutine. The returned bool has errgroup
// semantics: false means the task was not started.
func (egw *ErrorGroupWrapper) TryGo(f func() error) bool {
	return egw.Group.TryGo(egw.recovered(f))
}

// Wait waits for all goroutines to finish and returns the first non-nil
// error, including errors converted from panics.
func (egw *ErrorGroupWrapper) Wait() error {
	if err := egw.Group.Wait(); err != nil {
		return err
	}

	egw.returnLock.Lock()
	defer egw.returnLock.Unlock()
	return egw.returnError
}

func (egw *ErrorGroupWrapper) recovered(f func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				egw.logger.Errorf("Recovered from panic: %v", r)
				debug.PrintStack()

				egw.returnLock.Lock()
				egw.returnError = fmt.Errorf("panic occurred: %v", r)
				egw.returnLock.Unlock()
			}
		}()
		return f()
	}
}
