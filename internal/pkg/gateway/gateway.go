// Package gateway serializes every blocking call against the kernel
// input interfaces onto one worker goroutine. The joystick and event
// device handles are stateful and not safe for concurrent entry, so
// callers submit work here instead of touching the handles themselves.
package gateway

import "fmt"

type task struct {
	fn   func() error
	done chan error
}

// Gateway owns the single worker. At most one native call is in flight
// at any time across the whole process; submitting goroutines block
// until their task has run.
type Gateway struct {
	tasks chan task
}

// New starts the worker goroutine. The worker runs for the lifetime of
// the process, there is no shutdown: a task either completes or fails,
// in-flight native calls cannot be cancelled.
func New() *Gateway {
	g := &Gateway{tasks: make(chan task)}
	go g.run()
	return g
}

func (g *Gateway) run() {
	for t := range g.tasks {
		t.done <- invoke(t.fn)
	}
}

// invoke keeps a misbehaving task from taking the worker down with it.
func invoke(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("native call panicked: %v", r)
		}
	}()
	return fn()
}

// Do runs fn on the worker and blocks the caller until it has finished,
// returning whatever fn returned.
func (g *Gateway) Do(fn func() error) error {
	t := task{fn: fn, done: make(chan error, 1)}
	g.tasks <- t
	return <-t.done
}

// Call is Do for tasks that produce a value.
func Call[T any](g *Gateway, fn func() (T, error)) (T, error) {
	var out T
	err := g.Do(func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
