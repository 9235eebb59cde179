package shutdown

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeManager struct {
	started  int
	finished int
}

func (m *fakeManager) GetName() string            { return "fake" }
func (m *fakeManager) Start(gs GSInterface) error { return nil }
func (m *fakeManager) ShutdownStart() error       { m.started++; return nil }
func (m *fakeManager) ShutdownFinish() error      { m.finished++; return nil }

func TestStartShutdownRunsCallbacksOnceInOrder(t *testing.T) {
	gs := New()
	var order []int
	gs.AddShutdownCallback(Func(func(string) error { order = append(order, 1); return nil }))
	gs.AddShutdownCallback(Func(func(string) error { order = append(order, 2); return errors.New("close failed") }))
	gs.AddShutdownCallback(Func(func(name string) error {
		assert.Equal(t, "fake", name)
		order = append(order, 3)
		return nil
	}))

	var reported []error
	gs.SetErrorHandler(ErrorFunc(func(err error) { reported = append(reported, err) }))

	m := &fakeManager{}
	gs.StartShutdown(m)
	gs.StartShutdown(m)

	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 1, m.started)
	assert.Equal(t, 1, m.finished)
	assert.Len(t, reported, 1)
}
