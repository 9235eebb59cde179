package capture

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkBufferIsConcatOfLogs(t *testing.T) {
	s := NewSink()
	_, _ = s.WriteString("Step 1\n")
	_, _ = fmt.Fprintf(s, "Step %d\n", 2)
	_, _ = s.Write([]byte(""))
	assert.NoError(t, s.Flush())

	buf, logs := s.Snapshot()
	assert.Equal(t, []string{"Step 1\n", "Step 2\n", ""}, logs)
	assert.Equal(t, strings.Join(logs, ""), buf)
}

func TestSinkSnapshotIsACopy(t *testing.T) {
	s := NewSink()
	_, _ = s.WriteString("a")
	_, logs := s.Snapshot()
	logs[0] = "mutated"
	assert.Equal(t, []string{"a"}, s.Logs())
}

func TestSinkConcurrentWrites(t *testing.T) {
	s := NewSink()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = s.WriteString("x")
				buf, logs := s.Snapshot()
				if buf != strings.Join(logs, "") {
					t.Errorf("buffer diverged from logs")
					return
				}
			}
		}()
	}
	wg.Wait()

	buf, logs := s.Snapshot()
	assert.Len(t, logs, 800)
	assert.Equal(t, strings.Repeat("x", 800), buf)
}
