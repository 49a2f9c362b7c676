package utils_test

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/utils"
)

type countingFlushBuffer struct {
	bytes.Buffer
	flushes int
}

func (buffer *countingFlushBuffer) Flush() error {
	buffer.flushes++
	return nil
}

func TestFlushingWriterSerializesWorkers(testInstance *testing.T) {
	destination := &countingFlushBuffer{}
	writer := utils.NewFlushingWriter(destination)

	var waitGroup sync.WaitGroup
	for workerIndex := 0; workerIndex < 8; workerIndex++ {
		waitGroup.Add(1)
		go func(index int) {
			defer waitGroup.Done()
			_, _ = fmt.Fprintf(writer, "worker %d done\n", index)
		}(workerIndex)
	}
	waitGroup.Wait()

	lines := strings.Split(strings.TrimSpace(destination.String()), "\n")
	require.Len(testInstance, lines, 8)
	for _, line := range lines {
		require.Regexp(testInstance, `^worker \d done$`, line)
	}
	require.Equal(testInstance, 8, destination.flushes)
}

func TestNewFlushingWriterEdgeCases(testInstance *testing.T) {
	require.Equal(testInstance, io.Discard, utils.NewFlushingWriter(nil))

	wrapped := utils.NewFlushingWriter(&bytes.Buffer{})
	require.Same(testInstance, wrapped, utils.NewFlushingWriter(wrapped))
}
