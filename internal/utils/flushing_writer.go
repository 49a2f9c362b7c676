package utils

import (
	"io"
	"sync"
)

// FlushingWriter serializes writes from concurrent workers and flushes buffered destinations after each write.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writer. A nil writer yields io.Discard and an already wrapped writer is returned as is.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return io.Discard
	}
	if _, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return writer
	}
	return &FlushingWriter{writer: writer}
}

// Write forwards one complete chunk under the lock so lines from different workers never interleave.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if flusher, canFlush := flushingWriter.writer.(interface{ Flush() error }); canFlush {
		return bytesWritten, flusher.Flush()
	}
	return bytesWritten, nil
}
