package ioutils

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type writeCloserMock struct {
	data           []byte
	writeCallCount int
	writeCallFunc  func(callCount int) error
	closeCallCount int
	closeCallFunc  func(callCount int) error
}

func (w *writeCloserMock) Write(p []byte) (n int, err error) {
	w.writeCallCount++
	if w.writeCallFunc != nil {
		return 0, w.writeCallFunc(w.writeCallCount)
	}
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *writeCloserMock) Close() error {
	w.closeCallCount++
	if w.closeCallFunc != nil {
		return w.closeCallFunc(w.closeCallCount)
	}
	return nil
}

func TestGzipWriterRoundTrip(t *testing.T) {
	underlying := &writeCloserMock{}
	gw := NewGzipWriter(underlying, false)

	_, err := gw.Write([]byte("Group,Name,Value\nPG_TEXT,URL,x\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	gz, err := gzip.NewReader(bytes.NewReader(underlying.data))
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	require.Equal(t, "Group,Name,Value\nPG_TEXT,URL,x\n", string(data))
	require.Equal(t, 1, underlying.closeCallCount)
}

func TestGzipWriterCloseError(t *testing.T) {
	underlying := &writeCloserMock{
		closeCallFunc: func(callCount int) error {
			return errors.New("close failed")
		},
	}
	gw := NewGzipWriter(underlying, false)
	err := gw.Close()
	require.ErrorContains(t, err, "error closing report file")
}

func TestGzipReaderRoundTrip(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	gz := gzip.NewWriter(buf)
	_, err := gz.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	gr, err := NewGzipReader(io.NopCloser(buf), false)
	require.NoError(t, err)
	data, err := io.ReadAll(gr)
	require.NoError(t, err)
	require.NoError(t, gr.Close())
	require.Equal(t, "payload", string(data))
}
