package writerbackends

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type remoteFile struct {
	bytes.Buffer
	writeErr error
	closeErr error
	closed   bool
}

func (f *remoteFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return f.Buffer.Write(p)
}

func (f *remoteFile) Close() error {
	f.closed = true
	return f.closeErr
}

func TestWriteRemote(t *testing.T) {
	f := &remoteFile{}
	require.NoError(t, writeRemote(f, []byte("original-bytes")))
	assert.Equal(t, "original-bytes", f.String())
	assert.True(t, f.closed)
}

func TestWriteRemoteCloseErrorFailsUpload(t *testing.T) {
	flush := errors.New("sftp: failure on final write")
	f := &remoteFile{closeErr: flush}

	err := writeRemote(f, []byte("original-bytes"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, flush))
}

func TestWriteRemoteWriteErrorStillCloses(t *testing.T) {
	f := &remoteFile{writeErr: errors.New("connection lost")}
	assert.Error(t, writeRemote(f, []byte("x")))
	assert.True(t, f.closed)
}
