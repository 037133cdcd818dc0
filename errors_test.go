package parodus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStringIncludesDetail(t *testing.T) {
	e := newError(CodeSendSocket, "dial tcp: refused", nil)
	assert.Contains(t, e.Error(), "send: socket send error")
	assert.Contains(t, e.Error(), "dial tcp: refused")
}

func TestErrorStringWithoutDetail(t *testing.T) {
	e := newError(CodeRcvState, "", nil)
	assert.Equal(t, "parodus: receive: instance not running", e.Error())
}

func TestErrorUnwrap(t *testing.T) {
	osErr := errors.New("connection reset")
	e := newError(CodeSendSocket, "send failed", osErr)
	assert.ErrorIs(t, e, osErr)
}

func TestCodeStringUnknown(t *testing.T) {
	assert.Equal(t, "parodus: unknown error", Code(9999).String())
}
