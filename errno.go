package parodus

import (
	"errors"
	"syscall"
)

// isEINVAL reports whether err unwraps to EINVAL, used by socket.go to
// classify a connect failure as CodeInitCfg rather than CodeInitConnect.
func isEINVAL(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL
	}
	return false
}
