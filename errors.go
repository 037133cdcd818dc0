package parodus

import "errors"

// Code is the stable, public error taxonomy returned by the lifecycle API.
// Callers may switch on Code; they must not branch on ExtraErrInfo, which is
// diagnostic-only.
type Code int

const (
	// CodeOK is returned by operations that need a zero value for "no error".
	CodeOK Code = iota

	CodeInitInst
	CodeInitCfg
	CodeInitConnect
	CodeInitQueue
	CodeInitRcvThread
	CodeInitRegister

	CodeRcvNullInst
	CodeRcvState
	CodeRcvCfg
	CodeRcvRcv
	CodeRcvThrLimit

	CodeCloseRcvNullInst
	CodeCloseRcvState
	CodeCloseRcvCfg
	CodeCloseRcvTimedOut
	CodeCloseRcvSend
	CodeCloseRcvThrLimit

	CodeSendNullInst
	CodeSendState
	CodeSendWrpMsg
	CodeSendSocket
	CodeSendThrLimit
)

var codeStrings = map[Code]string{
	CodeOK:               "parodus: success",
	CodeInitInst:         "parodus: init: could not create instance",
	CodeInitCfg:          "parodus: init: invalid config parameter",
	CodeInitConnect:      "parodus: init: could not connect",
	CodeInitQueue:        "parodus: init: could not create receive queue",
	CodeInitRcvThread:    "parodus: init: could not start receiver worker",
	CodeInitRegister:     "parodus: init: registration failed",
	CodeRcvNullInst:      "parodus: receive: null instance",
	CodeRcvState:         "parodus: receive: instance not running",
	CodeRcvCfg:           "parodus: receive: not configured for receive",
	CodeRcvRcv:           "parodus: receive: error receiving from queue",
	CodeRcvThrLimit:      "parodus: receive: thread limit exceeded",
	CodeCloseRcvNullInst: "parodus: close_receiver: null instance",
	CodeCloseRcvState:    "parodus: close_receiver: instance not running",
	CodeCloseRcvCfg:      "parodus: close_receiver: not configured for receive",
	CodeCloseRcvTimedOut: "parodus: close_receiver: timed out enqueueing close marker",
	CodeCloseRcvSend:     "parodus: close_receiver: unable to enqueue close marker",
	CodeCloseRcvThrLimit: "parodus: close_receiver: thread limit exceeded",
	CodeSendNullInst:     "parodus: send: null instance",
	CodeSendState:        "parodus: send: instance not running",
	CodeSendWrpMsg:       "parodus: send: invalid message",
	CodeSendSocket:       "parodus: send: socket send error",
	CodeSendThrLimit:     "parodus: send: thread limit exceeded",
}

// String implements fmt.Stringer, and is the Go analogue of the C API's
// strerror(code) -> human string.
func (c Code) String() string {
	if s, ok := codeStrings[c]; ok {
		return s
	}
	return "parodus: unknown error"
}

// ExtraErrInfo is the diagnostic side-channel: the sub-error of the failing
// layer plus the preserved OS error, if any. Callers log these; they must
// not branch on them.
type ExtraErrInfo struct {
	ErrDetail string
	OSErr     error
}

// Error bundles a stable Code with its diagnostic ExtraErrInfo. It implements
// error and Unwrap so callers can still errors.Is/errors.As against the
// wrapped OS error when present.
type Error struct {
	Code  Code
	Extra ExtraErrInfo
}

func (e *Error) Error() string {
	if e.Extra.ErrDetail == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Extra.ErrDetail
}

func (e *Error) Unwrap() error {
	return e.Extra.OSErr
}

func newError(code Code, detail string, oserr error) *Error {
	return &Error{Code: code, Extra: ExtraErrInfo{ErrDetail: detail, OSErr: oserr}}
}

// Socket façade error categories.
var (
	ErrSockNullURL = errors.New("parodus: socket: nil url")
	ErrSockCreate  = errors.New("parodus: socket: create failed")
	ErrSockSetOpt  = errors.New("parodus: socket: setopt failed")
	ErrSockBind    = errors.New("parodus: socket: bind failed")
	ErrSockConnect = errors.New("parodus: socket: connect failed")
	ErrSockSend    = errors.New("parodus: socket: send failed")
	ErrSockByteCnt = errors.New("parodus: socket: short write")
	ErrSockRecv    = errors.New("parodus: socket: recv failed")
)

// ErrTimedOut is returned by the Socket façade, the bounded queue, and the
// Receive API to signal a timeout, distinct from all other failures.
var ErrTimedOut = errors.New("parodus: timed out")

// ErrClosed is the error value for an operation on a closed queue. The
// bounded queue in queue.go does not return it: destroy only drains the
// queue, and send and receive keep working afterwards.
var ErrClosed = errors.New("parodus: queue closed")

// errEmptyMessage is returned by a Codec when asked to encode a nil message
// or decode a zero-length buffer; Send maps it to CodeSendWrpMsg.
var errEmptyMessage = errors.New("parodus: empty message")
