package parodus

import "github.com/google/uuid"

// MessageType identifies the variant carried by a Message, matching the
// message-bus wire taxonomy.
type MessageType byte

const (
	MsgRequest MessageType = iota
	MsgEvent
	MsgCreate
	MsgRetrieve
	MsgUpdate
	MsgDelete
	MsgServiceRegistration
	MsgAuthorization
	MsgServiceKeepalive
)

func (t MessageType) String() string {
	switch t {
	case MsgRequest:
		return "REQUEST"
	case MsgEvent:
		return "EVENT"
	case MsgCreate:
		return "CREATE"
	case MsgRetrieve:
		return "RETRIEVE"
	case MsgUpdate:
		return "UPDATE"
	case MsgDelete:
		return "DELETE"
	case MsgServiceRegistration:
		return "SERVICE_REGISTRATION"
	case MsgAuthorization:
		return "AUTHORIZATION"
	case MsgServiceKeepalive:
		return "SERVICE_KEEPALIVE"
	default:
		return "UNKNOWN"
	}
}

// Message is the single concrete shape backing every wire message variant.
// Fields are only meaningful for the variants that define them; see
// hasDest and the ServiceName/URL comment below.
type Message struct {
	Type            MessageType
	Dest            string // REQUEST, EVENT, CREATE, RETRIEVE, UPDATE, DELETE
	Source          string
	TransactionUUID string
	ServiceName     string // SERVICE_REGISTRATION only
	URL             string // SERVICE_REGISTRATION only
	Payload         []byte
}

// hasDest reports whether this message's variant carries a routable Dest.
func (m *Message) hasDest() bool {
	switch m.Type {
	case MsgRequest, MsgEvent, MsgCreate, MsgRetrieve, MsgUpdate, MsgDelete:
		return true
	default:
		return false
	}
}

// closeSentinelDest is the literal marker used on the close-sentinel
// Message's Dest/Source/TransactionUUID/Payload fields. The queue no
// longer identifies the close sentinel by comparing against this string
// (see queueItem.closed); it is kept only so that the Message CloseReceiver
// places in its queue item is self-describing. Receive does not hand that
// Message to the caller: it reports RecvResult.Closed with a nil Message.
const closeSentinelDest = "---CLOSED---\n"

// newCloseSentinelMessage builds the in-memory REQUEST used to unblock a
// consumer loop.
func newCloseSentinelMessage() *Message {
	return &Message{
		Type:            MsgRequest,
		Dest:            closeSentinelDest,
		Source:          closeSentinelDest,
		TransactionUUID: closeSentinelDest,
		Payload:         []byte(closeSentinelDest),
	}
}

// newRegistrationMessage builds the SERVICE_REGISTRATION frame sent at Init
// and after every successful reconnect.
func newRegistrationMessage(serviceName, clientURL string) *Message {
	return &Message{
		Type:        MsgServiceRegistration,
		ServiceName: serviceName,
		URL:         clientURL,
	}
}

// newTransactionUUID is used for application-originated REQUEST/EVENT/CRUD
// messages that don't already carry one; it is never applied to the close
// sentinel or to registration frames, which have no transaction semantics.
func newTransactionUUID() string {
	return uuid.NewString()
}

// queueItem is the bounded queue's element type. The close sentinel is an
// explicit variant of the queue item rather than a Message identified by
// pointer- or value-equality of its Dest field.
type queueItem struct {
	msg    *Message
	closed bool
}
