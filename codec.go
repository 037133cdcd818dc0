package parodus

import "encoding/json"

// Codec is the wire-codec collaborator: two functions, encode and decode,
// swapped in by the caller for whatever real wire format the broker
// speaks. The core never inspects a Codec's byte representation except
// for the END sentinel comparison in worker.go.
type Codec interface {
	Encode(msg *Message) ([]byte, error)
	Decode(data []byte) (*Message, error)
}

// JSONCodec is the one concrete Codec this repository ships, so the library
// is runnable and testable standalone. It is intentionally the simplest
// possible implementation; production callers are expected to supply a
// Codec for their broker's actual wire format.
type JSONCodec struct{}

type wireMessage struct {
	Type            MessageType `json:"type"`
	Dest            string      `json:"dest,omitempty"`
	Source          string      `json:"source,omitempty"`
	TransactionUUID string      `json:"transaction_uuid,omitempty"`
	ServiceName     string      `json:"service_name,omitempty"`
	URL             string      `json:"url,omitempty"`
	Payload         []byte      `json:"payload,omitempty"`
}

func (JSONCodec) Encode(msg *Message) ([]byte, error) {
	if msg == nil {
		return nil, errEmptyMessage
	}
	w := wireMessage{
		Type:            msg.Type,
		Dest:            msg.Dest,
		Source:          msg.Source,
		TransactionUUID: msg.TransactionUUID,
		ServiceName:     msg.ServiceName,
		URL:             msg.URL,
		Payload:         msg.Payload,
	}
	return json.Marshal(w)
}

func (JSONCodec) Decode(data []byte) (*Message, error) {
	if len(data) == 0 {
		return nil, errEmptyMessage
	}
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return &Message{
		Type:            w.Type,
		Dest:            w.Dest,
		Source:          w.Source,
		TransactionUUID: w.TransactionUUID,
		ServiceName:     w.ServiceName,
		URL:             w.URL,
		Payload:         w.Payload,
	}, nil
}
