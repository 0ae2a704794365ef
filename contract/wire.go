package contract

import (
	"fmt"
	"pair-chat/domain"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers follow the order of the struct fields, except RegisterRequest
// whose name came last so older clients keep working.

// wireMessage is implemented by every request and response of the pairchat services.
type wireMessage interface {
	marshalWire() []byte
	unmarshalWire(b []byte) error
}

const (
	messageFieldID protowire.Number = iota + 1
	messageFieldConversationID
	messageFieldSenderID
	messageFieldContent
	messageFieldLang
	messageFieldCreatedAt
)

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// appendOptionalString writes set values even when empty, so nil and "" stay distinct.
func appendOptionalString(b []byte, num protowire.Number, s *string) []byte {
	if s == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *s)
}

func appendMessage(b []byte, num protowire.Number, m domain.Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, marshalMessage(m))
}

func marshalMessage(m domain.Message) []byte {
	var b []byte
	b = appendString(b, messageFieldID, m.ID)
	b = appendString(b, messageFieldConversationID, m.ConversationID)
	b = appendString(b, messageFieldSenderID, m.SenderID)
	b = appendString(b, messageFieldContent, m.Content)
	b = appendString(b, messageFieldLang, m.Lang)
	if !m.CreatedAt.IsZero() {
		b = protowire.AppendTag(b, messageFieldCreatedAt, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.CreatedAt.UnixNano()))
	}
	return b
}

func unmarshalMessage(b []byte) (domain.Message, error) {
	var m domain.Message
	err := readFields(b, func(num protowire.Number, typ protowire.Type, v []byte, n uint64) {
		switch num {
		case messageFieldID:
			m.ID = string(v)
		case messageFieldConversationID:
			m.ConversationID = string(v)
		case messageFieldSenderID:
			m.SenderID = string(v)
		case messageFieldContent:
			m.Content = string(v)
		case messageFieldLang:
			m.Lang = string(v)
		case messageFieldCreatedAt:
			if typ == protowire.VarintType {
				m.CreatedAt = time.Unix(0, int64(n)).UTC()
			}
		}
	})
	return m, err
}

// readFields walks b and hands every varint and bytes field to visit.
// Other wire types are skipped.
func readFields(b []byte, visit func(num protowire.Number, typ protowire.Type, bytes []byte, varint uint64)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("contract: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			if n >= 0 {
				visit(num, typ, nil, v)
			}
		case protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				visit(num, typ, v, 0)
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("contract: %w", protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

func (r *PostMessageRequest) marshalWire() []byte {
	var b []byte
	b = appendString(b, 1, r.ReceiverID)
	return appendString(b, 2, r.Content)
}

func (r *PostMessageRequest) unmarshalWire(b []byte) error {
	return readFields(b, func(num protowire.Number, _ protowire.Type, v []byte, _ uint64) {
		switch num {
		case 1:
			r.ReceiverID = string(v)
		case 2:
			r.Content = string(v)
		}
	})
}

func (r *PostMessageResponse) marshalWire() []byte {
	return appendMessage(nil, 1, r.Message)
}

func (r *PostMessageResponse) unmarshalWire(b []byte) error {
	var nested error
	err := readFields(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) {
		if num == 1 && typ == protowire.BytesType {
			r.Message, nested = unmarshalMessage(v)
		}
	})
	if err != nil {
		return err
	}
	return nested
}

func (r *FindOrCreateConversationRequest) marshalWire() []byte {
	return appendString(nil, 1, r.ParticipantID)
}

func (r *FindOrCreateConversationRequest) unmarshalWire(b []byte) error {
	return readFields(b, func(num protowire.Number, _ protowire.Type, v []byte, _ uint64) {
		if num == 1 {
			r.ParticipantID = string(v)
		}
	})
}

func (r *FindOrCreateConversationResponse) marshalWire() []byte {
	return appendString(nil, 1, r.ConversationID)
}

func (r *FindOrCreateConversationResponse) unmarshalWire(b []byte) error {
	return readFields(b, func(num protowire.Number, _ protowire.Type, v []byte, _ uint64) {
		if num == 1 {
			r.ConversationID = string(v)
		}
	})
}

func (r *GetMessagesRequest) marshalWire() []byte {
	b := appendString(nil, 1, r.ConversationID)
	return appendOptionalString(b, 2, r.Cursor)
}

func (r *GetMessagesRequest) unmarshalWire(b []byte) error {
	return readFields(b, func(num protowire.Number, _ protowire.Type, v []byte, _ uint64) {
		switch num {
		case 1:
			r.ConversationID = string(v)
		case 2:
			cursor := string(v)
			r.Cursor = &cursor
		}
	})
}

func (r *GetMessagesResponse) marshalWire() []byte {
	var b []byte
	for _, m := range r.Messages {
		b = appendMessage(b, 1, m)
	}
	return appendOptionalString(b, 2, r.Cursor)
}

func (r *GetMessagesResponse) unmarshalWire(b []byte) error {
	var nested error
	err := readFields(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m, err := unmarshalMessage(v)
			if err != nil && nested == nil {
				nested = err
			}
			r.Messages = append(r.Messages, m)
		case num == 2:
			cursor := string(v)
			r.Cursor = &cursor
		}
	})
	if err != nil {
		return err
	}
	return nested
}

func (r *RegisterRequest) marshalWire() []byte {
	var b []byte
	b = appendString(b, 1, r.Email)
	b = appendString(b, 2, r.Password)
	return appendString(b, 3, r.Name)
}

func (r *RegisterRequest) unmarshalWire(b []byte) error {
	return readFields(b, func(num protowire.Number, _ protowire.Type, v []byte, _ uint64) {
		switch num {
		case 1:
			r.Email = string(v)
		case 2:
			r.Password = string(v)
		case 3:
			r.Name = string(v)
		}
	})
}

func (r *LoginRequest) marshalWire() []byte {
	b := appendString(nil, 1, r.Email)
	return appendString(b, 2, r.Password)
}

func (r *LoginRequest) unmarshalWire(b []byte) error {
	return readFields(b, func(num protowire.Number, _ protowire.Type, v []byte, _ uint64) {
		switch num {
		case 1:
			r.Email = string(v)
		case 2:
			r.Password = string(v)
		}
	})
}

func (r *AuthResponse) marshalWire() []byte {
	b := appendString(nil, 1, r.Token)
	return appendString(b, 2, r.UserID)
}

func (r *AuthResponse) unmarshalWire(b []byte) error {
	return readFields(b, func(num protowire.Number, _ protowire.Type, v []byte, _ uint64) {
		switch num {
		case 1:
			r.Token = string(v)
		case 2:
			r.UserID = string(v)
		}
	})
}
