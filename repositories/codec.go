package repositories

import (
	"fmt"
	"pair-chat/domain"
	"pair-chat/errors"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Badger values are protobuf-encoded by hand with protowire: every record is a flat
// list of string and varint fields, so `protoc --decode_raw` can read them.

const (
	conversationFieldID protowire.Number = iota + 1
	conversationFieldUser1
	conversationFieldUser2
	conversationFieldCreatedAt
)

const (
	messageFieldID protowire.Number = iota + 1
	messageFieldConversation
	messageFieldSender
	messageFieldContent
	messageFieldLang
	messageFieldCreatedAt
)

const (
	userFieldID protowire.Number = iota + 1
	userFieldEmail
	userFieldPasswordHash
	userFieldRole
	userFieldCreatedAt
	userFieldName
)

type field struct {
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

func (f field) string() string {
	return string(f.bytes)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(t.UnixNano()))
}

// readFields walks a record and hands every field to visit. Unknown wire types are skipped.
func readFields(b []byte, visit func(num protowire.Number, f field)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", errors.ErrCorruptedRecord, protowire.ParseError(n))
		}
		b = b[n:]

		f := field{typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("%w: %v", errors.ErrCorruptedRecord, protowire.ParseError(n))
		}
		b = b[n:]
		visit(num, f)
	}
	return nil
}

func marshalConversation(c domain.Conversation) []byte {
	var b []byte
	b = appendString(b, conversationFieldID, c.ID)
	b = appendString(b, conversationFieldUser1, c.User1ID)
	b = appendString(b, conversationFieldUser2, c.User2ID)
	return appendTime(b, conversationFieldCreatedAt, c.CreatedAt)
}

func unmarshalConversation(b []byte) (domain.Conversation, error) {
	var c domain.Conversation
	err := readFields(b, func(num protowire.Number, f field) {
		switch num {
		case conversationFieldID:
			c.ID = f.string()
		case conversationFieldUser1:
			c.User1ID = f.string()
		case conversationFieldUser2:
			c.User2ID = f.string()
		case conversationFieldCreatedAt:
			c.CreatedAt = time.Unix(0, int64(f.varint)).UTC()
		}
	})
	return c, err
}

func marshalMessage(m domain.Message) []byte {
	var b []byte
	b = appendString(b, messageFieldID, m.ID)
	b = appendString(b, messageFieldConversation, m.ConversationID)
	b = appendString(b, messageFieldSender, m.SenderID)
	b = appendString(b, messageFieldContent, m.Content)
	b = appendString(b, messageFieldLang, m.Lang)
	return appendTime(b, messageFieldCreatedAt, m.CreatedAt)
}

func unmarshalMessage(b []byte) (domain.Message, error) {
	var m domain.Message
	err := readFields(b, func(num protowire.Number, f field) {
		switch num {
		case messageFieldID:
			m.ID = f.string()
		case messageFieldConversation:
			m.ConversationID = f.string()
		case messageFieldSender:
			m.SenderID = f.string()
		case messageFieldContent:
			m.Content = f.string()
		case messageFieldLang:
			m.Lang = f.string()
		case messageFieldCreatedAt:
			m.CreatedAt = time.Unix(0, int64(f.varint)).UTC()
		}
	})
	return m, err
}

func marshalUser(u User) []byte {
	var b []byte
	b = appendString(b, userFieldID, u.ID)
	b = appendString(b, userFieldEmail, u.Email)
	b = appendString(b, userFieldName, u.Name)
	b = appendString(b, userFieldPasswordHash, u.PasswordHash)
	for _, role := range u.Roles {
		b = appendString(b, userFieldRole, role)
	}
	return appendTime(b, userFieldCreatedAt, u.CreatedAt)
}

func unmarshalUser(b []byte) (User, error) {
	var u User
	err := readFields(b, func(num protowire.Number, f field) {
		switch num {
		case userFieldID:
			u.ID = f.string()
		case userFieldEmail:
			u.Email = f.string()
		case userFieldName:
			u.Name = f.string()
		case userFieldPasswordHash:
			u.PasswordHash = f.string()
		case userFieldRole:
			u.Roles = append(u.Roles, f.string())
		case userFieldCreatedAt:
			u.CreatedAt = time.Unix(0, int64(f.varint)).UTC()
		}
	})
	return u, err
}
