package repositories

import (
	"fmt"
	"strings"
	"time"
)

// Record is a readable view of one badger entry, used by the inspection tools.
type Record struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Detail    string
}

// DescribeRecord decodes a raw badger entry according to its key prefix.
// Index entries and undecodable values are described, never rejected.
func DescribeRecord(key string, val []byte) Record {
	rec := Record{Key: key, Type: "RAW", Timestamp: "--:--:--", EntityID: "--------",
		Detail: fmt.Sprintf("Size: %d bytes", len(val))}

	switch {
	case strings.HasPrefix(key, "conversation:"):
		rec.Type = "CONVERSATION"
		c, err := unmarshalConversation(val)
		if err != nil {
			rec.Detail = "Error: " + err.Error()
			return rec
		}
		rec.EntityID = shortID(c.ID)
		rec.Timestamp = clock(c.CreatedAt)
		rec.Detail = c.User1ID + " <-> " + c.User2ID
	case strings.HasPrefix(key, "msg:"):
		rec.Type = "MESSAGE"
		m, err := unmarshalMessage(val)
		if err != nil {
			rec.Detail = "Error: " + err.Error()
			return rec
		}
		rec.EntityID = shortID(m.ID)
		rec.Timestamp = clock(m.CreatedAt)
		rec.Detail = fmt.Sprintf("[%s] %s: %s", m.Lang, m.SenderID, m.Content)
	case strings.HasPrefix(key, "user:"):
		rec.Type = "USER"
		u, err := unmarshalUser(val)
		if err != nil {
			rec.Detail = "Error: " + err.Error()
			return rec
		}
		rec.EntityID = shortID(u.ID)
		rec.Timestamp = clock(u.CreatedAt)
		rec.Detail = u.Email + " " + strings.Join(u.Roles, ",")
		if u.Name != "" {
			rec.Detail = u.Name + " <" + u.Email + "> " + strings.Join(u.Roles, ",")
		}
	case strings.HasPrefix(key, "pair:"):
		rec.Type = "PAIR"
		rec.EntityID = shortID(string(val))
		rec.Detail = "-> " + string(val)
	case strings.HasPrefix(key, "member:"):
		rec.Type = "MEMBER"
		if i := strings.LastIndex(key, ":"); i >= 0 {
			rec.EntityID = shortID(key[i+1:])
		}
		rec.Detail = "index"
	}
	return rec
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clock(t time.Time) string {
	return t.Format("15:04:05")
}
