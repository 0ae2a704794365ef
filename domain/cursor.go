package domain

import (
	"fmt"
	"pair-chat/errors"
	"strconv"
	"strings"
	"time"
)

const cursorClockDigits = 19

// FormatCursor encodes the position of a message in a newest-first page as
// "{created_nano:019d}:{message_id}". The zero padding keeps cursors sortable as strings.
func FormatCursor(createdAt time.Time, messageID string) string {
	return fmt.Sprintf("%0*d:%s", cursorClockDigits, createdAt.UnixNano(), messageID)
}

// ParseCursor splits a cursor built by FormatCursor.
// Anything else wraps errors.ErrInvalidCursor.
func ParseCursor(cursor string) (int64, string, error) {
	clock, id, ok := strings.Cut(cursor, ":")
	if !ok || len(clock) != cursorClockDigits || id == "" {
		return 0, "", fmt.Errorf("%w: %q", errors.ErrInvalidCursor, cursor)
	}
	nanos, err := strconv.ParseInt(clock, 10, 64)
	if err != nil || nanos < 0 {
		return 0, "", fmt.Errorf("%w: %q", errors.ErrInvalidCursor, cursor)
	}
	return nanos, id, nil
}
