package domain

import (
	"pair-chat/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCursor_Round_Trip(t *testing.T) {
	req := require.New(t)
	at := time.Unix(1700000000, 42)

	cursor := FormatCursor(at, "m-1")
	req.Equal("1700000000000000042:m-1", cursor)

	nanos, id, err := ParseCursor(cursor)
	req.NoError(err)
	req.Equal(at.UnixNano(), nanos)
	req.Equal("m-1", id)
}

func TestParseCursor_Rejects_Malformed_Input(t *testing.T) {
	for _, cursor := range []string{
		"",
		"garbage",
		"x",
		"123:m-1",
		"170000000000000004a:m-1",
		"1700000000000000042:",
		"-700000000000000042:m-1",
	} {
		t.Run(cursor, func(t *testing.T) {
			_, _, err := ParseCursor(cursor)
			require.ErrorIs(t, err, errors.ErrInvalidCursor)
		})
	}
}
