package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"pair-chat/domain"
	"pair-chat/errors"
	"pair-chat/repositories"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	_ repositories.IConversationRepository = (*ConversationRepository)(nil)
	_ repositories.IMessageRepository      = (*MessageRepository)(nil)
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func TestConversationRepository_Pair_Is_Unordered_And_Unique(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewConversationRepository(openTestDB(t), slog.Default())

	found, err := repo.FindByParticipants(ctx, "u1", "u2")
	req.NoError(err)
	req.Nil(found)

	created, err := repo.Create(ctx, "u1", "u2")
	req.NoError(err)

	for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
		found, err = repo.FindByParticipants(ctx, pair[0], pair[1])
		req.NoError(err)
		req.Equal(created, *found)
	}

	_, err = repo.Create(ctx, "u2", "u1")
	req.ErrorIs(err, errors.ErrConversationAlreadyExists)
}

func TestConversationRepository_Concurrent_Create_Keeps_One(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewConversationRepository(openTestDB(t), slog.Default())

	var wg sync.WaitGroup
	var mu sync.Mutex
	var created int
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := "u1", "u2"
			if i%2 == 1 {
				a, b = b, a
			}
			if _, err := repo.Create(ctx, a, b); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	req.Equal(1, created)
	listed, err := repo.ListByParticipant(ctx, "u2")
	req.NoError(err)
	req.Len(listed, 1)
}

func TestConversationRepository_List_And_Get(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewConversationRepository(openTestDB(t), slog.Default())
	repo.now = tickingClock(time.Now())

	first, err := repo.Create(ctx, "alice", "bob")
	req.NoError(err)
	second, err := repo.Create(ctx, "clara", "alice")
	req.NoError(err)

	listed, err := repo.ListByParticipant(ctx, "alice")
	req.NoError(err)
	req.Equal([]domain.Conversation{second, first}, listed)

	got, err := repo.GetByID(ctx, first.ID)
	req.NoError(err)
	req.Equal(first, *got)

	missing, err := repo.GetByID(ctx, "nope")
	req.NoError(err)
	req.Nil(missing)
}

func TestMessageRepository_Pagination(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openTestDB(t)
	conversation, err := NewConversationRepository(db, slog.Default()).Create(ctx, "u1", "u2")
	req.NoError(err)

	limit := 4
	repo := NewMessageRepository(db, slog.Default(), &limit)
	repo.now = tickingClock(time.Now())
	for i := 1; i <= 10; i++ {
		_, err = repo.CreateMessage(ctx, domain.NewMessage{
			ConversationID: conversation.ID,
			SenderID:       fmt.Sprintf("user_%d", i),
			Content:        fmt.Sprintf("Message %d", i),
		})
		req.NoError(err)
	}

	msgs1, cursor1, err := repo.GetMessages(ctx, conversation.ID, nil)
	req.NoError(err)
	req.Len(msgs1, 4)
	req.Equal("user_10", msgs1[0].SenderID)

	msgs2, cursor2, err := repo.GetMessages(ctx, conversation.ID, cursor1)
	req.NoError(err)
	req.Len(msgs2, 4)
	req.Equal("user_6", msgs2[0].SenderID)

	msgs3, cursor3, err := repo.GetMessages(ctx, conversation.ID, cursor2)
	req.NoError(err)
	req.Len(msgs3, 2)
	req.Equal("user_1", msgs3[1].SenderID)

	msgs4, cursor4, err := repo.GetMessages(ctx, conversation.ID, cursor3)
	req.NoError(err)
	req.Empty(msgs4)
	req.Nil(cursor4)

	_, _, err = repo.GetMessages(ctx, conversation.ID, &[]string{"garbage"}[0])
	req.ErrorIs(err, errors.ErrInvalidCursor)
}

func TestMessageRepository_Requires_Existing_Conversation(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	_, err := repo.CreateMessage(context.Background(), domain.NewMessage{
		ConversationID: "missing", SenderID: "u1", Content: "hi",
	})
	req.Error(err)
}

func TestUserRepository(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	id, err := repo.CreateUser(repositories.NewUser{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"})
	req.NoError(err)

	user, err := repo.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(id, user.ID)
	req.Equal("Alice", user.Name)
	req.Equal([]string{"user"}, user.Roles)

	_, err = repo.CreateUser(repositories.NewUser{Email: "alice@example.com", PasswordHash: "hash"})
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	_, err = repo.GetUserByEmail("nobody@example.com")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestIsUniqueViolation_Uses_Sqlite_Error_Codes(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openTestDB(t)

	insert := `INSERT INTO conversations (id, user1_id, user2_id, created_at) VALUES (?, ?, ?, 0)`
	_, err := db.ExecContext(ctx, insert, "c1", "u1", "u2")
	req.NoError(err)

	_, err = db.ExecContext(ctx, insert, "c1", "u3", "u4")
	req.True(isUniqueViolation(err), "duplicate primary key")

	_, err = db.ExecContext(ctx, insert, "c2", "u2", "u1")
	req.True(isUniqueViolation(fmt.Errorf("create conversation: %w", err)), "duplicate pair, wrapped")

	_, err = db.ExecContext(ctx, `INSERT INTO messages (id, conversation_id, sender_id, content, created_at) VALUES ('m1', 'missing', 'u1', '', 0)`)
	req.Error(err)
	req.False(isUniqueViolation(err), "foreign key failure")

	req.False(isUniqueViolation(fmt.Errorf("UNIQUE constraint failed: users.email")))
	req.False(isUniqueViolation(nil))
}
