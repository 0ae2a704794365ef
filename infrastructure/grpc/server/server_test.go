package server

import (
	"context"
	"log/slog"
	"net"
	"pair-chat/auth"
	"pair-chat/client"
	"pair-chat/infrastructure/search"
	"pair-chat/observability"
	"pair-chat/repositories"
	"pair-chat/services"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type testServer struct {
	listener *bufconn.Listener
	metrics  *observability.Metrics
}

func startTestServer(t *testing.T) testServer {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	log := slog.Default()
	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	conversationRepository := repositories.NewConversationRepository(db, log)
	conversations := services.NewConversationService(conversationRepository, log, metrics)

	s := New(Dependencies{
		Chat: services.NewChatService(conversations, conversationRepository,
			repositories.NewMessageRepository(db, log, nil), search.NewMessageIndex(writer, log),
			services.ContentPolicy{}, log, metrics),
		Conversations: conversations,
		Auth:          services.NewAuthService(repositories.NewUserRepository(db), tokens, log),
		Tokens:        tokens,
		Metrics:       metrics,
		Log:           log,
	})

	listener := bufconn.Listen(1024 * 1024)
	go func() { _ = s.Serve(listener) }()
	t.Cleanup(s.Stop)
	return testServer{listener: listener, metrics: metrics}
}

func (s testServer) client(t *testing.T) *client.Client {
	t.Helper()
	c, err := client.New("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestChatServer_PostMessage_Round_Trip(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := startTestServer(t)
	alice, bob := s.client(t), s.client(t)

	aliceID, err := alice.Register(ctx, "Alice", "alice@example.com", "ComplexPass123!")
	req.NoError(err)
	req.NotEmpty(aliceID)
	bobID, err := bob.Register(ctx, "Bob", "bob@example.com", "ComplexPass123!")
	req.NoError(err)

	first, err := alice.PostMessage(ctx, bobID, "hi")
	req.NoError(err)
	req.Equal("hi", first.Content)
	req.Equal(aliceID, first.SenderID)

	second, err := bob.PostMessage(ctx, aliceID, "yo")
	req.NoError(err)
	req.Equal(first.ConversationID, second.ConversationID)

	conversationID, err := bob.FindOrCreateConversation(ctx, aliceID)
	req.NoError(err)
	req.Equal(first.ConversationID, conversationID)

	page, err := alice.GetMessages(ctx, conversationID, nil)
	req.NoError(err)
	req.Len(page.Messages, 2)
	req.Equal("yo", page.Messages[0].Content)

	req.Equal(float64(2), testutil.ToFloat64(
		s.metrics.Requests.WithLabelValues("grpc", "/pairchat.v1.ChatService/PostMessage", "OK")))
}

func TestChatServer_Self_Conversation_Is_Invalid(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	c := startTestServer(t).client(t)

	userID, err := c.Register(ctx, "Alice", "alice@example.com", "ComplexPass123!")
	req.NoError(err)

	_, err = c.PostMessage(ctx, userID, "hi")
	req.Equal(codes.InvalidArgument, status.Code(err))
	req.Equal("Sender id is equal to receiver id", status.Convert(err).Message())

	_, err = c.FindOrCreateConversation(ctx, userID)
	req.Equal(codes.InvalidArgument, status.Code(err))
}

func TestChatServer_PostMessage_Accepts_Empty_Content(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := startTestServer(t)
	alice, bob := s.client(t), s.client(t)

	_, err := alice.Register(ctx, "Alice", "alice@example.com", "ComplexPass123!")
	req.NoError(err)
	bobID, err := bob.Register(ctx, "Bob", "bob@example.com", "ComplexPass123!")
	req.NoError(err)

	msg, err := alice.PostMessage(ctx, bobID, "")
	req.NoError(err)
	req.NotEmpty(msg.ID)
	req.Empty(msg.Content)

	garbage := "garbage"
	_, err = alice.GetMessages(ctx, msg.ConversationID, &garbage)
	req.Equal(codes.InvalidArgument, status.Code(err))
	req.Equal("Invalid cursor", status.Convert(err).Message())
}

func TestChatServer_Requires_A_Token(t *testing.T) {
	req := require.New(t)
	c := startTestServer(t).client(t)

	_, err := c.PostMessage(context.Background(), "u2", "hi")
	req.Equal(codes.Unauthenticated, status.Code(err))

	c.SetSession("garbage", "u1")
	_, err = c.GetMessages(context.Background(), "conv", nil)
	req.Equal(codes.Unauthenticated, status.Code(err))
}

func TestAuthServer_Errors(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	c := startTestServer(t).client(t)

	_, err := c.Register(ctx, "Alice", "alice@example.com", "weak")
	req.Equal(codes.InvalidArgument, status.Code(err))

	_, err = c.Register(ctx, "Alice", "alice@example.com", "ComplexPass123!")
	req.NoError(err)
	_, err = c.Register(ctx, "Alice", "alice@example.com", "ComplexPass123!")
	req.Equal(codes.AlreadyExists, status.Code(err))

	_, err = c.Login(ctx, "alice@example.com", "WrongPass123!")
	req.Equal(codes.Unauthenticated, status.Code(err))

	userID, err := c.Login(ctx, "alice@example.com", "ComplexPass123!")
	req.NoError(err)
	req.Equal(c.UserID(), userID)
}
