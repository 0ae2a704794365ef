package e2e

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type testConversationSuite struct {
	BaseGrpcSuite
}

func TestConversationSuite(t *testing.T) {
	suite.Run(t, &testConversationSuite{})
}

func (s *testConversationSuite) TestTwoUsersShareOneConversation() {
	alice := s.NewClient(s.T(), "alice")
	bob := s.NewClient(s.T(), "bob")
	run := uuid.NewString()[:8]
	var aliceID, bobID, conversationID string

	s.Run("Step 1: Register both users", func() {
		s.WithTimeout(func(ctx context.Context) {
			var err error
			aliceID, err = alice.Register(ctx, "Alice", fmt.Sprintf("alice-%s@example.com", run), "ComplexPass123!")
			s.Require().NoError(err)
			bobID, err = bob.Register(ctx, "Bob", fmt.Sprintf("bob-%s@example.com", run), "ComplexPass123!")
			s.Require().NoError(err)
		})
	})

	s.Run("Step 2: Writing to oneself is refused", func() {
		s.WithTimeout(func(ctx context.Context) {
			_, err := alice.PostMessage(ctx, aliceID, "hi me")
			s.Require().Equal(codes.InvalidArgument, status.Code(err))
		})
	})

	s.Run("Step 3: Alice then Bob write", func() {
		s.WithTimeout(func(ctx context.Context) {
			first, err := alice.PostMessage(ctx, bobID, "hi")
			s.Require().NoError(err)
			second, err := bob.PostMessage(ctx, aliceID, "yo")
			s.Require().NoError(err)
			s.Require().Equal(first.ConversationID, second.ConversationID)
			conversationID = first.ConversationID
		})
	})

	s.Run("Step 4: Both messages are in the conversation", func() {
		s.WithTimeout(func(ctx context.Context) {
			page, err := bob.GetMessages(ctx, conversationID, nil)
			s.Require().NoError(err)
			s.Require().Len(page.Messages, 2)
			s.Require().Equal("yo", page.Messages[0].Content)
		})
	})
}
