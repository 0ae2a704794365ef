// Package client is a typed gRPC client for the pairchat services.
package client

import (
	"context"
	"fmt"
	"pair-chat/contract"
	"pair-chat/domain"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

type Client struct {
	conn *grpc.ClientConn
	chat contract.ChatServiceClient
	auth contract.AuthServiceClient

	mu     sync.RWMutex
	token  string
	userID string
}

// New connects to target. Without options the connection is plaintext.
func New(target string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not connect to server at %s: %w", target, err)
	}
	return &Client{
		conn: conn,
		chat: contract.NewChatServiceClient(conn),
		auth: contract.NewAuthServiceClient(conn),
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Register creates an account and keeps its token for the next calls.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	resp, err := c.auth.Register(ctx, &contract.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return "", err
	}
	c.SetSession(resp.Token, resp.UserID)
	return resp.UserID, nil
}

// Login opens a session and keeps its token for the next calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := c.auth.Login(ctx, &contract.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	c.SetSession(resp.Token, resp.UserID)
	return resp.UserID, nil
}

func (c *Client) SetSession(token, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token, c.userID = token, userID
}

func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Client) PostMessage(ctx context.Context, receiverID, content string) (domain.Message, error) {
	resp, err := c.chat.PostMessage(c.authorized(ctx), &contract.PostMessageRequest{ReceiverID: receiverID, Content: content})
	if err != nil {
		return domain.Message{}, err
	}
	return resp.Message, nil
}

func (c *Client) FindOrCreateConversation(ctx context.Context, participantID string) (string, error) {
	resp, err := c.chat.FindOrCreateConversation(c.authorized(ctx), &contract.FindOrCreateConversationRequest{ParticipantID: participantID})
	if err != nil {
		return "", err
	}
	return resp.ConversationID, nil
}

func (c *Client) GetMessages(ctx context.Context, conversationID string, cursor *string) (domain.MessagePage, error) {
	resp, err := c.chat.GetMessages(c.authorized(ctx), &contract.GetMessagesRequest{ConversationID: conversationID, Cursor: cursor})
	if err != nil {
		return domain.MessagePage{}, err
	}
	return domain.MessagePage{Messages: resp.Messages, Cursor: resp.Cursor}, nil
}

func (c *Client) authorized(ctx context.Context) context.Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
}
