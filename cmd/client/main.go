package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"pair-chat/client"
	"pair-chat/domain"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string        `env:"PAIRCHAT_GRPC_ADDR,default=localhost:9090"`
	Name          string        `env:"PAIRCHAT_NAME"`
	Email         string        `env:"PAIRCHAT_EMAIL,required=true"`
	Password      string        `env:"PAIRCHAT_PASSWORD,required=true"`
	ReceiverID    string        `env:"PAIRCHAT_RECEIVER_ID,required=true"`
	Timeout       time.Duration `env:"PAIRCHAT_TIMEOUT,default=10s"`
	LogLevel      string        `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run logs in (registering on first use), posts the command line as a
// message when one is given, then prints the latest page of the conversation.
func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	c, err := client.New(config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Debug("Closing connection...")
		_ = c.Close()
	}()

	userID, err := c.Login(ctx, config.Email, config.Password)
	if status.Code(err) == codes.Unauthenticated {
		log.Info("Unknown account, registering", "email", config.Email)
		userID, err = c.Register(ctx, config.Name, config.Email, config.Password)
	}
	if err != nil {
		return exitRuntime, fmt.Errorf("authentication failed: %w", err)
	}
	log.Info("Connected", "address", config.ServerAddress, "user_id", userID)

	conversationID, err := c.FindOrCreateConversation(ctx, config.ReceiverID)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open conversation: %w", err)
	}

	if content := strings.Join(os.Args[1:], " "); content != "" {
		if _, err := c.PostMessage(ctx, config.ReceiverID, content); err != nil {
			return exitRuntime, fmt.Errorf("failed to post message: %w", err)
		}
	}

	page, err := c.GetMessages(ctx, conversationID, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to read messages: %w", err)
	}
	printPage(userID, page)
	return exitOK, nil
}

// printPage shows the page oldest first, own messages in green.
func printPage(userID string, page domain.MessagePage) {
	messages := slices.Clone(page.Messages)
	slices.Reverse(messages)
	for _, msg := range messages {
		style := color.New(color.FgCyan)
		if msg.SenderID == userID {
			style = color.New(color.FgGreen)
		}
		fmt.Printf("[%s] %s: %s\n",
			msg.CreatedAt.Format(time.TimeOnly),
			style.Render(msg.SenderID),
			msg.Content)
	}
	if page.Cursor != nil {
		fmt.Println(color.New(color.FgGray).Render("... older messages available"))
	}
}
