package services

import (
	"context"
	"log/slog"
	"pair-chat/domain"
	"pair-chat/observability"
	"pair-chat/repositories"
)

type IConversationService interface {
	FindOrCreate(ctx context.Context, a, b string) domain.Result[domain.Failure, domain.ConversationRef]
}

// ConversationService resolves the single conversation of an unordered pair.
// It holds no lock around lookup-then-create: a concurrent duplicate is rejected by the
// repository and surfaces here as a failure.
type ConversationService struct {
	repository repositories.IConversationRepository
	log        *slog.Logger
	metrics    *observability.Metrics
}

func NewConversationService(repository repositories.IConversationRepository,
	log *slog.Logger, metrics *observability.Metrics) *ConversationService {
	return &ConversationService{repository: repository, log: log, metrics: metrics}
}

func (s *ConversationService) FindOrCreate(ctx context.Context, a, b string) domain.Result[domain.Failure, domain.ConversationRef] {
	existing, err := s.repository.FindByParticipants(ctx, a, b)
	if err != nil {
		return s.fail(err, a, b)
	}
	if existing != nil {
		return domain.Succeed[domain.Failure](domain.ConversationRef{ID: existing.ID})
	}

	created, err := s.repository.Create(ctx, a, b)
	if err != nil {
		return s.fail(err, a, b)
	}
	s.metrics.ConversationsCreated.Inc()
	s.log.Debug("Conversation created", "id", created.ID, "user1", a, "user2", b)
	return domain.Succeed[domain.Failure](domain.ConversationRef{ID: created.ID})
}

func (s *ConversationService) fail(err error, a, b string) domain.Result[domain.Failure, domain.ConversationRef] {
	s.log.Error("Unable to find or create conversation", "user1", a, "user2", b, "error", err)
	s.metrics.Failure("find_or_create")
	return domain.Fail[domain.Failure, domain.ConversationRef](domain.NewFailure(domain.MsgFindOrCreateChat))
}
