package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/llm"
	"github.com/nmoreau/argus-soc/internal/models"
)

// chatEventLimit is how many recent events are loaded as assistant context.
const chatEventLimit = 50

// ChatServiceProvider defines the interface for the assistant chat.
type ChatServiceProvider interface {
	SendMessage(ctx context.Context, clientID, conversationID, message string) (models.ChatMessage, error)
	GetConversation(clientID, conversationID string) []models.ChatMessage
}

// ChatService keeps session-local conversations and produces assistant
// replies, remotely when possible and via the local classifier otherwise.
type ChatService struct {
	assetSvc  AssetServiceProvider
	eventSvc  EventServiceProvider
	generator llm.Generator // nil when no remote backend is configured

	mu            sync.Mutex
	conversations map[string][]models.ChatMessage
}

// NewChatService creates a new ChatService. generator may be nil.
func NewChatService(assetSvc AssetServiceProvider, eventSvc EventServiceProvider, generator llm.Generator) *ChatService {
	return &ChatService{
		assetSvc:      assetSvc,
		eventSvc:      eventSvc,
		generator:     generator,
		conversations: make(map[string][]models.ChatMessage),
	}
}

// SendMessage appends the user turn, produces an assistant reply and appends
// it too. Remote generation failures are logged and replaced by the local
// fallback; they never surface as errors. A row-store failure does.
func (s *ChatService) SendMessage(ctx context.Context, clientID, conversationID, message string) (models.ChatMessage, error) {
	events, err := s.eventSvc.GetEventsForClient(clientID, chatEventLimit)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("failed to fetch events: %w", err)
	}
	assets, err := s.assetSvc.GetAssetsForClient(clientID)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("failed to fetch assets: %w", err)
	}

	key := clientID + "/" + conversationID
	userMsg := models.ChatMessage{
		ID:        uuid.New().String(),
		Role:      models.ChatRoleUser,
		Content:   message,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	history := make([]models.ChatMessage, len(s.conversations[key]))
	copy(history, s.conversations[key])
	s.conversations[key] = append(s.conversations[key], userMsg)
	s.mu.Unlock()

	reply := s.generateReply(ctx, message, history, events, assets)
	assistantMsg := models.ChatMessage{
		ID:      uuid.New().String(),
		Role:    models.ChatRoleAssistant,
		Content: reply,
		Context: &models.ChatContext{
			EventCount: len(events),
			AssetCount: len(assets),
		},
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.conversations[key] = append(s.conversations[key], assistantMsg)
	s.mu.Unlock()

	return assistantMsg, nil
}

// GetConversation returns a copy of the conversation's messages in order.
func (s *ChatService) GetConversation(clientID, conversationID string) []models.ChatMessage {
	key := clientID + "/" + conversationID
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]models.ChatMessage, len(s.conversations[key]))
	copy(msgs, s.conversations[key])
	return msgs
}

func (s *ChatService) generateReply(ctx context.Context, message string, history []models.ChatMessage, events []models.Event, assets []models.Asset) string {
	if s.generator == nil {
		return llm.Fallback(message, events, assets)
	}

	systemContext := llm.BuildContext(events, assets)
	reply, err := s.generator.Complete(ctx, systemContext, history, message)
	if err != nil {
		log.Warn().Err(err).Msg("Remote completion failed, using local fallback")
		return llm.Fallback(message, events, assets)
	}
	return reply
}
