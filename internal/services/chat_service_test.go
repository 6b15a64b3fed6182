package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/argus-soc/internal/models"
)

type fakeAssetService struct {
	assets []models.Asset
	err    error
}

func (f *fakeAssetService) GetAssetsForClient(clientID string) ([]models.Asset, error) {
	return f.assets, f.err
}
func (f *fakeAssetService) GetAssetByID(id string) (models.Asset, error) { return models.Asset{}, nil }
func (f *fakeAssetService) CreateAsset(asset models.Asset) (models.Asset, error) {
	return asset, nil
}
func (f *fakeAssetService) UpdateAsset(id string, asset models.Asset) (models.Asset, error) {
	return asset, nil
}
func (f *fakeAssetService) DeleteAsset(id string) error { return nil }

type fakeEventService struct {
	events []models.Event
	err    error
}

func (f *fakeEventService) GetEventsForClient(clientID string, limit int) ([]models.Event, error) {
	return f.events, f.err
}
func (f *fakeEventService) GetEventsInWindow(clientID string, window models.ReportWindow) ([]models.Event, error) {
	return f.events, f.err
}
func (f *fakeEventService) GetEventByID(id string) (models.Event, error) { return models.Event{}, nil }
func (f *fakeEventService) CreateEvent(event models.Event) (models.Event, error) {
	return event, nil
}
func (f *fakeEventService) UpdateEventClassification(id, label, status, comments string) (models.Event, error) {
	return models.Event{}, nil
}
func (f *fakeEventService) DeleteEvent(id string) error { return nil }

type failingGenerator struct {
	calls int
}

func (g *failingGenerator) Complete(ctx context.Context, systemContext string, history []models.ChatMessage, userMessage string) (string, error) {
	g.calls++
	return "", errors.New("upstream unavailable")
}

type cannedGenerator struct {
	reply      string
	gotHistory int
	gotMessage string
	gotSysCtx  string
}

func (g *cannedGenerator) Complete(ctx context.Context, systemContext string, history []models.ChatMessage, userMessage string) (string, error) {
	g.gotHistory = len(history)
	g.gotMessage = userMessage
	g.gotSysCtx = systemContext
	return g.reply, nil
}

func chatFixtures() (*fakeAssetService, *fakeEventService) {
	assets := &fakeAssetService{assets: []models.Asset{
		{ID: "a1", Name: "web-01", Status: models.AssetStatusOnline},
		{ID: "a2", Name: "db-01", Status: models.AssetStatusOnline},
	}}
	events := &fakeEventService{events: []models.Event{
		{ID: "e1", AlertName: "Beaconing", Severity: models.SeverityCritical},
		{ID: "e2", AlertName: "Port scan", Severity: models.SeverityMedium},
	}}
	return assets, events
}

func TestSendMessageRemoteReply(t *testing.T) {
	assets, events := chatFixtures()
	gen := &cannedGenerator{reply: "Posture looks stable."}
	svc := NewChatService(assets, events, gen)

	msg, err := svc.SendMessage(context.Background(), "c1", "default", "how are things?")
	require.NoError(t, err)

	assert.Equal(t, models.ChatRoleAssistant, msg.Role)
	assert.Equal(t, "Posture looks stable.", msg.Content)
	require.NotNil(t, msg.Context)
	assert.Equal(t, 2, msg.Context.EventCount)
	assert.Equal(t, 2, msg.Context.AssetCount)
	assert.Equal(t, "how are things?", gen.gotMessage)
	assert.Contains(t, gen.gotSysCtx, "2 security events")
}

func TestSendMessageFallsBackOnGeneratorError(t *testing.T) {
	assets, events := chatFixtures()
	gen := &failingGenerator{}
	svc := NewChatService(assets, events, gen)

	msg, err := svc.SendMessage(context.Background(), "c1", "default", "any alerts?")
	require.NoError(t, err, "a remote failure must never surface to the caller")
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, msg.Content, "2 security events")
}

func TestSendMessageWithoutGenerator(t *testing.T) {
	assets, events := chatFixtures()
	svc := NewChatService(assets, events, nil)

	msg, err := svc.SendMessage(context.Background(), "c1", "default", "hello")
	require.NoError(t, err)
	assert.Contains(t, msg.Content, "I can help")
}

func TestSendMessageStoreFailure(t *testing.T) {
	assets := &fakeAssetService{}
	events := &fakeEventService{err: errors.New("disk error")}
	svc := NewChatService(assets, events, nil)

	_, err := svc.SendMessage(context.Background(), "c1", "default", "hello")
	require.Error(t, err)
	assert.Empty(t, svc.GetConversation("c1", "default"))
}

func TestConversationGrowsAndIsIsolated(t *testing.T) {
	assets, events := chatFixtures()
	svc := NewChatService(assets, events, nil)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "c1", "default", "first")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, "c1", "default", "second")
	require.NoError(t, err)

	msgs := svc.GetConversation("c1", "default")
	require.Len(t, msgs, 4)
	assert.Equal(t, models.ChatRoleUser, msgs[0].Role)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, models.ChatRoleAssistant, msgs[1].Role)
	assert.Equal(t, "second", msgs[2].Content)

	// Other tenants and conversations see nothing
	assert.Empty(t, svc.GetConversation("c2", "default"))
	assert.Empty(t, svc.GetConversation("c1", "other"))
}

func TestSendMessagePassesHistoryToGenerator(t *testing.T) {
	assets, events := chatFixtures()
	gen := &cannedGenerator{reply: "ok"}
	svc := NewChatService(assets, events, gen)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "c1", "default", "first")
	require.NoError(t, err)
	assert.Equal(t, 0, gen.gotHistory)

	_, err = svc.SendMessage(ctx, "c1", "default", "second")
	require.NoError(t, err)
	// Prior user turn plus assistant reply
	assert.Equal(t, 2, gen.gotHistory)
}
