package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"supportdesk/models"
)

var ErrNotFound = errors.New("not found")

// Store is the entity store consumed by the request handlers. Every method
// takes a context so a durable backend can replace the in-memory one.
type Store interface {
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	GetConversation(ctx context.Context, id string) (models.Conversation, error)
	CreateConversation(ctx context.Context, in models.NewConversation) (models.Conversation, error)
	UpdateConversation(ctx context.Context, id string, patch models.ConversationPatch) (models.Conversation, error)

	ListSessions(ctx context.Context, conversationID string) ([]models.Session, error)
	CreateSession(ctx context.Context, in models.NewSession) (models.Session, error)

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	CreateCustomer(ctx context.Context, in models.NewCustomer) (models.Customer, error)
}

// MemStore keeps all entities in maps guarded by a single RWMutex. Values are
// copied on the way in and out so callers never share state with the store.
type MemStore struct {
	mu sync.RWMutex

	conversations map[string]models.Conversation
	convOrder     []string
	sessions      map[string]models.Session
	sessionOrder  []string
	customers     map[string]models.Customer
	customerOrder []string

	now      func() time.Time
	newID    func() string
	skipSeed bool
}

type Option func(*MemStore)

// WithoutSeed skips loading the demo records.
func WithoutSeed() Option {
	return func(s *MemStore) { s.skipSeed = true }
}

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) { s.now = now }
}

// NewMemStore creates a store seeded with the demo records unless
// WithoutSeed is given.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		conversations: make(map[string]models.Conversation),
		sessions:      make(map[string]models.Session),
		customers:     make(map[string]models.Customer),
		now:           func() time.Time { return time.Now().UTC() },
		newID:         func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.skipSeed {
		// Seeding an empty in-memory store cannot fail.
		_ = s.Seed(context.Background())
	}
	return s
}

func (s *MemStore) ListConversations(_ context.Context) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Conversation, 0, len(s.convOrder))
	for _, id := range s.convOrder {
		items = append(items, s.conversations[id].Clone())
	}
	return items, nil
}

func (s *MemStore) GetConversation(_ context.Context, id string) (models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.conversations[id]
	if !ok {
		return models.Conversation{}, ErrNotFound
	}
	return item.Clone(), nil
}

// CreateConversation stores a new conversation with a generated id and
// creation time. Unset fields get their defaults.
func (s *MemStore) CreateConversation(_ context.Context, in models.NewConversation) (models.Conversation, error) {
	convo := models.Conversation{
		CustomerName: in.CustomerName,
		Status:       in.Status,
		Messages:     in.Messages,
		Sentiment:    in.Sentiment,
		Duration:     in.Duration,
	}
	if convo.Status == "" {
		convo.Status = models.StatusActive
	}
	if convo.Sentiment == "" {
		convo.Sentiment = models.SentimentNeutral
	}
	convo = convo.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	convo.ID = s.newID()
	convo.CreatedAt = s.now()
	s.putConversationLocked(convo)
	return convo.Clone(), nil
}

// UpdateConversation shallow-merges patch onto the stored record.
func (s *MemStore) UpdateConversation(_ context.Context, id string, patch models.ConversationPatch) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	convo, ok := s.conversations[id]
	if !ok {
		return models.Conversation{}, ErrNotFound
	}
	convo = patch.Apply(convo).Clone()
	s.conversations[id] = convo
	return convo.Clone(), nil
}

// ListSessions returns the sessions referencing conversationID. The
// conversation itself does not need to exist.
func (s *MemStore) ListSessions(_ context.Context, conversationID string) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []models.Session{}
	for _, id := range s.sessionOrder {
		if sess := s.sessions[id]; sess.ConversationID == conversationID {
			items = append(items, sess)
		}
	}
	return items, nil
}

func (s *MemStore) CreateSession(_ context.Context, in models.NewSession) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := models.Session{
		ID:             s.newID(),
		ConversationID: in.ConversationID,
		Transcription:  in.Transcription,
		AudioData:      in.AudioData,
		AIResponse:     in.AIResponse,
		Confidence:     in.Confidence,
		Latency:        in.Latency,
		CreatedAt:      s.now(),
	}
	s.sessions[sess.ID] = sess
	s.sessionOrder = append(s.sessionOrder, sess.ID)
	return sess, nil
}

func (s *MemStore) ListCustomers(_ context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Customer, 0, len(s.customerOrder))
	for _, id := range s.customerOrder {
		items = append(items, s.customers[id].Clone())
	}
	return items, nil
}

func (s *MemStore) GetCustomer(_ context.Context, id string) (models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.customers[id]
	if !ok {
		return models.Customer{}, ErrNotFound
	}
	return item.Clone(), nil
}

// CreateCustomer stores a customer, keeping in.ID when set. Customers carry
// no creation timestamp.
func (s *MemStore) CreateCustomer(_ context.Context, in models.NewCustomer) (models.Customer, error) {
	cust := models.Customer{
		ID:               in.ID,
		Name:             in.Name,
		Tier:             in.Tier,
		AccountAge:       in.AccountAge,
		LastContact:      in.LastContact,
		SentimentHistory: in.SentimentHistory,
		Language:         in.Language,
		PreviousIssues:   in.PreviousIssues,
	}
	if cust.Tier == "" {
		cust.Tier = models.TierStandard
	}
	if cust.SentimentHistory == "" {
		cust.SentimentHistory = string(models.SentimentPositive)
	}
	if cust.Language == "" {
		cust.Language = "English"
	}
	cust = cust.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if cust.ID == "" {
		cust.ID = s.newID()
	}
	if _, exists := s.customers[cust.ID]; !exists {
		s.customerOrder = append(s.customerOrder, cust.ID)
	}
	s.customers[cust.ID] = cust
	return cust.Clone(), nil
}

func (s *MemStore) putConversationLocked(convo models.Conversation) {
	if _, exists := s.conversations[convo.ID]; !exists {
		s.convOrder = append(s.convOrder, convo.ID)
	}
	s.conversations[convo.ID] = convo
}
