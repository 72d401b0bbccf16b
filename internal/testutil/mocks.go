package testutil

import (
	"context"

	"tunelink/internal/models"
	"tunelink/internal/services"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockLinkRepository is a mock implementation of LinkRepository for testing
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link, platforms map[string]string) error {
	args := m.Called(ctx, link, platforms)
	return args.Error(0)
}

func (m *MockLinkRepository) FindBySlug(ctx context.Context, slug string) (*models.Link, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkRepository) FindByID(ctx context.Context, id string) (*models.Link, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Link, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Link), args.Error(1)
}

func (m *MockLinkRepository) Update(ctx context.Context, id, ownerID, title, artist, slug string) (*models.Link, error) {
	args := m.Called(ctx, id, ownerID, title, artist, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkRepository) Delete(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

// MockClickRepository is a mock implementation of ClickRepository for testing
type MockClickRepository struct {
	mock.Mock
}

func (m *MockClickRepository) Insert(ctx context.Context, event *models.ClickEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockClickRepository) FindByLink(ctx context.Context, linkID primitive.ObjectID) ([]*models.ClickEvent, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ClickEvent), args.Error(1)
}

func (m *MockClickRepository) FindRecent(ctx context.Context, linkID primitive.ObjectID, limit int) ([]*models.ClickEvent, error) {
	args := m.Called(ctx, linkID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ClickEvent), args.Error(1)
}

func (m *MockClickRepository) DeleteByLink(ctx context.Context, linkID primitive.ObjectID) error {
	args := m.Called(ctx, linkID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockPlatformService is a mock implementation of PlatformService for testing
type MockPlatformService struct {
	mock.Mock
	platformName string
}

func NewMockPlatformService(platformName string) *MockPlatformService {
	return &MockPlatformService{
		platformName: platformName,
	}
}

func (m *MockPlatformService) GetPlatformName() string {
	return m.platformName
}

func (m *MockPlatformService) ParseURL(url string) (string, error) {
	args := m.Called(url)
	return args.String(0), args.Error(1)
}

func (m *MockPlatformService) GetTrackByID(ctx context.Context, trackID string) (*services.TrackInfo, error) {
	args := m.Called(ctx, trackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TrackInfo), args.Error(1)
}

func (m *MockPlatformService) SearchTrack(ctx context.Context, artist, title string) (*services.TrackInfo, error) {
	args := m.Called(ctx, artist, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TrackInfo), args.Error(1)
}

func (m *MockPlatformService) BuildURL(trackID string) string {
	args := m.Called(trackID)
	return args.String(0)
}

func (m *MockPlatformService) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
