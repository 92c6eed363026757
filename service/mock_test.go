package service

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/chiedu/wayfarer/config"
	"github.com/chiedu/wayfarer/data"
	"github.com/chiedu/wayfarer/internal/jsonlog"
	"github.com/chiedu/wayfarer/repository"
)

// mockRepository is an in-memory stand-in for the Postgres repository. It
// mirrors the real layer's semantics where the service depends on them: one
// rating per rater and target, one review per booking, and the guarded
// completion update that spends the booking's review slot exactly once.
type mockRepository struct {
	mu          sync.Mutex
	ratings     map[string]int8
	ratingStats map[string]data.RatingStats
	reviews     map[int64]*data.Review
	completions map[string]*data.TourCompletion
	users       map[int64]*data.User
	nextID      int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		ratings:     make(map[string]int8),
		ratingStats: make(map[string]data.RatingStats),
		reviews:     make(map[int64]*data.Review),
		completions: make(map[string]*data.TourCompletion),
		users:       make(map[int64]*data.User),
	}
}

func newTestService(repo repository.Repository) *service {
	var wg sync.WaitGroup
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	return New(config.Config{}, &wg, logger, repo)
}

func ratingKey(kind data.TargetKind, targetID string, userID int64) string {
	return fmt.Sprintf("%s|%s|%d", kind, targetID, userID)
}

func statsKey(kind data.TargetKind, targetID string) string {
	return fmt.Sprintf("%s|%s", kind, targetID)
}

func (m *mockRepository) SubmitRating(kind data.TargetKind, targetID string, userID int64, score int8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var prior *int8
	if existing, ok := m.ratings[ratingKey(kind, targetID, userID)]; ok {
		prior = &existing
	}
	stats := m.ratingStats[statsKey(kind, targetID)]
	m.ratings[ratingKey(kind, targetID, userID)] = score
	m.ratingStats[statsKey(kind, targetID)] = stats.ApplyRating(prior, score)
	return nil
}

func (m *mockRepository) RemoveRating(kind data.TargetKind, targetID string, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	score, ok := m.ratings[ratingKey(kind, targetID, userID)]
	if !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.ratings, ratingKey(kind, targetID, userID))
	stats := m.ratingStats[statsKey(kind, targetID)]
	m.ratingStats[statsKey(kind, targetID)] = stats.RemoveRating(score)
	return nil
}

func (m *mockRepository) GetRatingStats(kind data.TargetKind, targetID string) (data.RatingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ratingStats[statsKey(kind, targetID)], nil
}

func (m *mockRepository) GetUserRating(kind data.TargetKind, targetID string, userID int64) (int8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ratings[ratingKey(kind, targetID, userID)], nil
}

func (m *mockRepository) CreateReview(review *data.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.BookingID == review.BookingID {
			return repository.ErrAlreadyReviewed
		}
	}
	completion, ok := m.completions[review.BookingID]
	if !ok || completion.ReviewID != nil {
		return repository.ErrAlreadyReviewed
	}
	if completion.Status != data.StatusGuideConfirmed && completion.Status != data.StatusReviewSent {
		return repository.ErrAlreadyReviewed
	}
	m.nextID++
	review.ID = m.nextID
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	review.Version = 1
	stored := *review
	m.reviews[review.ID] = &stored
	completion.Status = data.StatusReviewCompleted
	completion.ReviewID = &stored.ID
	completion.Version++
	return nil
}

func (m *mockRepository) GetReview(reviewID int64) (*data.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[reviewID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *review
	return &copied, nil
}

func (m *mockRepository) UpdateReview(review *data.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reviews[review.ID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	if existing.Version != review.Version {
		return repository.ErrEditConflict
	}
	review.Version++
	review.UpdatedAt = time.Now()
	stored := *review
	m.reviews[review.ID] = &stored
	return nil
}

func (m *mockRepository) DeleteReview(reviewID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[reviewID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.reviews, reviewID)
	return nil
}

func (m *mockRepository) ModerateReview(reviewID int64, visibility data.Visibility, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[reviewID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	review.Visibility = visibility
	review.Verified = verified
	review.Version++
	return nil
}

func (m *mockRepository) GetGuideReviewStats(guideID int64) (data.ReviewStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := data.ReviewStats{
		CategoryAverages: make(map[data.CategoryName]float64),
		LastUpdated:      time.Now(),
	}
	var sum float64
	for _, review := range m.reviews {
		if review.GuideID != guideID || review.Visibility != data.VisibilityApproved {
			continue
		}
		stats.TotalReviews++
		stats.AddToBreakdown(review.OverallScore)
		sum += float64(review.OverallScore)
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = sum / float64(stats.TotalReviews)
	}
	return stats, nil
}

func (m *mockRepository) GetTourReviews(tourID string, limit int) ([]*data.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reviews []*data.Review
	for _, review := range m.reviews {
		if review.TourID == tourID && review.Visibility == data.VisibilityApproved {
			copied := *review
			reviews = append(reviews, &copied)
		}
		if len(reviews) == limit {
			break
		}
	}
	return reviews, nil
}

func (m *mockRepository) GetAllTourReviews(tourID string, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	reviews, err := m.GetTourReviews(tourID, filters.Limit())
	if err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(len(reviews), filters.Page, filters.PageSize)
	return reviews, metadata, nil
}

func (m *mockRepository) CreateCompletion(completion *data.TourCompletion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.completions[completion.BookingID]; ok {
		return repository.ErrDuplicateRecord
	}
	completion.Version = 1
	stored := *completion
	m.completions[completion.BookingID] = &stored
	return nil
}

func (m *mockRepository) GetCompletion(bookingID string) (*data.TourCompletion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	completion, ok := m.completions[bookingID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *completion
	return &copied, nil
}

func (m *mockRepository) UpdateCompletion(completion *data.TourCompletion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.completions[completion.BookingID]
	if !ok {
		return repository.ErrEditConflict
	}
	if existing.Version != completion.Version {
		return repository.ErrEditConflict
	}
	completion.Version++
	stored := *completion
	m.completions[completion.BookingID] = &stored
	return nil
}

func (m *mockRepository) MarkReviewSent(bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	completion, ok := m.completions[bookingID]
	if ok && completion.Status == data.StatusGuideConfirmed {
		completion.Status = data.StatusReviewSent
		completion.Version++
	}
	return nil
}

func (m *mockRepository) RegisterUser(user *data.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateRecord
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.Version = 1
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockRepository) GetUserByID(ID int64) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[ID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepository) GetUserByEmail(email string) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (m *mockRepository) UpdateUser(user *data.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	if existing.Version != user.Version {
		return repository.ErrEditConflict
	}
	user.Version++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockRepository) GetUserForToken(tokenScope string, tokenPlaintext string) (*data.User, error) {
	return nil, repository.ErrRecordNotFound
}

func (m *mockRepository) CreateNewToken(userID int64, ttl time.Duration, scope string) (*data.Token, error) {
	return &data.Token{
		Plaintext: "MOCKTOKENMOCKTOKENMOCKTOKE",
		UserID:    userID,
		Expiry:    time.Now().Add(ttl),
		Scope:     scope,
	}, nil
}

func (m *mockRepository) DeleteAllTokensForUser(scope string, userID int64) error {
	return nil
}
