package service

import (
	"context"

	"chirper/internal/cache"
	"chirper/internal/model"
	"chirper/internal/queue"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on the repository INTERFACES, so tests swap in mocks with
// per-test behavior. Unset functions fall back to harmless defaults.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	updateFn           func(ctx context.Context, u *model.User) error
	getSuggestedFn     func(ctx context.Context, userID int64, limit int) ([]model.UserSummary, error)
	getSummariesFn     func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)

	createCalls []*model.User
	updateCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *model.User) error {
	m.updateCalls = append(m.updateCalls, u)
	if m.updateFn != nil {
		return m.updateFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) GetSuggested(ctx context.Context, userID int64, limit int) ([]model.UserSummary, error) {
	if m.getSuggestedFn != nil {
		return m.getSuggestedFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockUserRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	if m.getSummariesFn != nil {
		return m.getSummariesFn(ctx, ids)
	}
	summaries := make(map[int64]model.UserSummary, len(ids))
	for _, id := range ids {
		summaries[id] = model.UserSummary{ID: id}
	}
	return summaries, nil
}

type mockFollowRepository struct {
	existsFn          func(ctx context.Context, followerID, followeeID int64) (bool, error)
	followFn          func(ctx context.Context, followerID, followeeID int64) (bool, error)
	unfollowFn        func(ctx context.Context, followerID, followeeID int64) error
	getFollowerIDsFn  func(ctx context.Context, userID int64) ([]int64, error)
	getFollowingIDsFn func(ctx context.Context, userID int64) ([]int64, error)

	followCalls   int
	unfollowCalls int
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followeeID)
	}
	return false, nil
}

func (m *mockFollowRepository) Follow(ctx context.Context, followerID, followeeID int64) (bool, error) {
	m.followCalls++
	if m.followFn != nil {
		return m.followFn(ctx, followerID, followeeID)
	}
	return true, nil
}

func (m *mockFollowRepository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	m.unfollowCalls++
	if m.unfollowFn != nil {
		return m.unfollowFn(ctx, followerID, followeeID)
	}
	return nil
}

func (m *mockFollowRepository) GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.getFollowerIDsFn != nil {
		return m.getFollowerIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockFollowRepository) GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.getFollowingIDsFn != nil {
		return m.getFollowingIDsFn(ctx, userID)
	}
	return nil, nil
}

type mockPostRepository struct {
	createFn              func(ctx context.Context, post *model.Post) error
	getByIDFn             func(ctx context.Context, postID int64) (*model.Post, error)
	getByIDsFn            func(ctx context.Context, postIDs []int64) ([]model.Post, error)
	deleteFn              func(ctx context.Context, postID int64) error
	listAllFn             func(ctx context.Context) ([]model.Post, error)
	listByAuthorsFn       func(ctx context.Context, authorIDs []int64) ([]model.Post, error)
	listLikedByFn         func(ctx context.Context, userID int64) ([]model.Post, error)
	likeFn                func(ctx context.Context, postID, userID int64) (bool, error)
	unlikeFn              func(ctx context.Context, postID, userID int64) error
	isLikedFn             func(ctx context.Context, postID, userID int64) (bool, error)
	getLikerIDsFn         func(ctx context.Context, postID int64) ([]int64, error)
	getLikerIDsBatchFn    func(ctx context.Context, postIDs []int64) (map[int64][]int64, error)
	getLikedPostIDsFn     func(ctx context.Context, userID int64) ([]int64, error)
	getRecentPostScoresFn func(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error)

	deleteCalls []int64
	likeCalls   int
	unlikeCalls int
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	post.ID = 1
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, postIDs)
	}
	return nil, nil
}

func (m *mockPostRepository) Delete(ctx context.Context, postID int64) error {
	m.deleteCalls = append(m.deleteCalls, postID)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID)
	}
	return nil
}

func (m *mockPostRepository) ListAll(ctx context.Context) ([]model.Post, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockPostRepository) ListByAuthors(ctx context.Context, authorIDs []int64) ([]model.Post, error) {
	if m.listByAuthorsFn != nil {
		return m.listByAuthorsFn(ctx, authorIDs)
	}
	return nil, nil
}

func (m *mockPostRepository) ListLikedBy(ctx context.Context, userID int64) ([]model.Post, error) {
	if m.listLikedByFn != nil {
		return m.listLikedByFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockPostRepository) Like(ctx context.Context, postID, userID int64) (bool, error) {
	m.likeCalls++
	if m.likeFn != nil {
		return m.likeFn(ctx, postID, userID)
	}
	return true, nil
}

func (m *mockPostRepository) Unlike(ctx context.Context, postID, userID int64) error {
	m.unlikeCalls++
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockPostRepository) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	if m.isLikedFn != nil {
		return m.isLikedFn(ctx, postID, userID)
	}
	return false, nil
}

func (m *mockPostRepository) GetLikerIDs(ctx context.Context, postID int64) ([]int64, error) {
	if m.getLikerIDsFn != nil {
		return m.getLikerIDsFn(ctx, postID)
	}
	return nil, nil
}

func (m *mockPostRepository) GetLikerIDsBatch(ctx context.Context, postIDs []int64) (map[int64][]int64, error) {
	if m.getLikerIDsBatchFn != nil {
		return m.getLikerIDsBatchFn(ctx, postIDs)
	}
	return map[int64][]int64{}, nil
}

func (m *mockPostRepository) GetLikedPostIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.getLikedPostIDsFn != nil {
		return m.getLikedPostIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockPostRepository) GetRecentPostScores(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error) {
	if m.getRecentPostScoresFn != nil {
		return m.getRecentPostScoresFn(ctx, userID, limit)
	}
	return nil, nil
}

type mockCommentRepository struct {
	createFn        func(ctx context.Context, comment *model.Comment) error
	listByPostIDsFn func(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error)

	createCalls []*model.Comment
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	m.createCalls = append(m.createCalls, comment)
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	comment.ID = 1
	return nil
}

func (m *mockCommentRepository) ListByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error) {
	if m.listByPostIDsFn != nil {
		return m.listByPostIDsFn(ctx, postIDs)
	}
	return map[int64][]model.Comment{}, nil
}

type mockNotificationRepository struct {
	createFn                func(ctx context.Context, fromID, toID int64, notifType string) error
	listByRecipientFn       func(ctx context.Context, userID int64) ([]model.Notification, error)
	markAllReadFn           func(ctx context.Context, userID int64) error
	deleteAllForRecipientFn func(ctx context.Context, userID int64) error

	markAllReadCalls int
	deleteCalls      int
}

func (m *mockNotificationRepository) Create(ctx context.Context, fromID, toID int64, notifType string) error {
	if m.createFn != nil {
		return m.createFn(ctx, fromID, toID, notifType)
	}
	return nil
}

func (m *mockNotificationRepository) ListByRecipient(ctx context.Context, userID int64) ([]model.Notification, error) {
	if m.listByRecipientFn != nil {
		return m.listByRecipientFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	m.markAllReadCalls++
	if m.markAllReadFn != nil {
		return m.markAllReadFn(ctx, userID)
	}
	return nil
}

func (m *mockNotificationRepository) DeleteAllForRecipient(ctx context.Context, userID int64) error {
	m.deleteCalls++
	if m.deleteAllForRecipientFn != nil {
		return m.deleteAllForRecipientFn(ctx, userID)
	}
	return nil
}

// =============================================================================
// MOCK COLLABORATORS
// =============================================================================

type notifyCall struct {
	FromID int64
	ToID   int64
	Type   string
}

type mockNotifier struct {
	notifyFn func(ctx context.Context, fromID, toID int64, notifType string) error

	notifyCalls []notifyCall
}

func (m *mockNotifier) Notify(ctx context.Context, fromID, toID int64, notifType string) error {
	m.notifyCalls = append(m.notifyCalls, notifyCall{FromID: fromID, ToID: toID, Type: notifType})
	if m.notifyFn != nil {
		return m.notifyFn(ctx, fromID, toID, notifType)
	}
	return nil
}

type mockImageStore struct {
	uploadFn func(ctx context.Context, dataURL, folder string) (*model.UploadResult, error)
	deleteFn func(ctx context.Context, key string) error

	uploadCalls []string // folders
	deleteCalls []string // keys
}

func (m *mockImageStore) UploadImage(ctx context.Context, dataURL, folder string) (*model.UploadResult, error) {
	m.uploadCalls = append(m.uploadCalls, folder)
	if m.uploadFn != nil {
		return m.uploadFn(ctx, dataURL, folder)
	}
	return &model.UploadResult{URL: "https://cdn.example.com/" + folder + "/img.jpg", Key: folder + "/img.jpg"}, nil
}

func (m *mockImageStore) DeleteImage(ctx context.Context, key string) error {
	m.deleteCalls = append(m.deleteCalls, key)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.FeedEvent) (string, error)

	published []queue.FeedEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.FeedEvent) (string, error) {
	m.published = append(m.published, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}

// fakeFeedCache is an in-memory FeedCache for testing cache paths.
type fakeFeedCache struct {
	feeds map[int64][]cache.PostScore
}

func newFakeFeedCache() *fakeFeedCache {
	return &fakeFeedCache{feeds: make(map[int64][]cache.PostScore)}
}

func (f *fakeFeedCache) AddPost(ctx context.Context, userID, postID int64, timestamp int64) error {
	f.feeds[userID] = append(f.feeds[userID], cache.PostScore{PostID: postID, Timestamp: timestamp})
	return nil
}

func (f *fakeFeedCache) RemovePost(ctx context.Context, userID, postID int64) error {
	scores := f.feeds[userID]
	out := scores[:0]
	for _, s := range scores {
		if s.PostID != postID {
			out = append(out, s)
		}
	}
	f.feeds[userID] = out
	return nil
}

func (f *fakeFeedCache) GetFeed(ctx context.Context, userID int64, limit int) ([]int64, error) {
	scores := f.feeds[userID]
	// newest first
	ids := make([]int64, 0, len(scores))
	for i := len(scores) - 1; i >= 0 && len(ids) < limit; i-- {
		ids = append(ids, scores[i].PostID)
	}
	return ids, nil
}

func (f *fakeFeedCache) WarmCache(ctx context.Context, userID int64, posts []cache.PostScore) error {
	for i := len(posts) - 1; i >= 0; i-- {
		f.feeds[userID] = append(f.feeds[userID], posts[i])
	}
	return nil
}

func (f *fakeFeedCache) Exists(ctx context.Context, userID int64) (bool, error) {
	_, ok := f.feeds[userID]
	return ok, nil
}
