package service

import (
	"context"
	"log"

	"chirper/internal/cache"
	"chirper/internal/model"
	"chirper/internal/queue"
	"chirper/internal/repository"
)

// feedLimit caps the number of posts served from the feed cache.
const feedLimit = cache.FeedCacheCap

type PostService struct {
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	commentRepo repository.CommentRepository
	notifier    Notifier
	imageStore  ImageStore
	feedCache   cache.FeedCache
	publisher   queue.Publisher
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	commentRepo repository.CommentRepository,
	notifier Notifier,
	imageStore ImageStore,
	feedCache cache.FeedCache,
	publisher queue.Publisher,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		followRepo:  followRepo,
		commentRepo: commentRepo,
		notifier:    notifier,
		imageStore:  imageStore,
		feedCache:   feedCache,
		publisher:   publisher,
	}
}

// Create creates a post with text, an image or both. The image arrives as a
// base64 data URL and is uploaded to object storage before the row commits.
func (s *PostService) Create(ctx context.Context, userID int64, req *model.CreatePostRequest) (*model.Post, error) {
	hasText := req.Text != nil && *req.Text != ""
	hasImg := req.Img != nil && *req.Img != ""
	if !hasText && !hasImg {
		return nil, model.ErrEmptyPost
	}

	post := &model.Post{UserID: userID}
	if hasText {
		post.Text = req.Text
	}

	if hasImg {
		result, err := s.imageStore.UploadImage(ctx, *req.Img, model.PostImageFolder)
		if err != nil {
			return nil, err
		}
		post.Img = &result.URL
		post.ImgKey = &result.Key
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.publish(ctx, queue.NewPostCreatedEvent(post.ID, userID))

	hydrated, err := s.hydratePosts(ctx, []model.Post{*post})
	if err != nil {
		return nil, err
	}
	return &hydrated[0], nil
}

// Delete removes the post and its stored image. Only the author may delete.
func (s *PostService) Delete(ctx context.Context, userID, postID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return model.ErrNotPostOwner
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if post.ImgKey != nil {
		if err := s.imageStore.DeleteImage(ctx, *post.ImgKey); err != nil {
			log.Printf("[PostService] delete post image failed: key=%s err=%v", *post.ImgKey, err)
		}
	}

	s.publish(ctx, queue.NewPostDeletedEvent(postID, post.UserID))
	return nil
}

// LikeUnlike toggles the user's like on the post and returns the post's
// resulting liker IDs. A transition into the liked state notifies the
// author.
func (s *PostService) LikeUnlike(ctx context.Context, userID, postID int64) ([]int64, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.postRepo.Unlike(ctx, postID, userID); err != nil {
			return nil, err
		}
	} else {
		inserted, err := s.postRepo.Like(ctx, postID, userID)
		if err != nil {
			return nil, err
		}
		if inserted {
			if err := s.notifier.Notify(ctx, userID, post.UserID, model.NotificationTypeLike); err != nil {
				return nil, err
			}
		}
	}

	likers, err := s.postRepo.GetLikerIDs(ctx, postID)
	if err != nil {
		return nil, err
	}
	if likers == nil {
		likers = []int64{}
	}
	return likers, nil
}

// Comment adds a comment to the post and returns the post with its
// comments and likes hydrated.
func (s *PostService) Comment(ctx context.Context, userID, postID int64, text string) (*model.Post, error) {
	if text == "" {
		return nil, model.ErrEmptyComment
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	hydrated, err := s.hydratePosts(ctx, []model.Post{*post})
	if err != nil {
		return nil, err
	}
	return &hydrated[0], nil
}

// ListAll returns every post, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]model.Post, error) {
	posts, err := s.postRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.hydratePosts(ctx, posts)
}

// ListFollowing returns posts by users the viewer follows, newest first.
// Served from the feed cache when one exists; otherwise read from the
// database and the cache is warmed for next time.
func (s *PostService) ListFollowing(ctx context.Context, userID int64) ([]model.Post, error) {
	if s.feedCache != nil {
		posts, ok := s.listFollowingCached(ctx, userID)
		if ok {
			return s.hydratePosts(ctx, posts)
		}
	}

	following, err := s.followRepo.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []model.Post{}, nil
	}

	posts, err := s.postRepo.ListByAuthors(ctx, following)
	if err != nil {
		return nil, err
	}

	if s.feedCache != nil {
		s.warmFeed(ctx, userID, posts)
	}

	return s.hydratePosts(ctx, posts)
}

// listFollowingCached serves the feed from the cache. Returns ok=false on
// a cache miss or any cache error so the caller falls back to the database.
func (s *PostService) listFollowingCached(ctx context.Context, userID int64) ([]model.Post, bool) {
	exists, err := s.feedCache.Exists(ctx, userID)
	if err != nil || !exists {
		return nil, false
	}

	postIDs, err := s.feedCache.GetFeed(ctx, userID, feedLimit)
	if err != nil {
		log.Printf("[PostService] feed cache read failed: user=%d err=%v", userID, err)
		return nil, false
	}
	if len(postIDs) == 0 {
		return []model.Post{}, true
	}

	posts, err := s.postRepo.GetByIDs(ctx, postIDs)
	if err != nil {
		log.Printf("[PostService] load cached feed posts failed: user=%d err=%v", userID, err)
		return nil, false
	}
	return posts, true
}

func (s *PostService) warmFeed(ctx context.Context, userID int64, posts []model.Post) {
	if len(posts) == 0 {
		return
	}

	limit := len(posts)
	if limit > feedLimit {
		limit = feedLimit
	}

	scores := make([]cache.PostScore, limit)
	for i := 0; i < limit; i++ {
		scores[i] = cache.PostScore{
			PostID:    posts[i].ID,
			Timestamp: posts[i].CreatedAt.Unix(),
		}
	}

	if err := s.feedCache.WarmCache(ctx, userID, scores); err != nil {
		log.Printf("[PostService] warm feed cache failed: user=%d err=%v", userID, err)
	}
}

// ListByUsername returns the named user's posts, newest first.
func (s *PostService) ListByUsername(ctx context.Context, username string) ([]model.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByAuthors(ctx, []int64{user.ID})
	if err != nil {
		return nil, err
	}
	return s.hydratePosts(ctx, posts)
}

// ListLiked returns posts the given user has liked, newest first.
func (s *PostService) ListLiked(ctx context.Context, userID int64) ([]model.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListLikedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.hydratePosts(ctx, posts)
}

// hydratePosts fills authors, liker IDs and comments for a batch of posts
// with one query per concern rather than per post.
func (s *PostService) hydratePosts(ctx context.Context, posts []model.Post) ([]model.Post, error) {
	if len(posts) == 0 {
		return []model.Post{}, nil
	}

	postIDs := make([]int64, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likersByPost, err := s.postRepo.GetLikerIDsBatch(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	commentsByPost, err := s.commentRepo.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]int64, 0, len(posts))
	seen := make(map[int64]bool, len(posts))
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	authors, err := s.userRepo.GetSummaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if author, ok := authors[posts[i].UserID]; ok {
			a := author
			posts[i].User = &a
		}

		likes := likersByPost[posts[i].ID]
		if likes == nil {
			likes = []int64{}
		}
		posts[i].Likes = likes

		comments := commentsByPost[posts[i].ID]
		if comments == nil {
			comments = []model.Comment{}
		}
		posts[i].Comments = comments
	}

	return posts, nil
}

func (s *PostService) publish(ctx context.Context, event queue.FeedEvent) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamFeed, event); err != nil {
		log.Printf("[PostService] publish %s failed: %v", event.Type, err)
	}
}
