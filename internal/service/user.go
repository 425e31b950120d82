package service

import (
	"context"
	"log"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"chirper/internal/model"
	"chirper/internal/repository"
)

// emailRegex matches the address shapes accepted at signup.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// suggestedLimit is the max number of users returned by Suggested.
const suggestedLimit = 3

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
	imageStore ImageStore
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
	imageStore ImageStore,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		postRepo:   postRepo,
		imageStore: imageStore,
	}
}

// Signup validates the request, hashes the password and creates the account.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	if req.Username == "" || req.FullName == "" || req.Email == "" || req.Password == "" {
		return nil, model.ErrMissingFields
	}
	if !emailRegex.MatchString(req.Email) {
		return nil, model.ErrInvalidEmail
	}
	if len(req.Password) < model.MinPasswordLength {
		return nil, model.ErrPasswordTooShort
	}
	if len(req.Password) > model.MaxPasswordLength {
		return nil, model.ErrPasswordTooLong
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrUsernameTaken
	}

	taken, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       req.Username,
		FullName:       req.FullName,
		Email:          req.Email,
		PasswordHashed: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.hydrateEdges(ctx, user)
	return user, nil
}

// Login verifies the credentials. Unknown username and wrong password
// return the same error so responses don't leak which accounts exist.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	s.hydrateEdges(ctx, user)
	return user, nil
}

// GetMe returns the authenticated user's own record.
func (s *UserService) GetMe(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.hydrateEdges(ctx, user)
	return user, nil
}

// GetProfile returns a user's public profile by username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	s.hydrateEdges(ctx, user)
	return user, nil
}

// Suggested returns up to three random users the viewer doesn't follow.
func (s *UserService) Suggested(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	return s.userRepo.GetSuggested(ctx, userID, suggestedLimit)
}

// UpdateProfile applies the non-nil fields of req to the user's account.
// Changing the password requires both currentPassword and newPassword;
// image fields carry base64 data URLs which are uploaded to object storage.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if (req.CurrentPassword == nil) != (req.NewPassword == nil) {
		return nil, model.ErrPasswordPairRequired
	}
	if req.CurrentPassword != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(*req.CurrentPassword)); err != nil {
			return nil, model.ErrInvalidCredentials
		}
		if len(*req.NewPassword) < model.MinPasswordLength {
			return nil, model.ErrPasswordTooShort
		}
		if len(*req.NewPassword) > model.MaxPasswordLength {
			return nil, model.ErrPasswordTooLong
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHashed = string(hashed)
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.userRepo.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, model.ErrUsernameTaken
		}
		user.Username = *req.Username
	}

	if req.Email != nil && *req.Email != user.Email {
		if !emailRegex.MatchString(*req.Email) {
			return nil, model.ErrInvalidEmail
		}
		taken, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, model.ErrEmailTaken
		}
		user.Email = *req.Email
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Link != nil {
		user.Link = req.Link
	}

	if req.ProfileImg != nil && *req.ProfileImg != "" {
		result, err := s.imageStore.UploadImage(ctx, *req.ProfileImg, model.AvatarFolder)
		if err != nil {
			return nil, err
		}
		if user.ProfileImgKey != nil {
			if err := s.imageStore.DeleteImage(ctx, *user.ProfileImgKey); err != nil {
				log.Printf("[UserService] delete old profile image failed: key=%s err=%v", *user.ProfileImgKey, err)
			}
		}
		user.ProfileImg = &result.URL
		user.ProfileImgKey = &result.Key
	}

	if req.CoverImg != nil && *req.CoverImg != "" {
		result, err := s.imageStore.UploadImage(ctx, *req.CoverImg, model.CoverFolder)
		if err != nil {
			return nil, err
		}
		if user.CoverImgKey != nil {
			if err := s.imageStore.DeleteImage(ctx, *user.CoverImgKey); err != nil {
				log.Printf("[UserService] delete old cover image failed: key=%s err=%v", *user.CoverImgKey, err)
			}
		}
		user.CoverImg = &result.URL
		user.CoverImgKey = &result.Key
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.hydrateEdges(ctx, user)
	return user, nil
}

// hydrateEdges fills the derived follower, following and liked-post ID
// lists. Failures degrade to empty lists rather than failing the request.
func (s *UserService) hydrateEdges(ctx context.Context, user *model.User) {
	followers, err := s.followRepo.GetFollowerIDs(ctx, user.ID)
	if err != nil {
		log.Printf("[UserService] load followers failed: user=%d err=%v", user.ID, err)
	}
	following, err := s.followRepo.GetFollowingIDs(ctx, user.ID)
	if err != nil {
		log.Printf("[UserService] load following failed: user=%d err=%v", user.ID, err)
	}
	liked, err := s.postRepo.GetLikedPostIDs(ctx, user.ID)
	if err != nil {
		log.Printf("[UserService] load liked posts failed: user=%d err=%v", user.ID, err)
	}

	if followers == nil {
		followers = []int64{}
	}
	if following == nil {
		following = []int64{}
	}
	if liked == nil {
		liked = []int64{}
	}

	user.Followers = followers
	user.Following = following
	user.LikedPosts = liked
}
