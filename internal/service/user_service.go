package service

import (
	"context"
	"strings"
	"time"

	"identify/internal/cache"
	"identify/internal/dto"
	"identify/internal/mapper"
	"identify/internal/models"
	"identify/internal/repository"
	"identify/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// The three login outcomes distinguish a bad password from an unknown
// identifier; both are carried in the response body, not as errors.
const (
	MsgWrongPassword      = "Wrong password"
	MsgInvalidCredentials = "Invalid credentials"
)

const profileRecentLimit = 5

// UserService implements registration, login and profile aggregation.
type UserService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	mediaSvc    *MediaService

	// generateToken issues a bearer token bound to the user id.
	generateToken func(userID uint, nickname string) (string, error)
}

// NewUserService returns a UserService wired to its repositories.
func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	mediaSvc *MediaService,
	generateToken func(userID uint, nickname string) (string, error),
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		mediaSvc:      mediaSvc,
		generateToken: generateToken,
	}
}

// IsNicknameInUse reports whether the nickname is taken.
func (s *UserService) IsNicknameInUse(ctx context.Context, nickname string) (bool, error) {
	user, err := s.userRepo.GetByNickname(ctx, nickname)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// IsEmailInUse reports whether the email is taken.
func (s *UserService) IsEmailInUse(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Register creates a user with a hashed password and issues a token.
// Uniqueness is probed by the caller through the check endpoints; the store
// still rejects duplicates as a validation error.
func (s *UserService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(in.Nickname) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, models.NewValidationError("Nickname and email are required")
	}
	if err := validation.ValidateNickname(in.Nickname); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Nickname:     in.Nickname,
		Email:        in.Email,
		Password:     string(hash),
		LastActivity: time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.generateToken(user.ID, user.Nickname)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &dto.AuthResponse{Success: true, Token: token, ID: user.ID, Nickname: user.Nickname}, nil
}

// Login resolves the identifier (email when it contains "@", nickname
// otherwise), verifies the password and bumps last-activity on success.
func (s *UserService) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	var user *models.User
	var err error
	if strings.Contains(in.Identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, in.Identifier)
	} else {
		user, err = s.userRepo.GetByNickname(ctx, in.Identifier)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &dto.AuthResponse{Success: false, Message: MsgInvalidCredentials}, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return &dto.AuthResponse{Success: false, Message: MsgWrongPassword}, nil
	}

	token, err := s.generateToken(user.ID, user.Nickname)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.userRepo.UpdateLastActivity(ctx, user.ID, time.Now()); err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Success: true, Token: token, ID: user.ID, Nickname: user.Nickname}, nil
}

// GetNickname returns the nickname for a user id.
func (s *UserService) GetNickname(ctx context.Context, id uint) (string, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Nickname, nil
}

// GetMiniProfile returns the condensed projection of a user.
func (s *UserService) GetMiniProfile(ctx context.Context, id uint) (*dto.MiniProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mini := mapper.ToMiniProfile(user)
	return &mini, nil
}

// GetProfile composes the profile view: base fields plus the five most
// recent posts and comments, each carrying the author's condensed profile.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*dto.Profile, error) {
	var out dto.Profile
	err := cache.Aside(ctx, cache.ProfileKey(id), &out, cache.ProfileTTL, func() error {
		profile, err := s.buildProfile(ctx, id)
		if err != nil {
			return err
		}
		out = *profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) buildProfile(ctx context.Context, id uint) (*dto.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mini := mapper.ToMiniProfile(user)

	posts, err := s.postRepo.GetRecentByUser(ctx, id, profileRecentLimit)
	if err != nil {
		return nil, err
	}
	recentPosts := make([]dto.MiniPostDTO, 0, len(posts))
	for i := range posts {
		recentPosts = append(recentPosts, mapper.ToMiniPostDTO(&posts[i], mini))
	}

	comments, err := s.commentRepo.GetRecentByUser(ctx, id, profileRecentLimit)
	if err != nil {
		return nil, err
	}
	recentComments := make([]dto.CommentDTO, 0, len(comments))
	for i := range comments {
		recentComments = append(recentComments, mapper.ToCommentDTO(&comments[i], mini))
	}

	profile := mapper.ToProfile(user, recentPosts, recentComments)
	return &profile, nil
}

// UpdateProfile mutates the bio only and returns the recomputed aggregation.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in dto.UpdateProfileRequest) (*dto.Profile, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(ctx, id, map[string]any{"bio": in.Bio}); err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, id)
}

// UpdateProfilePicture uploads the image and stores its URL on the user.
func (s *UserService) UpdateProfilePicture(ctx context.Context, id uint, file UploadMediaInput) (*dto.MiniProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	file.UserID = id
	media, err := s.mediaSvc.Upload(ctx, file)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateFields(ctx, id, map[string]any{"profile_picture": media.URL}); err != nil {
		return nil, err
	}
	user.ProfilePicture = media.URL
	mini := mapper.ToMiniProfile(user)
	return &mini, nil
}
