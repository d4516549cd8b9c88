package service

import (
	"context"
	"fmt"
	"strings"

	"identify/internal/cache"
	"identify/internal/dto"
	"identify/internal/mapper"
	"identify/internal/models"
	"identify/internal/observability"
	"identify/internal/repository"
	"identify/internal/taxonomy"
)

// PostService implements the post creation workflow and the listing queries.
type PostService struct {
	postRepo  repository.PostRepository
	labelRepo repository.LabelRepository
	mediaSvc  *MediaService

	// publish pushes a live-feed event; best-effort, may be nil.
	publish func(ctx context.Context, eventType string, payload any)
}

// CreatePostInput is the decoded multipart post-creation request.
type CreatePostInput struct {
	UserID  uint
	Request dto.PostRequest
	Files   []UploadMediaInput
}

// NewPostService returns a PostService wired to its repositories.
func NewPostService(
	postRepo repository.PostRepository,
	labelRepo repository.LabelRepository,
	mediaSvc *MediaService,
	publish func(ctx context.Context, eventType string, payload any),
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		labelRepo: labelRepo,
		mediaSvc:  mediaSvc,
		publish:   publish,
	}
}

const maxPostTitleLen = 300

func (s *PostService) validateCreate(in CreatePostInput) error {
	if in.UserID == 0 {
		return models.NewValidationError("Invalid user")
	}
	if strings.TrimSpace(in.Request.Title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(in.Request.Title) > maxPostTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Files) == 0 {
		return models.NewValidationError("At least one media file is required")
	}

	for attribute, values := range map[string][]string{
		"color":    in.Request.Colors,
		"shape":    in.Request.Shapes,
		"material": in.Request.Materials,
	} {
		if _, unknown := taxonomy.ValidateValues(attribute, values); len(unknown) > 0 {
			return models.NewValidationError(fmt.Sprintf("Unknown %s values: %s", attribute, strings.Join(unknown, ", ")))
		}
	}
	return nil
}

// CreatePost runs the full workflow: validation, independently-committed
// media uploads and label get-or-creates, then one transaction for the post,
// mystery and reference rows. Validation failures happen before any write;
// later failures can leave committed media and label rows behind.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := s.validateCreate(in); err != nil {
		return nil, err
	}

	mediaIDs := make([]uint, 0, len(in.Files))
	for _, file := range in.Files {
		file.UserID = in.UserID
		media, err := s.mediaSvc.Upload(ctx, file)
		if err != nil {
			return nil, err
		}
		mediaIDs = append(mediaIDs, media.ID)
	}

	labelIDs := make([]int64, 0, len(in.Request.Labels))
	for _, lr := range in.Request.Labels {
		label, created, err := s.labelRepo.GetOrCreate(ctx, &models.WikidataLabel{
			WikidataID:    lr.WikidataID,
			Title:         lr.Title,
			Description:   lr.Description,
			RelatedLabels: models.StringList(lr.RelatedLabels),
		})
		if err != nil {
			return nil, err
		}
		outcome := "hit"
		if created {
			outcome = "created"
		}
		observability.LabelLookupsTotal.WithLabelValues(outcome).Inc()
		labelIDs = append(labelIDs, label.WikidataID)
	}

	post := &models.Post{
		UserID:      in.UserID,
		Title:       in.Request.Title,
		Description: in.Request.Description,
		Status:      models.PostStatusActive,
	}
	mystery := &models.Mystery{
		Weight:    in.Request.Weight,
		Colors:    normalizeAll("color", in.Request.Colors),
		Shapes:    normalizeAll("shape", in.Request.Shapes),
		Materials: normalizeAll("material", in.Request.Materials),
		SizeX:     in.Request.SizeX,
		SizeY:     in.Request.SizeY,
		SizeZ:     in.Request.SizeZ,
	}

	if err := s.postRepo.Create(ctx, post, mystery, mediaIDs, labelIDs); err != nil {
		return nil, err
	}

	observability.PostsCreatedTotal.Inc()
	if s.publish != nil {
		s.publish(ctx, "post.created", map[string]any{
			"post_id": post.ID,
			"user_id": post.UserID,
			"title":   post.Title,
		})
	}
	return post, nil
}

func normalizeAll(attribute string, values []string) models.StringList {
	normalized, _ := taxonomy.ValidateValues(attribute, values)
	return models.StringList(normalized)
}

// GetPost returns the full detail view of a post.
func (s *PostService) GetPost(ctx context.Context, id uint) (*dto.PostDTO, error) {
	var out dto.PostDTO
	err := cache.Aside(ctx, cache.PostKey(id), &out, cache.PostTTL, func() error {
		post, err := s.postRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		out = mapper.ToPostDTO(post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMain returns one zero-based page of the main listing, cached briefly.
func (s *PostService) ListMain(ctx context.Context, page, size int) ([]dto.MiniPostDTO, error) {
	var out []dto.MiniPostDTO
	key := cache.PostsListKey(ctx, "main", page, size)
	err := cache.Aside(ctx, key, &out, cache.PostListTTL, func() error {
		posts, err := s.postRepo.List(ctx, page, size)
		if err != nil {
			return err
		}
		out = toMiniPosts(posts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns every post by the given user.
func (s *PostService) ListByUser(ctx context.Context, userID uint) ([]dto.MiniPostDTO, error) {
	posts, err := s.postRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toMiniPosts(posts), nil
}

// ListByLabel returns every post tagged with the given Wikidata ID.
func (s *PostService) ListByLabel(ctx context.Context, wikidataID int64) ([]dto.MiniPostDTO, error) {
	posts, err := s.postRepo.ListByLabel(ctx, wikidataID)
	if err != nil {
		return nil, err
	}
	return toMiniPosts(posts), nil
}

func toMiniPosts(posts []models.Post) []dto.MiniPostDTO {
	out := make([]dto.MiniPostDTO, 0, len(posts))
	for i := range posts {
		out = append(out, mapper.ToMiniPostDTO(&posts[i], mapper.ToMiniProfile(&posts[i].User)))
	}
	return out
}
