// Package mapper translates persistent models into API payloads.
// Visibility rules (email hidden unless opted in) live here so no handler
// can leak a field by serializing a model directly.
package mapper

import (
	"identify/internal/dto"
	"identify/internal/models"
)

// ToMiniProfile returns the condensed projection of a user.
func ToMiniProfile(user *models.User) dto.MiniProfile {
	if user == nil {
		return dto.MiniProfile{}
	}
	return dto.MiniProfile{
		ID:             user.ID,
		Nickname:       user.Nickname,
		ProfilePicture: user.ProfilePicture,
		TotalPoints:    user.TotalPoints,
	}
}

// ToProfile builds the full profile view. The email is nulled unless the
// user opted into visibility.
func ToProfile(user *models.User, recentPosts []dto.MiniPostDTO, recentComments []dto.CommentDTO) dto.Profile {
	var email *string
	if user.MailVisible {
		e := user.Email
		email = &e
	}
	if recentPosts == nil {
		recentPosts = []dto.MiniPostDTO{}
	}
	if recentComments == nil {
		recentComments = []dto.CommentDTO{}
	}
	return dto.Profile{
		ID:             user.ID,
		Nickname:       user.Nickname,
		Email:          email,
		ProfilePicture: user.ProfilePicture,
		Bio:            user.Bio,
		TotalPoints:    user.TotalPoints,
		AccountCreated: user.CreatedAt,
		LastActivity:   user.LastActivity,
		RecentPosts:    recentPosts,
		RecentComments: recentComments,
	}
}

// ToMediaDTO returns the payload shape of a stored upload.
func ToMediaDTO(media models.Media) dto.MediaDTO {
	return dto.MediaDTO{
		ID:       media.ID,
		URL:      media.URL,
		MimeType: media.MimeType,
	}
}

// ToLabelDTO returns the payload shape of a semantic label.
func ToLabelDTO(label models.WikidataLabel) dto.LabelDTO {
	return dto.LabelDTO{
		WikidataID:    label.WikidataID,
		Title:         label.Title,
		Description:   label.Description,
		RelatedLabels: label.RelatedLabels,
	}
}

// ToMysteryDTO returns the payload shape of a mystery with its media and labels.
func ToMysteryDTO(mystery *models.Mystery) *dto.MysteryDTO {
	if mystery == nil {
		return nil
	}
	medias := make([]dto.MediaDTO, 0, len(mystery.Medias))
	for _, m := range mystery.Medias {
		medias = append(medias, ToMediaDTO(m))
	}
	labels := make([]dto.LabelDTO, 0, len(mystery.Labels))
	for _, l := range mystery.Labels {
		labels = append(labels, ToLabelDTO(l))
	}
	return &dto.MysteryDTO{
		ID:        mystery.ID,
		Weight:    mystery.Weight,
		Colors:    mystery.Colors,
		Shapes:    mystery.Shapes,
		Materials: mystery.Materials,
		SizeX:     mystery.SizeX,
		SizeY:     mystery.SizeY,
		SizeZ:     mystery.SizeZ,
		Medias:    medias,
		Labels:    labels,
	}
}

// ToPostDTO returns the full detail view of a post.
func ToPostDTO(post *models.Post) dto.PostDTO {
	return dto.PostDTO{
		ID:          post.ID,
		Title:       post.Title,
		Description: post.Description,
		Status:      string(post.Status),
		CreatedAt:   post.CreatedAt,
		Author:      ToMiniProfile(&post.User),
		Mystery:     ToMysteryDTO(post.Mystery),
	}
}

// ToMiniPostDTO returns the condensed listing view of a post. The thumbnail
// is the first referenced media, when one is loaded.
func ToMiniPostDTO(post *models.Post, author dto.MiniProfile) dto.MiniPostDTO {
	thumbnail := ""
	if post.Mystery != nil && len(post.Mystery.Medias) > 0 {
		thumbnail = post.Mystery.Medias[0].URL
	}
	return dto.MiniPostDTO{
		ID:        post.ID,
		Title:     post.Title,
		Status:    string(post.Status),
		CreatedAt: post.CreatedAt,
		Author:    author,
		Thumbnail: thumbnail,
	}
}

// ToCommentDTO returns a comment with its vote tallies and author projection.
func ToCommentDTO(comment *models.Comment, author dto.MiniProfile) dto.CommentDTO {
	return dto.CommentDTO{
		ID:               comment.ID,
		ParentID:         comment.ParentID,
		PostID:           comment.PostID,
		Content:          comment.Content,
		Type:             string(comment.Type),
		CreatedAt:        comment.CreatedAt,
		Author:           author,
		Upvotes:          comment.Upvotes,
		UpvotedUserIDs:   comment.UpvotedUserIDs,
		Downvotes:        comment.Downvotes,
		DownvotedUserIDs: comment.DownvotedUserIDs,
	}
}
