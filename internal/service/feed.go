package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/model"
	"gamevault-api/internal/repository"
	"gamevault-api/pkg/apierror"
)

const (
	maxPostTextLen    = 2000
	maxCommentTextLen = 500
	feedLimit         = 100
	commentListLimit  = 200
	maxPostMedia      = 8
)

// FeedPost is a post decorated for the requesting viewer.
type FeedPost struct {
	model.Post
	AuthorName string `json:"authorName"`
	LikedByMe  bool   `json:"likedByMe"`
	Mine       bool   `json:"mine"`
}

// FeedComment is a comment decorated with its author's name.
type FeedComment struct {
	model.Comment
	AuthorName string `json:"authorName"`
	Mine       bool   `json:"mine"`
}

// LikeResult reports a like toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// PostInput carries the user-supplied post fields.
type PostInput struct {
	Text        string   `json:"text"`
	Media       []string `json:"media"`
	YoutubeURLs []string `json:"youtubeUrls"`
}

// FeedService implements the community feed: posts, likes and comments.
type FeedService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	now      func() time.Time
}

// NewFeedService creates a feed service.
func NewFeedService(posts repository.PostRepository, comments repository.CommentRepository, users repository.UserRepository) *FeedService {
	return &FeedService{posts: posts, comments: comments, users: users, now: time.Now}
}

// GetFeed returns recent posts, newest first. viewerID may be the zero
// ObjectID for anonymous readers; likedByMe and mine are then always false.
func (s *FeedService) GetFeed(ctx context.Context, viewerID primitive.ObjectID) ([]FeedPost, error) {
	posts, err := s.posts.List(ctx, feedLimit)
	if err != nil {
		return nil, err
	}

	names, err := s.authorNames(ctx, postAuthorIDs(posts))
	if err != nil {
		return nil, err
	}

	out := make([]FeedPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, FeedPost{
			Post:       p,
			AuthorName: names[p.UserID],
			LikedByMe:  !viewerID.IsZero() && p.LikedBy(viewerID),
			Mine:       p.UserID == viewerID,
		})
	}
	return out, nil
}

// CreatePost publishes a post.
func (s *FeedService) CreatePost(ctx context.Context, userID primitive.ObjectID, in PostInput) (*model.Post, error) {
	text := strings.TrimSpace(in.Text)
	media := uniqueStrings(in.Media)
	yt := uniqueStrings(in.YoutubeURLs)

	if text == "" && len(media) == 0 && len(yt) == 0 {
		return nil, apierror.BadRequest("Post cannot be empty")
	}
	if len(text) > maxPostTextLen {
		return nil, apierror.BadRequest("Post text is too long")
	}
	if len(media)+len(yt) > maxPostMedia {
		return nil, apierror.BadRequest("Too many media attachments")
	}
	for _, u := range media {
		if !isAllowedMediaURL(u) {
			return nil, apierror.BadRequest("Invalid media URL")
		}
	}
	for _, u := range yt {
		if !isYoutubeURL(u) {
			return nil, apierror.BadRequest("Invalid YouTube URL")
		}
	}

	now := s.now()
	post := &model.Post{
		UserID:      userID,
		Text:        text,
		Media:       media,
		YoutubeURLs: yt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost edits the caller's own post.
func (s *FeedService) UpdatePost(ctx context.Context, userID, postID primitive.ObjectID, in PostInput) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apierror.NotFound("Post not found")
	}
	if post.UserID != userID {
		return nil, apierror.Forbidden("You can only edit your own posts")
	}

	text := strings.TrimSpace(in.Text)
	media := uniqueStrings(in.Media)
	yt := uniqueStrings(in.YoutubeURLs)

	if text == "" && len(media) == 0 && len(yt) == 0 {
		return nil, apierror.BadRequest("Post cannot be empty")
	}
	if len(text) > maxPostTextLen {
		return nil, apierror.BadRequest("Post text is too long")
	}
	if len(media)+len(yt) > maxPostMedia {
		return nil, apierror.BadRequest("Too many media attachments")
	}
	for _, u := range media {
		if !isAllowedMediaURL(u) {
			return nil, apierror.BadRequest("Invalid media URL")
		}
	}
	for _, u := range yt {
		if !isYoutubeURL(u) {
			return nil, apierror.BadRequest("Invalid YouTube URL")
		}
	}

	post.Text = text
	post.Media = media
	post.YoutubeURLs = yt
	post.UpdatedAt = s.now()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the caller's own post along with its comments. asAdmin
// bypasses the ownership check for moderation.
func (s *FeedService) DeletePost(ctx context.Context, userID, postID primitive.ObjectID, asAdmin bool) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return apierror.NotFound("Post not found")
	}
	if !asAdmin && post.UserID != userID {
		return apierror.Forbidden("You can only delete your own posts")
	}

	if err := s.comments.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, postID)
}

// ToggleLike flips the caller's like on a post and returns the new state.
func (s *FeedService) ToggleLike(ctx context.Context, userID, postID primitive.ObjectID) (*LikeResult, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apierror.NotFound("Post not found")
	}

	liked := !post.LikedBy(userID)
	count, err := s.posts.SetLike(ctx, postID, userID, liked)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

// ListComments returns a post's comments, oldest first.
func (s *FeedService) ListComments(ctx context.Context, viewerID, postID primitive.ObjectID) ([]FeedComment, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apierror.NotFound("Post not found")
	}

	comments, err := s.comments.ListByPost(ctx, postID, commentListLimit)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	names, err := s.authorNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]FeedComment, 0, len(comments))
	for _, c := range comments {
		out = append(out, FeedComment{
			Comment:    c,
			AuthorName: names[c.UserID],
			Mine:       c.UserID == viewerID,
		})
	}
	return out, nil
}

// AddComment attaches a comment to a post and bumps its counter.
func (s *FeedService) AddComment(ctx context.Context, userID, postID primitive.ObjectID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierror.BadRequest("Comment cannot be empty")
	}
	if len(text) > maxCommentTextLen {
		return nil, apierror.BadRequest("Comment is too long")
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apierror.NotFound("Post not found")
	}

	now := s.now()
	comment := &model.Comment{
		PostID:    postID,
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	if _, err := s.posts.IncComments(ctx, postID, 1); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment edits the caller's own comment.
func (s *FeedService) UpdateComment(ctx context.Context, userID, commentID primitive.ObjectID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierror.BadRequest("Comment cannot be empty")
	}
	if len(text) > maxCommentTextLen {
		return nil, apierror.BadRequest("Comment is too long")
	}

	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apierror.NotFound("Comment not found")
	}
	if comment.UserID != userID {
		return nil, apierror.Forbidden("You can only edit your own comments")
	}

	comment.Text = text
	comment.UpdatedAt = s.now()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes the caller's own comment and decrements the post
// counter.
func (s *FeedService) DeleteComment(ctx context.Context, userID, commentID primitive.ObjectID, asAdmin bool) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apierror.NotFound("Comment not found")
	}
	if !asAdmin && comment.UserID != userID {
		return apierror.Forbidden("You can only delete your own comments")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	_, err = s.posts.IncComments(ctx, comment.PostID, -1)
	return err
}

func postAuthorIDs(posts []model.Post) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	return ids
}

// authorNames resolves display names for a set of user IDs. Deleted accounts
// show up as "Deleted user".
func (s *FeedService) authorNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			names[id] = u.Name
		} else {
			names[id] = "Deleted user"
		}
	}
	return names, nil
}
