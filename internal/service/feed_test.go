package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/model"
)

func newFeedFixture() (*FeedService, *fakeUserRepo, *fakePostRepo, *fakeCommentRepo) {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	comments := newFakeCommentRepo()
	return NewFeedService(posts, comments, users), users, posts, comments
}

func seedUser(users *fakeUserRepo, name string) primitive.ObjectID {
	u := &model.User{Name: name, Email: name + "@example.com", IsVerified: true, Role: model.RoleUser}
	users.Create(context.Background(), u)
	return u.ID
}

func TestFeedDecoration(t *testing.T) {
	svc, users, _, _ := newFeedFixture()
	ctx := context.Background()
	alice := seedUser(users, "alice")
	bob := seedUser(users, "bob")

	post, err := svc.CreatePost(ctx, alice, PostInput{Text: "just finished the campaign"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if _, err := svc.ToggleLike(ctx, bob, post.ID); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}

	feed, err := svc.GetFeed(ctx, bob)
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("feed = %d posts, want 1", len(feed))
	}
	got := feed[0]
	if got.AuthorName != "alice" || !got.LikedByMe || got.Mine {
		t.Fatalf("decoration = %+v, want alice/likedByMe/not mine", got)
	}

	// Anonymous viewers get no personal decorations.
	anon, err := svc.GetFeed(ctx, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("GetFeed(anonymous) error = %v", err)
	}
	if anon[0].LikedByMe || anon[0].Mine {
		t.Fatal("anonymous view carries personal decorations")
	}
}

func TestCreatePostValidation(t *testing.T) {
	svc, users, _, _ := newFeedFixture()
	ctx := context.Background()
	alice := seedUser(users, "alice")

	tests := []struct {
		name string
		in   PostInput
	}{
		{name: "empty", in: PostInput{}},
		{name: "bad media scheme", in: PostInput{Media: []string{"javascript:alert(1)"}}},
		{name: "non-youtube trailer", in: PostInput{YoutubeURLs: []string{"https://vimeo.com/123"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, alice, tt.in)
			ae := apiErr(t, err)
			if ae.StatusCode != 400 {
				t.Fatalf("status = %d, want 400", ae.StatusCode)
			}
		})
	}

	if _, err := svc.CreatePost(ctx, alice, PostInput{
		Media:       []string{"/uploads/shot.png", "https://cdn.example.com/a.png"},
		YoutubeURLs: []string{"https://youtu.be/dQw4w9WgXcQ"},
	}); err != nil {
		t.Fatalf("valid media post rejected: %v", err)
	}
}

func TestToggleLikeFlips(t *testing.T) {
	svc, users, _, _ := newFeedFixture()
	ctx := context.Background()
	alice := seedUser(users, "alice")
	bob := seedUser(users, "bob")

	post, _ := svc.CreatePost(ctx, alice, PostInput{Text: "hello"})

	r1, _ := svc.ToggleLike(ctx, bob, post.ID)
	if !r1.Liked || r1.LikesCount != 1 {
		t.Fatalf("first toggle = %+v, want liked with count 1", r1)
	}
	r2, _ := svc.ToggleLike(ctx, bob, post.ID)
	if r2.Liked || r2.LikesCount != 0 {
		t.Fatalf("second toggle = %+v, want unliked with count 0", r2)
	}
}

func TestPostOwnership(t *testing.T) {
	svc, users, _, _ := newFeedFixture()
	ctx := context.Background()
	alice := seedUser(users, "alice")
	bob := seedUser(users, "bob")

	post, _ := svc.CreatePost(ctx, alice, PostInput{Text: "mine"})

	_, err := svc.UpdatePost(ctx, bob, post.ID, PostInput{Text: "hijacked"})
	ae := apiErr(t, err)
	if ae.StatusCode != 403 {
		t.Fatalf("update status = %d, want 403", ae.StatusCode)
	}

	err = svc.DeletePost(ctx, bob, post.ID, false)
	ae = apiErr(t, err)
	if ae.StatusCode != 403 {
		t.Fatalf("delete status = %d, want 403", ae.StatusCode)
	}

	// Moderation path bypasses ownership.
	if err := svc.DeletePost(ctx, bob, post.ID, true); err != nil {
		t.Fatalf("admin delete error = %v", err)
	}
}

func TestCommentsMaintainCounter(t *testing.T) {
	svc, users, posts, _ := newFeedFixture()
	ctx := context.Background()
	alice := seedUser(users, "alice")
	bob := seedUser(users, "bob")

	post, _ := svc.CreatePost(ctx, alice, PostInput{Text: "discuss"})

	c1, err := svc.AddComment(ctx, bob, post.ID, "first")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	svc.AddComment(ctx, alice, post.ID, "second")

	p, _ := posts.FindByID(ctx, post.ID)
	if p.CommentsCount != 2 {
		t.Fatalf("CommentsCount = %d, want 2", p.CommentsCount)
	}

	if err := svc.DeleteComment(ctx, bob, c1.ID, false); err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	p, _ = posts.FindByID(ctx, post.ID)
	if p.CommentsCount != 1 {
		t.Fatalf("CommentsCount after delete = %d, want 1", p.CommentsCount)
	}
}

func TestDeletePostRemovesComments(t *testing.T) {
	svc, users, _, comments := newFeedFixture()
	ctx := context.Background()
	alice := seedUser(users, "alice")

	post, _ := svc.CreatePost(ctx, alice, PostInput{Text: "doomed"})
	svc.AddComment(ctx, alice, post.ID, "one")
	svc.AddComment(ctx, alice, post.ID, "two")

	if err := svc.DeletePost(ctx, alice, post.ID, false); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	left, _ := comments.ListByPost(ctx, post.ID, 100)
	if len(left) != 0 {
		t.Fatalf("orphan comments = %d, want 0", len(left))
	}
}

func TestFeedDeletedAuthor(t *testing.T) {
	svc, _, posts, _ := newFeedFixture()
	ctx := context.Background()

	ghost := primitive.NewObjectID()
	posts.Create(ctx, &model.Post{UserID: ghost, Text: "orphaned"})

	feed, err := svc.GetFeed(ctx, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}
	if feed[0].AuthorName != "Deleted user" {
		t.Fatalf("AuthorName = %q, want \"Deleted user\"", feed[0].AuthorName)
	}
}
