package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/model"
	"gamevault-api/internal/repository"
)

// In-memory repository fakes. They mirror the Mongo implementations' contract:
// (nil, nil) on single-document miss, repository.ErrDuplicate on unique
// violations.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*model.User)}
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.User, error) {
	out := make(map[primitive.ObjectID]model.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return errors.New("user not found")
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeGameRepo struct {
	games map[primitive.ObjectID]*model.Game
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[primitive.ObjectID]*model.Game)}
}

func (r *fakeGameRepo) List(_ context.Context) ([]model.Game, error) {
	out := make([]model.Game, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeGameRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Game, error) {
	g, ok := r.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGameRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.Game, error) {
	out := make(map[primitive.ObjectID]model.Game)
	for _, id := range ids {
		if g, ok := r.games[id]; ok {
			out[id] = *g
		}
	}
	return out, nil
}

func (r *fakeGameRepo) Create(_ context.Context, g *model.Game) error {
	g.ID = primitive.NewObjectID()
	cp := *g
	r.games[g.ID] = &cp
	return nil
}

func (r *fakeGameRepo) Update(_ context.Context, g *model.Game) error {
	if _, ok := r.games[g.ID]; !ok {
		return errors.New("game not found")
	}
	cp := *g
	r.games[g.ID] = &cp
	return nil
}

func (r *fakeGameRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.games, id)
	return nil
}

func (r *fakeGameRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.games)), nil
}

type fakeCartRepo struct {
	carts map[primitive.ObjectID]*model.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[primitive.ObjectID]*model.Cart)}
}

func (r *fakeCartRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*model.Cart, error) {
	c, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Items = append([]model.CartItem(nil), c.Items...)
	return &cp, nil
}

func (r *fakeCartRepo) Save(_ context.Context, cart *model.Cart) error {
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	cp := *cart
	cp.Items = append([]model.CartItem(nil), cart.Items...)
	r.carts[cart.UserID] = &cp
	return nil
}

func (r *fakeCartRepo) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	delete(r.carts, userID)
	return nil
}

type fakeOrderRepo struct {
	orders []model.Order
}

func (r *fakeOrderRepo) Create(_ context.Context, o *model.Order) error {
	o.ID = primitive.NewObjectID()
	r.orders = append(r.orders, *o)
	return nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	return append([]model.Order(nil), r.orders...), nil
}

func (r *fakeOrderRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.orders)), nil
}

type fakeKeyRepo struct {
	keys map[primitive.ObjectID]*model.GameKey

	// existing simulates keys issued by other instances; KeyExists consults
	// it in addition to stored keys.
	existing map[string]bool
}

func newFakeKeyRepo() *fakeKeyRepo {
	return &fakeKeyRepo{
		keys:     make(map[primitive.ObjectID]*model.GameKey),
		existing: make(map[string]bool),
	}
}

func (r *fakeKeyRepo) KeyExists(_ context.Context, key string) (bool, error) {
	if r.existing[key] {
		return true, nil
	}
	for _, k := range r.keys {
		if k.Key == key {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeKeyRepo) InsertMany(_ context.Context, keys []model.GameKey) error {
	seen := make(map[string]bool)
	for _, k := range keys {
		if seen[k.Key] {
			return repository.ErrDuplicate
		}
		seen[k.Key] = true
		if exists, _ := r.KeyExists(context.Background(), k.Key); exists {
			return repository.ErrDuplicate
		}
	}
	for _, k := range keys {
		k.ID = primitive.NewObjectID()
		cp := k
		r.keys[k.ID] = &cp
	}
	return nil
}

func (r *fakeKeyRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]model.GameKey, error) {
	var out []model.GameKey
	for _, k := range r.keys {
		if k.UserID == userID {
			out = append(out, *k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeKeyRepo) FindByIDForUser(_ context.Context, id, userID primitive.ObjectID) (*model.GameKey, error) {
	k, ok := r.keys[id]
	if !ok || k.UserID != userID {
		return nil, nil
	}
	cp := *k
	return &cp, nil
}

func (r *fakeKeyRepo) MarkUsed(_ context.Context, id, userID primitive.ObjectID) (bool, error) {
	k, ok := r.keys[id]
	if !ok || k.UserID != userID || k.Status != model.KeyStatusUnused {
		return false, nil
	}
	now := time.Now()
	k.Status = model.KeyStatusUsed
	k.UsedAt = &now
	return true, nil
}

func (r *fakeKeyRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, k := range r.keys {
		if k.Status == status {
			n++
		}
	}
	return n, nil
}

type fakePostRepo struct {
	posts map[primitive.ObjectID]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]*model.Post)}
}

func (r *fakePostRepo) List(_ context.Context, limit int) ([]model.Post, error) {
	out := make([]model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) Create(_ context.Context, p *model.Post) error {
	p.ID = primitive.NewObjectID()
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r *fakePostRepo) Update(_ context.Context, p *model.Post) error {
	stored, ok := r.posts[p.ID]
	if !ok {
		return errors.New("post not found")
	}
	cp := *p
	cp.Likes = stored.Likes
	cp.LikesCount = stored.LikesCount
	cp.CommentsCount = stored.CommentsCount
	r.posts[p.ID] = &cp
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) SetLike(_ context.Context, postID, userID primitive.ObjectID, liked bool) (int, error) {
	p, ok := r.posts[postID]
	if !ok {
		return 0, errors.New("post not found")
	}
	has := p.LikedBy(userID)
	if liked && !has {
		p.Likes = append(p.Likes, userID)
		p.LikesCount++
	}
	if !liked && has {
		for i, id := range p.Likes {
			if id == userID {
				p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
				break
			}
		}
		p.LikesCount--
	}
	return p.LikesCount, nil
}

func (r *fakePostRepo) IncComments(_ context.Context, postID primitive.ObjectID, delta int) (int, error) {
	p, ok := r.posts[postID]
	if !ok {
		return 0, errors.New("post not found")
	}
	p.CommentsCount += delta
	return p.CommentsCount, nil
}

type fakeCommentRepo struct {
	comments map[primitive.ObjectID]*model.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[primitive.ObjectID]*model.Comment)}
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID primitive.ObjectID, limit int) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) Create(_ context.Context, c *model.Comment) error {
	c.ID = primitive.NewObjectID()
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) Update(_ context.Context, c *model.Comment) error {
	if _, ok := r.comments[c.ID]; !ok {
		return errors.New("comment not found")
	}
	cp := *c
	r.comments[c.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByPost(_ context.Context, postID primitive.ObjectID) error {
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

// plainTxnRunner runs the function without any transaction, like the Mongo
// runner does against a standalone server.
type plainTxnRunner struct{}

func (plainTxnRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeEmail records sent codes instead of delivering them.
type fakeEmail struct {
	verifyCodes []string
	resetCodes  []string
	fail        bool
}

func (f *fakeEmail) SendVerificationCode(_, code string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.verifyCodes = append(f.verifyCodes, code)
	return nil
}

func (f *fakeEmail) SendResetCode(_, code string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.resetCodes = append(f.resetCodes, code)
	return nil
}

func (f *fakeEmail) lastVerifyCode() string {
	if len(f.verifyCodes) == 0 {
		return ""
	}
	return f.verifyCodes[len(f.verifyCodes)-1]
}

func (f *fakeEmail) lastResetCode() string {
	if len(f.resetCodes) == 0 {
		return ""
	}
	return f.resetCodes[len(f.resetCodes)-1]
}

// Interface checks for the fakes.
var (
	_ repository.UserRepository    = (*fakeUserRepo)(nil)
	_ repository.GameRepository    = (*fakeGameRepo)(nil)
	_ repository.CartRepository    = (*fakeCartRepo)(nil)
	_ repository.OrderRepository   = (*fakeOrderRepo)(nil)
	_ repository.GameKeyRepository = (*fakeKeyRepo)(nil)
	_ repository.PostRepository    = (*fakePostRepo)(nil)
	_ repository.CommentRepository = (*fakeCommentRepo)(nil)
	_ repository.TxnRunner         = plainTxnRunner{}
	_ EmailSender                  = (*fakeEmail)(nil)
)
