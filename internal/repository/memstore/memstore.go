// Package memstore keeps users, posts, comments and notifications in process
// memory. It backs local runs with MONGO_URI=memory:// and the service tests,
// and mirrors the query semantics of the MongoDB repositories: newest-first
// post scans, case-insensitive literal substring search, keyset bounds.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"echo-me/internal/apperr"
	"echo-me/internal/models"
)

// Store holds every collection behind one lock. Rows are kept in insertion
// order, which is the store-native order for unsorted scans.
type Store struct {
	mu            sync.RWMutex
	users         []*models.User
	posts         []*models.Post
	comments      []*models.Comment
	notifications []*models.Notification
}

func New() *Store { return &Store{} }

func (s *Store) Users() *Users                 { return &Users{s} }
func (s *Store) Posts() *Posts                 { return &Posts{s} }
func (s *Store) Comments() *Comments           { return &Comments{s} }
func (s *Store) Notifications() *Notifications { return &Notifications{s} }

func cloneIDs(ids []bson.ObjectID) []bson.ObjectID {
	if ids == nil {
		return nil
	}
	return append([]bson.ObjectID{}, ids...)
}

func addToSet(ids []bson.ObjectID, id bson.ObjectID) []bson.ObjectID {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}

func pull(ids []bson.ObjectID, id bson.ObjectID) []bson.ObjectID {
	out := ids[:0:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func live(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore("memstore", err)
	}
	return nil
}

// ---- users ----

type Users struct{ s *Store }

func copyUser(u *models.User) *models.User {
	c := *u
	c.Followers = cloneIDs(u.Followers)
	c.Followings = cloneIDs(u.Followings)
	return &c
}

func (r *Users) find(match func(*models.User) bool) *models.User {
	for _, u := range r.s.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func (r *Users) findOne(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u := r.find(match); u != nil {
		return copyUser(u), nil
	}
	return nil, apperr.NotFound("user")
}

func (r *Users) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return r.findOne(ctx, func(u *models.User) bool { return u.ID == id })
}

func (r *Users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, func(u *models.User) bool { return u.Username == username })
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, func(u *models.User) bool { return u.Email == email })
}

func (r *Users) FindSummaries(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.UserSummary, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	want := make(map[bson.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[bson.ObjectID]models.UserSummary, len(ids))
	for _, u := range r.s.users {
		if _, ok := want[u.ID]; ok {
			out[u.ID] = u.Summary()
		}
	}
	return out, nil
}

func (r *Users) Search(ctx context.Context, contains string, limit int64) ([]models.User, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.User
	for _, u := range r.s.users {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		if containsFold(u.Username, contains) {
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

func (r *Users) Insert(ctx context.Context, u *models.User) error {
	if err := live(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.find(func(x *models.User) bool {
		return x.ID == u.ID || x.Username == u.Username || x.Email == u.Email
	}) != nil {
		return apperr.Conflict("user")
	}
	r.s.users = append(r.s.users, copyUser(u))
	return nil
}

func (r *Users) mutate(ctx context.Context, id bson.ObjectID, fn func(*models.User)) (*models.User, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.find(func(x *models.User) bool { return x.ID == id })
	if u == nil {
		return nil, apperr.NotFound("user")
	}
	fn(u)
	return copyUser(u), nil
}

func (r *Users) Update(ctx context.Context, id bson.ObjectID, patch models.UserPatch, now time.Time) (*models.User, error) {
	return r.mutate(ctx, id, func(u *models.User) { patch.Apply(u, now) })
}

func (r *Users) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := live(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, u := range r.s.users {
		if u.ID == id {
			r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("user")
}

func (r *Users) AddFollowing(ctx context.Context, userID, followeeID bson.ObjectID) error {
	_, err := r.mutate(ctx, userID, func(u *models.User) { u.Followings = addToSet(u.Followings, followeeID) })
	return err
}

func (r *Users) RemoveFollowing(ctx context.Context, userID, followeeID bson.ObjectID) error {
	_, err := r.mutate(ctx, userID, func(u *models.User) { u.Followings = pull(u.Followings, followeeID) })
	return err
}

func (r *Users) AddFollower(ctx context.Context, userID, followerID bson.ObjectID) error {
	_, err := r.mutate(ctx, userID, func(u *models.User) { u.Followers = addToSet(u.Followers, followerID) })
	return err
}

func (r *Users) RemoveFollower(ctx context.Context, userID, followerID bson.ObjectID) error {
	_, err := r.mutate(ctx, userID, func(u *models.User) { u.Followers = pull(u.Followers, followerID) })
	return err
}

// ---- posts ----

type Posts struct{ s *Store }

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Likes = cloneIDs(p.Likes)
	return &c
}

// newerFirst orders by (created_at, _id) descending, like the repository sort.
func newerFirst(at, bt time.Time, aid, bid bson.ObjectID) bool {
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return aid.Hex() > bid.Hex()
}

func (r *Posts) FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.posts {
		if p.ID == id {
			return copyPost(p), nil
		}
	}
	return nil, apperr.NotFound("post")
}

func (r *Posts) Find(ctx context.Context, q models.PostQuery) ([]models.Post, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	authors := make(map[bson.ObjectID]struct{}, len(q.AuthorIDs))
	for _, id := range q.AuthorIDs {
		authors[id] = struct{}{}
	}

	r.s.mu.RLock()
	var out []models.Post
	for _, p := range r.s.posts {
		if len(authors) > 0 {
			if _, ok := authors[p.UserID]; !ok {
				continue
			}
		}
		if q.Contains != "" && !containsFold(p.Text, q.Contains) {
			continue
		}
		if q.Before != nil && !newerFirst(q.Before.CreatedAt, p.CreatedAt, q.Before.ID, p.ID) {
			continue
		}
		out = append(out, *copyPost(p))
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *Posts) Insert(ctx context.Context, p *models.Post) error {
	if err := live(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.posts = append(r.s.posts, copyPost(p))
	return nil
}

func (r *Posts) mutate(ctx context.Context, id bson.ObjectID, fn func(*models.Post)) (*models.Post, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.posts {
		if p.ID == id {
			fn(p)
			return copyPost(p), nil
		}
	}
	return nil, apperr.NotFound("post")
}

func (r *Posts) Update(ctx context.Context, id bson.ObjectID, patch models.PostPatch, now time.Time) (*models.Post, error) {
	return r.mutate(ctx, id, func(p *models.Post) {
		if patch.Text != nil {
			p.Text = *patch.Text
		}
		if patch.Image != nil {
			p.Image = *patch.Image
		}
		p.UpdatedAt = now
	})
}

func (r *Posts) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := live(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, p := range r.s.posts {
		if p.ID == id {
			r.s.posts = append(r.s.posts[:i], r.s.posts[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("post")
}

func (r *Posts) AddLike(ctx context.Context, postID, userID bson.ObjectID) error {
	_, err := r.mutate(ctx, postID, func(p *models.Post) { p.Likes = addToSet(p.Likes, userID) })
	return err
}

func (r *Posts) RemoveLike(ctx context.Context, postID, userID bson.ObjectID) error {
	_, err := r.mutate(ctx, postID, func(p *models.Post) { p.Likes = pull(p.Likes, userID) })
	return err
}

// ---- comments ----

type Comments struct{ s *Store }

func copyComment(c *models.Comment) *models.Comment {
	out := *c
	out.Likes = cloneIDs(c.Likes)
	return &out
}

func (r *Comments) FindByID(ctx context.Context, id bson.ObjectID) (*models.Comment, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.comments {
		if c.ID == id {
			return copyComment(c), nil
		}
	}
	return nil, apperr.NotFound("comment")
}

func (r *Comments) FindTopLevel(ctx context.Context, postID bson.ObjectID) ([]models.Comment, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	var out []models.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID && c.ParentID == nil {
			out = append(out, *copyComment(c))
		}
	}
	r.s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *Comments) FindReplies(ctx context.Context, rootIDs []bson.ObjectID) ([]models.Comment, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	roots := make(map[bson.ObjectID]struct{}, len(rootIDs))
	for _, id := range rootIDs {
		roots[id] = struct{}{}
	}
	r.s.mu.RLock()
	var out []models.Comment
	for _, c := range r.s.comments {
		if c.RootID == nil {
			continue
		}
		if _, ok := roots[*c.RootID]; ok {
			out = append(out, *copyComment(c))
		}
	}
	r.s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[j].CreatedAt, out[i].CreatedAt, out[j].ID, out[i].ID)
	})
	return out, nil
}

func (r *Comments) Insert(ctx context.Context, c *models.Comment) error {
	if err := live(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.comments = append(r.s.comments, copyComment(c))
	return nil
}

func (r *Comments) mutate(ctx context.Context, id bson.ObjectID, fn func(*models.Comment)) (*models.Comment, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.comments {
		if c.ID == id {
			fn(c)
			return copyComment(c), nil
		}
	}
	return nil, apperr.NotFound("comment")
}

func (r *Comments) UpdateText(ctx context.Context, id bson.ObjectID, text string, now time.Time) (*models.Comment, error) {
	return r.mutate(ctx, id, func(c *models.Comment) {
		c.Text = text
		c.UpdatedAt = now
	})
}

// removeLocked drops matching comments; the caller holds the write lock.
func (r *Comments) removeLocked(match func(*models.Comment) bool) int64 {
	kept := r.s.comments[:0]
	var n int64
	for _, c := range r.s.comments {
		if match(c) {
			n++
			continue
		}
		kept = append(kept, c)
	}
	clear(r.s.comments[len(kept):])
	r.s.comments = kept
	return n
}

func (r *Comments) deleteWhere(ctx context.Context, match func(*models.Comment) bool) (int64, error) {
	if err := live(ctx); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.removeLocked(match), nil
}

func (r *Comments) DeleteThread(ctx context.Context, id bson.ObjectID) (int64, error) {
	if err := live(ctx); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var target *models.Comment
	for _, c := range r.s.comments {
		if c.ID == id {
			target = c
			break
		}
	}
	if target == nil {
		return 0, apperr.NotFound("comment")
	}
	root := target.ThreadRoot()
	var thread []models.Comment
	for _, c := range r.s.comments {
		if c.RootID != nil && *c.RootID == root {
			thread = append(thread, *c)
		}
	}
	doomed := make(map[bson.ObjectID]bool)
	for _, d := range models.Subtree(id, thread) {
		doomed[d] = true
	}
	return r.removeLocked(func(c *models.Comment) bool { return doomed[c.ID] }), nil
}

func (r *Comments) DeleteByPost(ctx context.Context, postID bson.ObjectID) (int64, error) {
	return r.deleteWhere(ctx, func(c *models.Comment) bool { return c.PostID == postID })
}

func (r *Comments) AddLike(ctx context.Context, commentID, userID bson.ObjectID) error {
	_, err := r.mutate(ctx, commentID, func(c *models.Comment) { c.Likes = addToSet(c.Likes, userID) })
	return err
}

func (r *Comments) RemoveLike(ctx context.Context, commentID, userID bson.ObjectID) error {
	_, err := r.mutate(ctx, commentID, func(c *models.Comment) { c.Likes = pull(c.Likes, userID) })
	return err
}

// ---- notifications ----

type Notifications struct{ s *Store }

func sameRef(a, b *bson.ObjectID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *Notifications) FindRecent(ctx context.Context, key models.NotiKey, since time.Time) (*models.Notification, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var best *models.Notification
	for _, n := range r.s.notifications {
		k := n.Key()
		if k.RecipientID != key.RecipientID || k.SenderID != key.SenderID || k.Kind != key.Kind || !sameRef(k.PostID, key.PostID) {
			continue
		}
		if n.CreatedAt.Before(since) {
			continue
		}
		if best == nil || n.CreatedAt.After(best.CreatedAt) {
			best = n
		}
	}
	if best == nil {
		return nil, apperr.NotFound("notification")
	}
	c := *best
	return &c, nil
}

func (r *Notifications) FindByID(ctx context.Context, id bson.ObjectID) (*models.Notification, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, n := range r.s.notifications {
		if n.ID == id {
			c := *n
			return &c, nil
		}
	}
	return nil, apperr.NotFound("notification")
}

func (r *Notifications) Insert(ctx context.Context, n *models.Notification) error {
	if err := live(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *n
	r.s.notifications = append(r.s.notifications, &c)
	return nil
}

func (r *Notifications) ListByRecipient(ctx context.Context, recipientID bson.ObjectID, skip, limit int64) ([]models.Notification, int64, error) {
	if err := live(ctx); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	var all []models.Notification
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID {
			all = append(all, *n)
		}
	}
	r.s.mu.RUnlock()
	sort.SliceStable(all, func(i, j int) bool {
		return newerFirst(all[i].CreatedAt, all[j].CreatedAt, all[i].ID, all[j].ID)
	})
	if skip < 0 || limit < 0 {
		return nil, 0, apperr.InvalidArgument("skip and limit must not be negative")
	}
	total := int64(len(all))
	if skip >= total {
		return []models.Notification{}, total, nil
	}
	end := total
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return all[skip:end], total, nil
}

func (r *Notifications) CountUnread(ctx context.Context, recipientID bson.ObjectID) (int64, error) {
	if err := live(ctx); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, x := range r.s.notifications {
		if x.RecipientID == recipientID && !x.Read {
			n++
		}
	}
	return n, nil
}

func (r *Notifications) MarkRead(ctx context.Context, id bson.ObjectID, at time.Time) (*models.Notification, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == id {
			n.Read = true
			t := at
			n.ReadAt = &t
			c := *n
			return &c, nil
		}
	}
	return nil, apperr.NotFound("notification")
}

func (r *Notifications) MarkAllRead(ctx context.Context, recipientID bson.ObjectID, at time.Time) (int64, error) {
	if err := live(ctx); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var changed int64
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			t := at
			n.ReadAt = &t
			changed++
		}
	}
	return changed, nil
}

func (r *Notifications) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := live(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, n := range r.s.notifications {
		if n.ID == id {
			r.s.notifications = append(r.s.notifications[:i], r.s.notifications[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("notification")
}
