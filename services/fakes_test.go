package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
	"github.com/Dosada05/poker-league/storage"
)

// memStore backs every fake repository. Transactions snapshot players and
// games and restore them when the callback fails.
type memStore struct {
	mu       sync.Mutex
	nextID   int
	players  map[int]models.Player
	games    map[int]models.Game
	accounts map[int]models.Account
	posts    map[int]models.Post
	likes    map[int]map[int]bool
	comments map[int]models.Comment
	clock    time.Time

	failGameWrite error
}

func newMemStore() *memStore {
	return &memStore{
		players:  make(map[int]models.Player),
		games:    make(map[int]models.Game),
		accounts: make(map[int]models.Account),
		posts:    make(map[int]models.Post),
		likes:    make(map[int]map[int]bool),
		comments: make(map[int]models.Comment),
		clock:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func (m *memStore) now() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func copyResults(r models.GameResults) models.GameResults {
	if r == nil {
		return nil
	}
	out := make(models.GameResults, len(r))
	copy(out, r)
	return out
}

type memTransactor struct {
	store *memStore
}

func (t *memTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, exec repositories.SQLExecutor) error) error {
	t.store.mu.Lock()
	players := make(map[int]models.Player, len(t.store.players))
	for k, v := range t.store.players {
		players[k] = v
	}
	games := make(map[int]models.Game, len(t.store.games))
	for k, v := range t.store.games {
		v.Results = copyResults(v.Results)
		games[k] = v
	}
	t.store.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		t.store.mu.Lock()
		t.store.players = players
		t.store.games = games
		t.store.mu.Unlock()
		return err
	}
	return nil
}

type memPlayerRepo struct{ s *memStore }

func (r *memPlayerRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	p.PlayerStats = models.PlayerStats{}
	p.CreatedAt = r.s.now()
	r.s.players[p.ID] = *p
	return nil
}

func (r *memPlayerRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r *memPlayerRepo) LockByIDs(_ context.Context, _ repositories.SQLExecutor, ids []int) (map[int]*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int]*models.Player, len(ids))
	for _, id := range ids {
		if p, ok := r.s.players[id]; ok {
			out[id] = &p
		}
	}
	return out, nil
}

func (r *memPlayerRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Player, 0, len(r.s.players))
	for _, p := range r.s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPlayerRepo) ListByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) ([]models.Player, error) {
	all, _ := r.List(ctx, exec)
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]models.Player, 0, len(ids))
	for _, p := range all {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPlayerRepo) UpdateProfile(_ context.Context, _ repositories.SQLExecutor, p *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.players[p.ID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	cur.Name = p.Name
	cur.Nationality = p.Nationality
	r.s.players[p.ID] = cur
	return nil
}

func (r *memPlayerRepo) IncrementStats(_ context.Context, _ repositories.SQLExecutor, id int, delta models.PlayerStats) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	next := cur.PlayerStats.Add(delta)
	if next.HasNegativeCounter() {
		return repositories.ErrPlayerNegativeCounter
	}
	cur.PlayerStats = next
	r.s.players[id] = cur
	return nil
}

func (r *memPlayerRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.s.players, id)
	return nil
}

type memGameRepo struct{ s *memStore }

func (r *memGameRepo) Create(_ context.Context, _ repositories.SQLExecutor, g *models.Game) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failGameWrite != nil {
		return r.s.failGameWrite
	}
	g.ID = r.s.id()
	g.CreatedAt = r.s.now()
	g.UpdatedAt = g.CreatedAt
	stored := *g
	stored.Results = copyResults(g.Results)
	stored.Players = nil
	r.s.games[g.ID] = stored
	return nil
}

func (r *memGameRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Game, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	g.Results = copyResults(g.Results)
	return &g, nil
}

func (r *memGameRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Game, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *memGameRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]models.Game, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Game, 0, len(r.s.games))
	for _, g := range r.s.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memGameRepo) Replace(_ context.Context, _ repositories.SQLExecutor, g *models.Game) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failGameWrite != nil {
		return r.s.failGameWrite
	}
	cur, ok := r.s.games[g.ID]
	if !ok {
		return repositories.ErrGameNotFound
	}
	cur.Date = g.Date
	cur.NumPlayers = g.NumPlayers
	cur.PrizePool = g.PrizePool
	cur.Results = copyResults(g.Results)
	cur.UpdatedAt = r.s.now()
	g.UpdatedAt = cur.UpdatedAt
	r.s.games[g.ID] = cur
	return nil
}

func (r *memGameRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(r.s.games, id)
	return nil
}

type memAccountRepo struct{ s *memStore }

func (r *memAccountRepo) Create(_ context.Context, a *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.accounts {
		if strings.EqualFold(cur.Username, a.Username) {
			return repositories.ErrAccountUsernameConflict
		}
		if strings.EqualFold(cur.Email, a.Email) {
			return repositories.ErrAccountEmailConflict
		}
	}
	a.ID = r.s.id()
	a.CreatedAt = r.s.now()
	r.s.accounts[a.ID] = *a
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id int) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	return &a, nil
}

func (r *memAccountRepo) GetByLogin(_ context.Context, login string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Deleted {
			continue
		}
		if strings.EqualFold(a.Username, login) || strings.EqualFold(a.Email, login) {
			return &a, nil
		}
	}
	return nil, repositories.ErrAccountNotFound
}

func (r *memAccountRepo) List(_ context.Context) ([]models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memAccountRepo) SoftDelete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok || a.Deleted {
		return repositories.ErrAccountNotFound
	}
	a.Deleted = true
	r.s.accounts[id] = a
	return nil
}

type memPostRepo struct{ s *memStore }

func (r *memPostRepo) withLikes(p models.Post) models.Post {
	ids := make([]int, 0, len(r.s.likes[p.ID]))
	for id := range r.s.likes[p.ID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	p.LikedBy = ids
	p.Likes = len(ids)
	if a, ok := r.s.accounts[p.AuthorID]; ok {
		p.Author = a.Summary()
	}
	return p
}

func (r *memPostRepo) Create(_ context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[p.AuthorID]; !ok {
		return repositories.ErrAccountNotFound
	}
	p.ID = r.s.id()
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	r.s.posts[p.ID] = *p
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id int) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	p = r.withLikes(p)
	return &p, nil
}

func (r *memPostRepo) List(_ context.Context) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		out = append(out, r.withLikes(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memPostRepo) Update(_ context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.posts[p.ID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	cur.Title = p.Title
	cur.Content = p.Content
	cur.ImageKey = p.ImageKey
	cur.UpdatedAt = r.s.now()
	p.UpdatedAt = cur.UpdatedAt
	r.s.posts[p.ID] = cur
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.s.posts, id)
	delete(r.s.likes, id)
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r *memPostRepo) ToggleLike(_ context.Context, postID, accountID int) (bool, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[postID]; !ok {
		return false, 0, repositories.ErrPostNotFound
	}
	if _, ok := r.s.accounts[accountID]; !ok {
		return false, 0, repositories.ErrAccountNotFound
	}
	set := r.s.likes[postID]
	if set == nil {
		set = make(map[int]bool)
		r.s.likes[postID] = set
	}
	if set[accountID] {
		delete(set, accountID)
		return false, len(set), nil
	}
	set[accountID] = true
	return true, len(set), nil
}

type memCommentRepo struct{ s *memStore }

func (r *memCommentRepo) Create(_ context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[c.PostID]; !ok {
		return repositories.ErrPostNotFound
	}
	if _, ok := r.s.accounts[c.AuthorID]; !ok {
		return repositories.ErrAccountNotFound
	}
	c.ID = r.s.id()
	c.CreatedAt = r.s.now()
	r.s.comments[c.ID] = *c
	return nil
}

func (r *memCommentRepo) GetByID(_ context.Context, id int) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repositories.ErrCommentNotFound
	}
	if a, ok := r.s.accounts[c.AuthorID]; ok {
		c.Author = a.Summary()
	}
	return &c, nil
}

func (r *memCommentRepo) ListByPost(_ context.Context, postID int) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCommentRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repositories.ErrCommentNotFound
	}
	delete(r.s.comments, id)
	return nil
}

type fakeUploader struct {
	mu       sync.Mutex
	uploaded map[string][]byte
	deleted  []string
	failWith error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploaded: make(map[string][]byte)}
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.failWith != nil {
		return nil, u.failWith
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploaded[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.uploaded[key]; !ok {
		return errors.New("no such object")
	}
	delete(u.uploaded, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return fmt.Sprintf("https://cdn.test/%s", key)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []LeaderboardEvent
}

func (n *recordingNotifier) LeaderboardUpdated(_ context.Context, e LeaderboardEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) Events() []LeaderboardEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]LeaderboardEvent(nil), n.events...)
}
