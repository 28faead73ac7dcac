package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/Dosada05/cup-site/models"
	"github.com/Dosada05/cup-site/repositories"
	"github.com/Dosada05/cup-site/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storeDown(kind repositories.EntityKind) error {
	return fmt.Errorf("%w: list %s: connection refused", repositories.ErrStoreUnavailable, kind)
}

type fakeTeamRepo struct {
	mu     sync.Mutex
	teams  []models.Team
	err    error
	nextID int
}

func (f *fakeTeamRepo) GetAll(ctx context.Context) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Team, len(f.teams))
	copy(out, f.teams)
	return out, nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.teams {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) conflictLocked(team *models.Team) bool {
	for _, t := range f.teams {
		if t.ID != team.ID && (t.Name == team.Name || t.Slug == team.Slug) {
			return true
		}
	}
	return false
}

func (f *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.conflictLocked(team) {
		return repositories.ErrTeamNameConflict
	}
	f.nextID++
	team.ID = 100 + f.nextID
	f.teams = append(f.teams, *team)
	return nil
}

func (f *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.conflictLocked(team) {
		return repositories.ErrTeamNameConflict
	}
	for i := range f.teams {
		if f.teams[i].ID == team.ID {
			f.teams[i] = *team
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) SetLogoKey(ctx context.Context, id int, key *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.teams {
		if f.teams[i].ID == id {
			f.teams[i].LogoKey = key
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.teams {
		if f.teams[i].ID == id {
			f.teams = append(f.teams[:i], f.teams[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players []models.Player
	err     error
	nextID  int
}

func (f *fakePlayerRepo) GetAll(ctx context.Context) ([]models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Player, len(f.players))
	copy(out, f.players)
	return out, nil
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.players {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	player.ID = 500 + f.nextID
	f.players = append(f.players, *player)
	return nil
}

func (f *fakePlayerRepo) replace(player *models.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.players {
		if f.players[i].ID == player.ID {
			f.players[i] = *player
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error {
	return f.replace(player)
}

func (f *fakePlayerRepo) UpdateAuction(ctx context.Context, player *models.Player, from ...models.AuctionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.players {
		if f.players[i].ID != player.ID {
			continue
		}
		if len(from) > 0 && !slices.Contains(from, f.players[i].AuctionStatus) {
			return repositories.ErrAuctionStateChanged
		}
		f.players[i] = *player
		return nil
	}
	return repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.players {
		if f.players[i].ID == id {
			f.players = append(f.players[:i], f.players[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

type fakeUserRepo struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	user.ID = len(f.users) + 1
	cp := *user
	f.users[user.Email] = &cp
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type broadcast struct {
	Room    string
	Type    string
	Payload any
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []broadcast
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID string, msgType string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, broadcast{Room: roomID, Type: msgType, Payload: payload})
}

type fakeUploader struct {
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (f *fakeUploader) Put(ctx context.Context, key string, contentType string, body io.Reader) (*storage.StoredLogo, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return nil, err
	}
	f.uploaded = append(f.uploaded, key)
	return &storage.StoredLogo{Key: key, URL: f.URL(key)}, nil
}

func (f *fakeUploader) Remove(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) URL(key string) string {
	return "https://cdn.example.com/" + key
}
