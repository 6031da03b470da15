// Package memory keeps users, roles, history and social links in process
// memory. It honours the same error contract as the PostgreSQL repositories
// and backs local runs and tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"

	"github.com/google/uuid"
)

type link struct {
	userID, roleID uuid.UUID
}

type Store struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]auth.User
	roles   map[uuid.UUID]auth.Role
	links   map[link]time.Time
	history []auth.LoginHistory
	socials []auth.SocialAccount

	// HistoryErr, when set, is returned by every history write.
	HistoryErr error
}

func New() *Store {
	return &Store{
		users: make(map[uuid.UUID]auth.User),
		roles: make(map[uuid.UUID]auth.Role),
		links: make(map[link]time.Time),
	}
}

func (s *Store) Users() *UserRepository         { return &UserRepository{s} }
func (s *Store) Roles() *RoleRepository         { return &RoleRepository{s} }
func (s *Store) UserRoles() *UserRoleRepository { return &UserRoleRepository{s} }
func (s *Store) History() *HistoryRepository    { return &HistoryRepository{s} }
func (s *Store) Socials() *SocialRepository     { return &SocialRepository{s} }

// withRoles must be called with the lock held.
func (s *Store) withRoles(u auth.User) *auth.User {
	u.Roles = s.rolesOf(u.ID)
	return &u
}

func (s *Store) rolesOf(userID uuid.UUID) []auth.Role {
	roles := []auth.Role{}
	for l := range s.links {
		if l.userID == userID {
			roles = append(roles, s.roles[l.roleID])
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Title < roles[j].Title })
	return roles
}

// ========== Users ==========

type UserRepository struct{ s *Store }

var _ auth.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, u *auth.User) (*auth.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return nil, xerrors.ErrConflict
		}
	}
	created := *u
	now := time.Now().UTC()
	created.CreatedAt, created.UpdatedAt = now, now
	created.Roles = nil
	r.s.users[created.ID] = created
	return r.s.withRoles(created), nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return r.s.withRoles(u), nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*auth.User, error) {
	if strings.Contains(login, "@") {
		u, err := r.find(func(u auth.User) bool { return u.Email == login })
		if !errors.Is(err, xerrors.ErrNotFound) {
			return u, err
		}
	}
	return r.find(func(u auth.User) bool { return u.Username == login })
}

func (r *UserRepository) GetByCredentials(_ context.Context, email, username string) (*auth.User, error) {
	u, err := r.find(func(u auth.User) bool { return u.Email == email })
	if !errors.Is(err, xerrors.ErrNotFound) {
		return u, err
	}
	return r.find(func(u auth.User) bool { return u.Username == username })
}

func (r *UserRepository) find(match func(auth.User) bool) (*auth.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return r.s.withRoles(u), nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *UserRepository) UpdateUsername(_ context.Context, id uuid.UUID, username string) (*auth.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for otherID, other := range r.s.users {
		if otherID != id && other.Username == username {
			return nil, xerrors.ErrConflict
		}
	}
	return r.update(id, func(u *auth.User) { u.Username = username })
}

func (r *UserRepository) UpdatePassword(_ context.Context, id uuid.UUID, hashedPassword string) (*auth.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.update(id, func(u *auth.User) { u.HashedPassword = hashedPassword })
}

// update must be called with the write lock held.
func (r *UserRepository) update(id uuid.UUID, fn func(*auth.User)) (*auth.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return r.s.withRoles(u), nil
}

func (r *UserRepository) List(_ context.Context) ([]auth.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]auth.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, *r.s.withRoles(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// Delete is not part of auth.UserRepository; it lets callers simulate removed accounts.
func (r *UserRepository) Delete(id uuid.UUID) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.users, id)
	for l := range r.s.links {
		if l.userID == id {
			delete(r.s.links, l)
		}
	}
}

// ========== Roles ==========

type RoleRepository struct{ s *Store }

var _ auth.RoleRepository = (*RoleRepository)(nil)

func (r *RoleRepository) List(_ context.Context) ([]auth.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	roles := make([]auth.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Title < roles[j].Title })
	return roles, nil
}

func (r *RoleRepository) GetByID(_ context.Context, id uuid.UUID) (*auth.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	role, ok := r.s.roles[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &role, nil
}

func (r *RoleRepository) GetByTitle(_ context.Context, title string) (*auth.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, role := range r.s.roles {
		if role.Title == title {
			return &role, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *RoleRepository) Create(_ context.Context, role *auth.Role) (*auth.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.titleTaken(role.ID, role.Title) {
		return nil, xerrors.ErrConflict
	}
	r.s.roles[role.ID] = *role
	created := *role
	return &created, nil
}

func (r *RoleRepository) Update(_ context.Context, role *auth.Role) (*auth.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.roles[role.ID]; !ok {
		return nil, xerrors.ErrNotFound
	}
	if r.titleTaken(role.ID, role.Title) {
		return nil, xerrors.ErrConflict
	}
	r.s.roles[role.ID] = *role
	updated := *role
	return &updated, nil
}

func (r *RoleRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.roles[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.s.roles, id)
	for l := range r.s.links {
		if l.roleID == id {
			delete(r.s.links, l)
		}
	}
	return nil
}

func (r *RoleRepository) titleTaken(id uuid.UUID, title string) bool {
	for otherID, other := range r.s.roles {
		if otherID != id && other.Title == title {
			return true
		}
	}
	return false
}

// ========== Role assignments ==========

type UserRoleRepository struct{ s *Store }

var _ auth.UserRoleRepository = (*UserRoleRepository)(nil)

func (r *UserRoleRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]auth.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.rolesOf(userID), nil
}

func (r *UserRoleRepository) Exists(_ context.Context, userID, roleID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.links[link{userID, roleID}]
	return ok, nil
}

func (r *UserRoleRepository) Assign(_ context.Context, userID, roleID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return xerrors.ErrNotFound
	}
	if _, ok := r.s.roles[roleID]; !ok {
		return xerrors.ErrNotFound
	}
	l := link{userID, roleID}
	if _, ok := r.s.links[l]; ok {
		return xerrors.ErrConflict
	}
	r.s.links[l] = time.Now()
	return nil
}

func (r *UserRoleRepository) Revoke(_ context.Context, userID, roleID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l := link{userID, roleID}
	if _, ok := r.s.links[l]; !ok {
		return false, nil
	}
	delete(r.s.links, l)
	return true, nil
}

// ========== Login history ==========

type HistoryRepository struct{ s *Store }

var _ auth.HistoryRepository = (*HistoryRepository)(nil)

func (r *HistoryRepository) Create(_ context.Context, h *auth.LoginHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.HistoryErr != nil {
		return r.s.HistoryErr
	}
	r.s.history = append(r.s.history, *h)
	return nil
}

// ListByUser returns the newest entries first.
func (r *HistoryRepository) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]auth.LoginHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entries := []auth.LoginHistory{}
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if r.s.history[i].UserID == userID {
			entries = append(entries, r.s.history[i])
		}
	}
	if offset >= len(entries) {
		return []auth.LoginHistory{}, nil
	}
	entries = entries[offset:]
	if limit >= 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// All returns every entry in insertion order.
func (r *HistoryRepository) All() []auth.LoginHistory {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]auth.LoginHistory(nil), r.s.history...)
}

// ========== Social accounts ==========

type SocialRepository struct{ s *Store }

var _ auth.SocialRepository = (*SocialRepository)(nil)

func (r *SocialRepository) Get(_ context.Context, socialName, socialID string) (*auth.SocialAccount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.socials {
		if a.SocialName == socialName && a.SocialID == socialID {
			return &a, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *SocialRepository) Create(_ context.Context, a *auth.SocialAccount) (*auth.SocialAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.socials {
		if existing.SocialName == a.SocialName && existing.SocialID == a.SocialID {
			return nil, xerrors.ErrConflict
		}
	}
	r.s.socials = append(r.s.socials, *a)
	created := *a
	return &created, nil
}

// All returns every linked account.
func (r *SocialRepository) All() []auth.SocialAccount {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]auth.SocialAccount(nil), r.s.socials...)
}
