// Package memstore is an in-memory implementation of every repository, used when DATABASE_URL is
// unset (local development) and by service tests. It enforces the same unique constraints and
// ON DELETE CASCADE rules as migrations/000001_init.up.sql under a single mutex.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	membershipdomain "tenant-accounts/backend/internal/membership/domain"
	orgdomain "tenant-accounts/backend/internal/organization/domain"
	reportdomain "tenant-accounts/backend/internal/report/domain"
	roledomain "tenant-accounts/backend/internal/role/domain"
	userdomain "tenant-accounts/backend/internal/user/domain"
)

// ErrForeignKey mirrors a foreign key violation: the referenced row does not exist.
var ErrForeignKey = errors.New("memstore: referenced row does not exist")

// Store holds all tables. Use the accessor methods to obtain per-entity repositories.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*userdomain.User
	orgs        map[string]*orgdomain.Org
	roles       map[string]*roledomain.Role
	memberships map[string]*membershipdomain.Membership
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:       make(map[string]*userdomain.User),
		orgs:        make(map[string]*orgdomain.Org),
		roles:       make(map[string]*roledomain.Role),
		memberships: make(map[string]*membershipdomain.Membership),
	}
}

// PingContext always succeeds; it lets the store stand in for the database in health checks.
func (s *Store) PingContext(ctx context.Context) error { return nil }

func (s *Store) Users() *UserRepository             { return &UserRepository{s: s} }
func (s *Store) Organizations() *OrgRepository       { return &OrgRepository{s: s} }
func (s *Store) Roles() *RoleRepository              { return &RoleRepository{s: s} }
func (s *Store) Memberships() *MembershipRepository { return &MembershipRepository{s: s} }
func (s *Store) Reports() *ReportRepository         { return &ReportRepository{s: s} }

// UserRepository implements user/repository.Repository.
type UserRepository struct{ s *Store }

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyUser(r.s.users[id]), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

func (r *UserRepository) Create(ctx context.Context, u *userdomain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return userdomain.ErrDuplicateEmail
		}
		if existing.Username == u.Username {
			return userdomain.ErrDuplicateUsername
		}
	}
	r.s.users[u.ID] = copyUser(u)
	return nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, nil
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	return true, nil
}

// OrgRepository implements organization/repository.Repository.
type OrgRepository struct{ s *Store }

func (r *OrgRepository) GetOrganizationByID(ctx context.Context, id string) (*orgdomain.Org, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyOrg(r.s.orgs[id]), nil
}

func (r *OrgRepository) CreateOrganization(ctx context.Context, o *orgdomain.Org) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orgs[o.ID] = copyOrg(o)
	return nil
}

func (r *OrgRepository) UpdateOrganization(ctx context.Context, o *orgdomain.Org) (*orgdomain.Org, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.orgs[o.ID]
	if !ok {
		return nil, nil
	}
	cur.Status = o.Status
	cur.Settings = o.Settings.Clone()
	cur.UpdatedAt = o.UpdatedAt
	return copyOrg(cur), nil
}

func (r *OrgRepository) DeleteOrganization(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orgs[id]; !ok {
		return false, nil
	}
	delete(r.s.orgs, id)
	for rid, role := range r.s.roles {
		if role.OrgID == id {
			delete(r.s.roles, rid)
		}
	}
	for mid, m := range r.s.memberships {
		if m.OrgID == id {
			delete(r.s.memberships, mid)
		}
	}
	return true, nil
}

// RoleRepository implements role/repository.Repository.
type RoleRepository struct{ s *Store }

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*roledomain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyRole(r.s.roles[id]), nil
}

func (r *RoleRepository) GetByOrgAndName(ctx context.Context, orgID, name string) (*roledomain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.roles {
		if role.OrgID == orgID && role.Name == name {
			return copyRole(role), nil
		}
	}
	return nil, nil
}

func (r *RoleRepository) ListByOrg(ctx context.Context, orgID string) ([]*roledomain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*roledomain.Role{}
	for _, role := range r.s.roles {
		if role.OrgID == orgID {
			out = append(out, copyRole(role))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *RoleRepository) Create(ctx context.Context, role *roledomain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orgs[role.OrgID]; !ok {
		return ErrForeignKey
	}
	for _, existing := range r.s.roles {
		if existing.OrgID == role.OrgID && existing.Name == role.Name {
			return roledomain.ErrDuplicateRole
		}
	}
	r.s.roles[role.ID] = copyRole(role)
	return nil
}

func (r *RoleRepository) Update(ctx context.Context, role *roledomain.Role) (*roledomain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.roles[role.ID]
	if !ok {
		return nil, nil
	}
	for _, existing := range r.s.roles {
		if existing.ID != cur.ID && existing.OrgID == cur.OrgID && existing.Name == role.Name {
			return nil, roledomain.ErrDuplicateRole
		}
	}
	cur.Name = role.Name
	cur.Description = copyString(role.Description)
	return copyRole(cur), nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[id]; !ok {
		return false, nil
	}
	delete(r.s.roles, id)
	for mid, m := range r.s.memberships {
		if m.RoleID == id {
			delete(r.s.memberships, mid)
		}
	}
	return true, nil
}

// MembershipRepository implements membership/repository.Repository.
type MembershipRepository struct{ s *Store }

func (r *MembershipRepository) GetMembershipByID(ctx context.Context, id string) (*membershipdomain.Membership, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyMembership(r.s.memberships[id]), nil
}

func (r *MembershipRepository) ListByOrg(ctx context.Context, orgID string) ([]*membershipdomain.Membership, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.selectMemberships(func(m *membershipdomain.Membership) bool { return m.OrgID == orgID }), nil
}

func (r *MembershipRepository) ListByOrgAndUser(ctx context.Context, orgID, userID string) ([]*membershipdomain.Membership, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.selectMemberships(func(m *membershipdomain.Membership) bool {
		return m.OrgID == orgID && m.UserID == userID
	}), nil
}

func (r *MembershipRepository) Exists(ctx context.Context, orgID, userID, roleID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.grantExists(orgID, userID, roleID), nil
}

func (r *MembershipRepository) CreateMembership(ctx context.Context, m *membershipdomain.Membership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, okOrg := r.s.orgs[m.OrgID]
	_, okUser := r.s.users[m.UserID]
	_, okRole := r.s.roles[m.RoleID]
	if !okOrg || !okUser || !okRole {
		return ErrForeignKey
	}
	if r.s.grantExists(m.OrgID, m.UserID, m.RoleID) {
		return membershipdomain.ErrDuplicateMembership
	}
	r.s.memberships[m.ID] = copyMembership(m)
	return nil
}

func (r *MembershipRepository) DeleteByOrgAndUser(ctx context.Context, orgID, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.memberships {
		if m.OrgID == orgID && m.UserID == userID {
			delete(r.s.memberships, id)
			n++
		}
	}
	return n, nil
}

func (r *MembershipRepository) ReassignRole(ctx context.Context, orgID, userID, roleID string, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[roleID]; !ok {
		return 0, ErrForeignKey
	}
	rows := r.s.selectMemberships(func(m *membershipdomain.Membership) bool {
		return m.OrgID == orgID && m.UserID == userID
	})
	if len(rows) == 0 {
		return 0, nil
	}
	for _, m := range rows[1:] {
		delete(r.s.memberships, m.ID)
	}
	kept := r.s.memberships[rows[0].ID]
	kept.RoleID = roleID
	kept.UpdatedAt = at
	return int64(len(rows)), nil
}

// ReportRepository implements report/repository.Repository by scanning memberships.
type ReportRepository struct{ s *Store }

func (r *ReportRepository) RoleWiseUserCount(ctx context.Context, f reportdomain.Filter) ([]reportdomain.RoleCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int64{}
	for _, m := range r.s.memberships {
		role, ok := r.s.roles[m.RoleID]
		if !ok || !f.Matches(m.CreatedAt, m.Status) {
			continue
		}
		counts[role.Name]++
	}
	out := make([]reportdomain.RoleCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, reportdomain.RoleCount{RoleName: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoleName < out[j].RoleName })
	return out, nil
}

func (r *ReportRepository) OrganizationWiseMemberCount(ctx context.Context, f reportdomain.Filter) ([]reportdomain.OrgCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int64{}
	for _, m := range r.s.memberships {
		org, ok := r.s.orgs[m.OrgID]
		if !ok || !f.Matches(m.CreatedAt, m.Status) {
			continue
		}
		counts[org.Name]++
	}
	out := make([]reportdomain.OrgCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, reportdomain.OrgCount{OrgName: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrgName < out[j].OrgName })
	return out, nil
}

func (r *ReportRepository) OrganizationRoleWiseUserCount(ctx context.Context, f reportdomain.Filter) ([]reportdomain.OrgRoleCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	type key struct{ org, role string }
	counts := map[key]int64{}
	for _, m := range r.s.memberships {
		org, okOrg := r.s.orgs[m.OrgID]
		role, okRole := r.s.roles[m.RoleID]
		if !okOrg || !okRole || !f.Matches(m.CreatedAt, m.Status) {
			continue
		}
		counts[key{org.Name, role.Name}]++
	}
	out := make([]reportdomain.OrgRoleCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, reportdomain.OrgRoleCount{OrgName: k.org, RoleName: k.role, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrgName != out[j].OrgName {
			return out[i].OrgName < out[j].OrgName
		}
		return out[i].RoleName < out[j].RoleName
	})
	return out, nil
}

// selectMemberships returns copies of matching memberships, oldest first. Caller holds mu.
func (s *Store) selectMemberships(match func(*membershipdomain.Membership) bool) []*membershipdomain.Membership {
	out := []*membershipdomain.Membership{}
	for _, m := range s.memberships {
		if match(m) {
			out = append(out, copyMembership(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// grantExists reports whether a membership holds the triple. Caller holds mu.
func (s *Store) grantExists(orgID, userID, roleID string) bool {
	for _, m := range s.memberships {
		if m.OrgID == orgID && m.UserID == userID && m.RoleID == roleID {
			return true
		}
	}
	return false
}

func copyUser(u *userdomain.User) *userdomain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Profile = u.Profile.Clone()
	c.Settings = u.Settings.Clone()
	return &c
}

func copyOrg(o *orgdomain.Org) *orgdomain.Org {
	if o == nil {
		return nil
	}
	c := *o
	if o.Personal != nil {
		p := *o.Personal
		c.Personal = &p
	}
	c.Settings = o.Settings.Clone()
	return &c
}

func copyRole(r *roledomain.Role) *roledomain.Role {
	if r == nil {
		return nil
	}
	c := *r
	c.Description = copyString(r.Description)
	return &c
}

func copyMembership(m *membershipdomain.Membership) *membershipdomain.Membership {
	if m == nil {
		return nil
	}
	c := *m
	c.Settings = m.Settings.Clone()
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
