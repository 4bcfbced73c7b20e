package store

import (
	"sync"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// ProfileStore holds the signed-in user's document; nil means not loaded or
// not created yet.
type ProfileStore struct {
	mu   sync.RWMutex
	user *models.User
}

// NewProfileStore returns an empty store
func NewProfileStore() *ProfileStore {
	return &ProfileStore{}
}

// Set replaces the stored user; nil clears it
func (s *ProfileStore) Set(user *models.User) {
	var cp *models.User
	if user != nil {
		cp = cloneUser(user)
	}

	s.mu.Lock()
	s.user = cp
	s.mu.Unlock()
}

// Update applies fn to the stored user, creating an empty one if absent
func (s *ProfileStore) Update(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		s.user = &models.User{}
	}
	fn(s.user)
}

// Clear forgets the user
func (s *ProfileStore) Clear() {
	s.Set(nil)
}

// Profile returns a copy of the stored user and whether one is present
func (s *ProfileStore) Profile() (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil, false
	}
	return cloneUser(s.user), true
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	if u.Profile != nil {
		p := *u.Profile
		p.Skills = append([]string(nil), u.Profile.Skills...)
		p.Keywords = append([]string(nil), u.Profile.Keywords...)
		p.WorkExperience = append([]models.WorkExperience(nil), u.Profile.WorkExperience...)
		cp.Profile = &p
	}
	return &cp
}
