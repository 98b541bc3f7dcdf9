package schema

import "time"

type (
	// User represents the authenticated vendor
	User struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		FirstName   string `json:"firstName,omitempty"`
		LastName    string `json:"lastName,omitempty"`
		Role        string `json:"role,omitempty"`
		HasBusiness bool   `json:"hasBusiness"`
	}

	// Store represents a tenant storefront administered by a user
	Store struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Slug        string    `json:"slug,omitempty"`
		Description string    `json:"description,omitempty"`
		Currency    string    `json:"currency,omitempty"`
		CreatedAt   time.Time `json:"createdAt,omitempty"`
	}

	// Profile is the "who am I" response body
	Profile struct {
		User   *User    `json:"user"`
		Stores []*Store `json:"stores"`
	}
)

// FullName returns first and last name joined, or the email when both are empty
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Email
}

// Clone returns a copy of u
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	ret := *u
	return &ret
}

// Clone returns a copy of s
func (s *Store) Clone() *Store {
	if s == nil {
		return nil
	}
	ret := *s
	return &ret
}

// CloneStores returns a deep copy of stores
func CloneStores(stores []*Store) []*Store {
	if stores == nil {
		return nil
	}
	ret := make([]*Store, 0, len(stores))
	for _, s := range stores {
		ret = append(ret, s.Clone())
	}
	return ret
}

// FindStore returns the store with the given id
func FindStore(stores []*Store, id string) *Store {
	if id == "" {
		return nil
	}
	for _, s := range stores {
		if s != nil && s.ID == id {
			return s
		}
	}
	return nil
}
