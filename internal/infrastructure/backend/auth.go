package backend

import (
	"context"
	"net/http"

	"cabinet-portal/internal/domain/entity"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPayload is the body of register and directory create/update calls.
type userPayload struct {
	Nom           string      `json:"nom,omitempty"`
	Prenom        string      `json:"prenom,omitempty"`
	Email         string      `json:"email,omitempty"`
	Password      string      `json:"password,omitempty"`
	Role          entity.Role `json:"role,omitempty"`
	Specialite    string      `json:"specialite,omitempty"`
	Age           int         `json:"age,omitempty"`
	DateNaissance string      `json:"dateNaissance,omitempty"`
	Contact       string      `json:"contact,omitempty"`
	Telephone     string      `json:"telephone,omitempty"`
	Adresse       string      `json:"adresse,omitempty"`
	Sexe          string      `json:"sexe,omitempty"`
}

func newUserPayload(u *entity.User, password string) userPayload {
	return userPayload{
		Nom:           u.Nom,
		Prenom:        u.Prenom,
		Email:         u.Email,
		Password:      password,
		Role:          u.Role,
		Specialite:    u.Specialite,
		Age:           u.Age,
		DateNaissance: u.DateNaissance,
		Contact:       u.Contact,
		Telephone:     u.Telephone,
		Adresse:       u.Adresse,
		Sexe:          u.Sexe,
	}
}

// Login posts credentials to /auth/login. Rejected credentials unwrap to repository.ErrUnauthorized.
func (c *Client) Login(ctx context.Context, email, password string) (*entity.User, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	user, err := decodeObject[entity.User](raw, "user")
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID == "" {
		return nil, errMalformed
	}
	return user, nil
}

// Register creates a patient account and returns the stored identity.
func (c *Client) Register(ctx context.Context, user *entity.User, password string) (*entity.User, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/register", nil, newUserPayload(user, password))
	if err != nil {
		return nil, err
	}
	return createdUser(raw, user, "user", "patient")
}

// createdUser reads the answer of a create call. The backend may return the full record,
// only {"id": ...}, or nothing; missing attributes are taken from the submitted user.
func createdUser(raw []byte, submitted *entity.User, keys ...string) (*entity.User, error) {
	stored, err := decodeObject[entity.User](raw, keys...)
	if err != nil {
		return nil, err
	}

	created := *submitted
	if stored == nil {
		return &created, nil
	}
	if stored.Email == "" && stored.Nom == "" {
		created.ID = stored.ID
		return &created, nil
	}
	if stored.Role == "" {
		stored.Role = submitted.Role
	}
	return stored, nil
}
