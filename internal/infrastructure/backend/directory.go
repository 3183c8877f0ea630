package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"
)

func (c *Client) ListMedecins(ctx context.Context) ([]entity.User, error) {
	raw, err := c.get(ctx, "/admin/medecins", nil)
	if err != nil {
		return nil, err
	}
	users, err := decodeList[entity.User](raw, "medecins")
	return fillRole(users, entity.RoleMedecin), err
}

// FindMedecinByID returns nil, nil when the backend does not know id.
func (c *Client) FindMedecinByID(ctx context.Context, id string) (*entity.User, error) {
	return c.findUser(ctx, "/admin/medecins/"+escape(id), "medecin", entity.RoleMedecin)
}

func (c *Client) CreateMedecin(ctx context.Context, medecin *entity.User, password string) (*entity.User, error) {
	medecin.Role = entity.RoleMedecin
	raw, err := c.do(ctx, http.MethodPost, "/admin/medecins", nil, newUserPayload(medecin, password))
	if err != nil {
		return nil, err
	}
	return createdUser(raw, medecin, "medecin", "user")
}

func (c *Client) UpdateMedecin(ctx context.Context, id string, medecin *entity.User, password string) (*entity.User, error) {
	medecin.Role = entity.RoleMedecin
	raw, err := c.do(ctx, http.MethodPut, "/admin/medecins/"+escape(id), nil, newUserPayload(medecin, password))
	if err != nil {
		return nil, err
	}
	medecin.ID = id
	return createdUser(raw, medecin, "medecin", "user")
}

func (c *Client) DeleteMedecin(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/admin/medecins/"+escape(id), nil, nil)
	return err
}

func (c *Client) ListPatients(ctx context.Context) ([]entity.User, error) {
	raw, err := c.get(ctx, "/admin/patients", nil)
	if err != nil {
		return nil, err
	}
	users, err := decodeList[entity.User](raw, "patients")
	return fillRole(users, entity.RolePatient), err
}

// FindPatientByID returns nil, nil when the backend does not know id.
func (c *Client) FindPatientByID(ctx context.Context, id string) (*entity.User, error) {
	return c.findUser(ctx, "/admin/patients/"+escape(id), "patient", entity.RolePatient)
}

// FindPatientsByIDs resolves several patients in one call (GET /patients?id=a&id=b).
func (c *Client) FindPatientsByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}

	query := url.Values{}
	for _, id := range ids {
		query.Add("id", id)
	}

	raw, err := c.get(ctx, "/patients", query)
	if err != nil {
		return nil, err
	}
	users, err := decodeList[entity.User](raw, "patients")
	return fillRole(users, entity.RolePatient), err
}

func (c *Client) LastPatients(ctx context.Context) ([]entity.User, error) {
	raw, err := c.get(ctx, "/admin/patients/last", nil)
	if err != nil {
		return nil, err
	}
	users, err := decodeList[entity.User](raw, "patients")
	return fillRole(users, entity.RolePatient), err
}

func (c *Client) CreatePatient(ctx context.Context, patient *entity.User, password string) (*entity.User, error) {
	patient.Role = entity.RolePatient
	raw, err := c.do(ctx, http.MethodPost, "/admin/patients", nil, newUserPayload(patient, password))
	if err != nil {
		return nil, err
	}
	return createdUser(raw, patient, "patient", "user")
}

func (c *Client) UpdatePatient(ctx context.Context, id string, patient *entity.User, password string) (*entity.User, error) {
	patient.Role = entity.RolePatient
	raw, err := c.do(ctx, http.MethodPut, "/admin/patients/"+escape(id), nil, newUserPayload(patient, password))
	if err != nil {
		return nil, err
	}
	patient.ID = id
	return createdUser(raw, patient, "patient", "user")
}

func (c *Client) DeletePatient(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/admin/patients/"+escape(id), nil, nil)
	return err
}

func (c *Client) findUser(ctx context.Context, path, key string, role entity.Role) (*entity.User, error) {
	raw, err := c.get(ctx, path, nil)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := decodeObject[entity.User](raw, key, "user")
	if err != nil || user == nil {
		return user, err
	}
	if user.Role == "" {
		user.Role = role
	}
	return user, nil
}

// fillRole sets the role the directory endpoints leave implicit.
func fillRole(users []entity.User, role entity.Role) []entity.User {
	for i := range users {
		if users[i].Role == "" {
			users[i].Role = role
		}
	}
	return users
}
