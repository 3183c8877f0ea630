package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"cabinet-portal/internal/domain/entity"
	"cabinet-portal/internal/domain/repository"
)

type createRendezVousRequest struct {
	PatientID string      `json:"patientId"`
	MedecinID string      `json:"medecinId"`
	Date      string      `json:"date"`
	Heure     string      `json:"heure"`
	Motif     string      `json:"motif"`
	Etat      entity.Etat `json:"etat"`
}

type consultationRequest struct {
	Diagnostic string `json:"diagnostic"`
	Notes      string `json:"notes"`
}

type etatRequest struct {
	Etat entity.Etat `json:"etat"`
}

// CreateRendezVous books a new rendez-vous and returns its id. A slot already taken unwraps to
// repository.ErrConflict.
func (c *Client) CreateRendezVous(ctx context.Context, rdv *entity.RendezVous) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/patient/rdv", nil, createRendezVousRequest{
		PatientID: rdv.PatientID,
		MedecinID: rdv.MedecinID,
		Date:      rdv.Date,
		Heure:     rdv.Heure,
		Motif:     rdv.Motif,
		Etat:      entity.EtatEnAttente,
	})
	if err != nil {
		return "", err
	}

	created, err := decodeObject[entity.RendezVous](raw, "rdv", "rendezvous")
	if err != nil {
		return "", err
	}
	if created == nil || created.ID == "" {
		return "", errMalformed
	}
	return created.ID, nil
}

// FindRendezVousByID returns nil, nil when the backend does not know id.
func (c *Client) FindRendezVousByID(ctx context.Context, id string) (*entity.RendezVous, error) {
	raw, err := c.get(ctx, "/rdv/"+escape(id), nil)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeObject[entity.RendezVous](raw, "rdv", "rendezvous")
}

func (c *Client) FindRendezVousByMedecinAndDate(ctx context.Context, medecinID, date string) ([]entity.RendezVous, error) {
	query := url.Values{}
	query.Set("date", date)
	if medecinID != "" {
		query.Set("medecinId", medecinID)
	}

	raw, err := c.get(ctx, "/medecin/rendezvous", query)
	if err != nil {
		return nil, err
	}
	return decodeList[entity.RendezVous](raw, "rendezvous", "rdvs")
}

func (c *Client) FindRendezVousByPatient(ctx context.Context, patientID string) ([]entity.RendezVous, error) {
	raw, err := c.get(ctx, "/patient/"+escape(patientID)+"/rdvs", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[entity.RendezVous](raw, "rdvs", "rendezvous")
}

func (c *Client) FindUpcomingRendezVousByPatient(ctx context.Context, patientID string) ([]entity.RendezVous, error) {
	raw, err := c.get(ctx, "/patient/"+escape(patientID)+"/prochains-rdv", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[entity.RendezVous](raw, "rdvs", "rendezvous", "prochains")
}

func (c *Client) ValidateRendezVous(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPut, "/medecin/"+escape(id)+"/valider", nil, nil)
	return err
}

func (c *Client) CancelRendezVous(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPut, "/patient/rdv/"+escape(id)+"/annuler", nil, nil)
	return err
}

func (c *Client) SaveConsultation(ctx context.Context, id, diagnostic, notes string) error {
	_, err := c.do(ctx, http.MethodPut, "/rdv/"+escape(id), nil, consultationRequest{Diagnostic: diagnostic, Notes: notes})
	return err
}

func (c *Client) UpdateRendezVousEtat(ctx context.Context, id string, etat entity.Etat) error {
	_, err := c.do(ctx, http.MethodPatch, "/terminer/rdv/"+escape(id), nil, etatRequest{Etat: etat})
	return err
}
