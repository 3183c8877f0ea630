package backend

import "context"

func (c *Client) CountMedecins(ctx context.Context) (int64, error) {
	return c.count(ctx, "/medecins/count")
}

func (c *Client) CountPatients(ctx context.Context) (int64, error) {
	return c.count(ctx, "/patients/count")
}

func (c *Client) CountConsultationsToday(ctx context.Context) (int64, error) {
	return c.count(ctx, "/consultations/today/count")
}

func (c *Client) CountPendingRendezVous(ctx context.Context) (int64, error) {
	return c.count(ctx, "/rendezvous/pending/count")
}

// CountCompletedConsultations counts the "terminé" rendez-vous of one medecin.
func (c *Client) CountCompletedConsultations(ctx context.Context, medecinID string) (int64, error) {
	return c.count(ctx, "/admin/consultations/termines/count/"+escape(medecinID))
}

func (c *Client) count(ctx context.Context, path string) (int64, error) {
	raw, err := c.get(ctx, path, nil)
	if err != nil {
		return 0, err
	}
	return decodeCount(raw)
}
