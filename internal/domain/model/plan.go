package model

import "time"

// PlanIntervention document parent d'un plan: le bâtiment couvert, le centre
// de la carte et les couches d'annotations. Les écritures concurrentes de
// deux éditeurs sont résolues dernier-écrit-gagne à la passerelle; aucune
// fusion n'est tentée ici.
type PlanIntervention struct {
	ID        string
	TenantID  string
	Nom       string
	CentreLat float64
	CentreLng float64
	Layers    []*GeometryRecord
	UpdatedAt time.Time
}

// PlanSummary entrée de liste, sans les couches
type PlanSummary struct {
	ID        string    `json:"id"`
	Nom       string    `json:"nom"`
	CentreLat float64   `json:"centre_lat"`
	CentreLng float64   `json:"centre_lng"`
	NbCouches int       `json:"nb_couches"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Resume produit l'entrée de liste correspondante
func (p *PlanIntervention) Resume() PlanSummary {
	return PlanSummary{
		ID:        p.ID,
		Nom:       p.Nom,
		CentreLat: p.CentreLat,
		CentreLng: p.CentreLng,
		NbCouches: len(p.Layers),
		UpdatedAt: p.UpdatedAt,
	}
}
