package model

import "time"

// CategoriePersonnalise catégorie réservée aux symboles créés par le service d'incendie
const CategoriePersonnalise = "Personnalisé"

// SymbolDefinition définition plaçable d'un symbole, intégrée ou personnalisée.
// C'est ce que le placement fige dans l'enregistrement: après placement, la
// vie de la définition au catalogue n'a plus d'effet sur le plan.
type SymbolDefinition struct {
	ID           string `json:"id,omitempty"`
	Glyphe       string `json:"glyphe,omitempty"`
	Label        string `json:"label"`
	Couleur      string `json:"couleur,omitempty"`
	ImageBase64  string `json:"image,omitempty"`
	Personnalise bool   `json:"personnalise,omitempty"`
}

// SymbolGroup groupe nommé de symboles intégrés
type SymbolGroup struct {
	Nom      string             `json:"nom"`
	Symboles []SymbolDefinition `json:"symboles"`
}

// CustomSymbol symbole personnalisé d'un service d'incendie, géré via la
// passerelle de persistance. Sa durée de vie est indépendante des plans.
type CustomSymbol struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Nom         string    `json:"nom"`
	ImageBase64 string    `json:"image_base64"`
	Categorie   string    `json:"categorie"`
	Couleur     string    `json:"couleur"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Definition convertit un symbole personnalisé en définition plaçable
func (cs *CustomSymbol) Definition() SymbolDefinition {
	return SymbolDefinition{
		ID:           cs.ID,
		Label:        cs.Nom,
		Couleur:      cs.Couleur,
		ImageBase64:  cs.ImageBase64,
		Personnalise: true,
	}
}

// SymbolCatalog catalogue présenté à l'éditeur: groupes intégrés immuables
// plus les symboles personnalisés du service
type SymbolCatalog struct {
	Groupes       []SymbolGroup  `json:"groupes"`
	Personnalises []CustomSymbol `json:"personnalises"`
}
