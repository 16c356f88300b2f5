package model

// Symboles intégrés du métier incendie, groupés par catégorie. Définis à la
// compilation, jamais modifiés à l'exécution.
var groupesIntegres = []SymbolGroup{
	{
		Nom: "Points d'eau",
		Symboles: []SymbolDefinition{
			{Glyphe: "🚰", Label: "Borne-fontaine", Couleur: "#2563eb"},
			{Glyphe: "💧", Label: "Borne sèche", Couleur: "#0ea5e9"},
			{Glyphe: "🌊", Label: "Réserve d'eau", Couleur: "#0369a1"},
			{Glyphe: "🚿", Label: "Raccord pompier", Couleur: "#1d4ed8"},
		},
	},
	{
		Nom: "Accès",
		Symboles: []SymbolDefinition{
			{Glyphe: "🚪", Label: "Entrée principale", Couleur: "#16a34a"},
			{Glyphe: "🔑", Label: "Boîte à clés", Couleur: "#ca8a04"},
			{Glyphe: "🪜", Label: "Accès toiture", Couleur: "#15803d"},
			{Glyphe: "🚻", Label: "Point de rassemblement", Couleur: "#059669"},
		},
	},
	{
		Nom: "Dangers",
		Symboles: []SymbolDefinition{
			{Glyphe: "⚠️", Label: "Danger général", Couleur: "#dc2626"},
			{Glyphe: "🔥", Label: "Matières inflammables", Couleur: "#ea580c"},
			{Glyphe: "☣️", Label: "Matières dangereuses", Couleur: "#9333ea"},
			{Glyphe: "⚡", Label: "Entrée électrique", Couleur: "#f59e0b"},
			{Glyphe: "🛢️", Label: "Réservoir de propane", Couleur: "#b45309"},
		},
	},
	{
		Nom: "Équipements",
		Symboles: []SymbolDefinition{
			{Glyphe: "🧯", Label: "Extincteur", Couleur: "#b91c1c"},
			{Glyphe: "🚨", Label: "Panneau d'alarme", Couleur: "#be123c"},
			{Glyphe: "🔌", Label: "Génératrice", Couleur: "#475569"},
			{Glyphe: "🛗", Label: "Ascenseur", Couleur: "#334155"},
			{Glyphe: "🔒", Label: "Vanne de gaz", Couleur: "#713f12"},
		},
	},
}

// BuiltInGroups retourne les groupes de symboles intégrés. Copie fraîche à
// chaque appel pour que personne ne puisse muter le catalogue statique.
func BuiltInGroups() []SymbolGroup {
	out := make([]SymbolGroup, len(groupesIntegres))
	for i, g := range groupesIntegres {
		out[i] = SymbolGroup{
			Nom:      g.Nom,
			Symboles: append([]SymbolDefinition(nil), g.Symboles...),
		}
	}
	return out
}

// FindBuiltIn recherche une définition intégrée par libellé exact
func FindBuiltIn(label string) (SymbolDefinition, bool) {
	for _, g := range groupesIntegres {
		for _, s := range g.Symboles {
			if s.Label == label {
				return s, true
			}
		}
	}
	return SymbolDefinition{}, false
}
