package service

import (
	"fmt"

	"go.uber.org/zap"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/metrics"
)

// Couleurs par défaut des formes, par catégorie. Une forme qui porte sa
// propre couleur a priorité.
var couleursParCategorie = map[model.ShapeCategory]string{
	model.CategorieAcces:      "#16a34a",
	model.CategorieDanger:     "#dc2626",
	model.CategorieEquipement: "#2563eb",
	model.CategorieRoute:      "#f59e0b",
}

const couleurParDefaut = "#6b7280"

// PassReport bilan d'une passe de réconciliation
type PassReport struct {
	Rendered int
	Skipped  []*model.RenderError
}

// Reconciler garantit que la surface affiche exactement une primitive par
// enregistrement du LayerStore: ni doublon, ni primitive orpheline d'une
// passe précédente. Stratégie de reconstruction complète plutôt que de diff
// incrémental: pour des plans de quelques dizaines d'annotations, la
// correction par construction vaut plus que l'efficacité.
type Reconciler struct {
	surface  RenderSurface
	logger   *zap.Logger
	created  []PrimitiveHandle
	byRecord map[string]PrimitiveHandle
}

// NewReconciler crée un réconciliateur lié à une surface
func NewReconciler(surface RenderSurface, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		surface:  surface,
		logger:   logger,
		byRecord: make(map[string]PrimitiveHandle),
	}
}

// Reconcile reconstruit la surface depuis le store. Le nettoyage des
// primitives de la passe précédente s'exécute inconditionnellement avant
// toute reconstruction: sauter cette étape est la source classique des
// marqueurs dupliqués. Un enregistrement qui échoue est journalisé et
// ignoré, la passe continue avec les suivants.
func (r *Reconciler) Reconcile(store *model.LayerStore) PassReport {
	if !r.surface.Ready() {
		// réponse tardive après fermeture de la session
		return PassReport{}
	}
	metrics.ReconcilePassesTotal.Inc()

	for _, h := range r.created {
		r.surface.Remove(h)
	}
	r.created = r.created[:0]
	r.byRecord = make(map[string]PrimitiveHandle, store.Len())

	report := PassReport{}
	for _, rec := range store.Records() {
		handle, err := r.buildPrimitive(rec)
		if err != nil {
			skip := &model.RenderError{RecordID: rec.ID, Err: err}
			report.Skipped = append(report.Skipped, skip)
			metrics.RenderFailuresTotal.Inc()
			r.logger.Warn("couche ignorée pendant la réconciliation",
				zap.String("record_id", rec.ID),
				zap.String("kind", string(rec.Kind)),
				zap.Error(err))
			continue
		}
		r.created = append(r.created, handle)
		r.byRecord[rec.ID] = handle
		report.Rendered++
		metrics.PrimitivesRenderedTotal.Inc()
	}
	return report
}

// RemoveRecordPrimitive retire la primitive d'un seul enregistrement, sans
// passe complète. No-op si l'enregistrement n'avait pas de primitive.
func (r *Reconciler) RemoveRecordPrimitive(recordID string) {
	handle, ok := r.byRecord[recordID]
	if !ok {
		return
	}
	if r.surface.Ready() {
		r.surface.Remove(handle)
	}
	delete(r.byRecord, recordID)
	for i, h := range r.created {
		if h == handle {
			r.created = append(r.created[:i], r.created[i+1:]...)
			break
		}
	}
}

// buildPrimitive construit la primitive d'un enregistrement, par genre
func (r *Reconciler) buildPrimitive(rec *model.GeometryRecord) (PrimitiveHandle, error) {
	if err := rec.Valide(); err != nil {
		return 0, err
	}

	switch rec.Kind {
	case model.KindSymbol:
		props := rec.Symbol
		spec := MarkerSpec{
			RecordID:    rec.ID,
			Position:    *rec.Point,
			Label:       props.Label,
			Popup:       popupSymbole(props),
			Couleur:     props.Couleur,
			Supprimable: true,
		}
		// image personnalisée si présente, sinon le glyphe
		if props.Personnalise && props.ImageBase64 != "" {
			spec.ImageBase64 = props.ImageBase64
		} else {
			spec.Glyphe = props.Glyphe
		}
		return r.surface.AddMarker(spec)

	case model.KindPolygon:
		return r.surface.AddPolygon(PolygonSpec{
			RecordID: rec.ID,
			Ring:     rec.Ring,
			Couleur:  couleurForme(rec.Shape),
		})

	case model.KindPolyline:
		return r.surface.AddPolyline(PolylineSpec{
			RecordID: rec.ID,
			Path:     rec.Path,
			Couleur:  couleurForme(rec.Shape),
		})

	case model.KindCircle:
		return r.surface.AddCircle(CircleSpec{
			RecordID:    rec.ID,
			Centre:      rec.Circle.Centre,
			RayonMetres: rec.Circle.RayonMetres,
			Couleur:     couleurForme(rec.Shape),
		})
	}
	return 0, fmt.Errorf("genre d'enregistrement inconnu: %s", rec.Kind)
}

// popupSymbole contenu du popup d'un marqueur: libellé, puis note si posée
func popupSymbole(props *model.SymbolProperties) string {
	if props.Note == "" {
		return props.Label
	}
	return props.Label + "\n" + props.Note
}

// couleurForme couleur propre de la forme, sinon celle de sa catégorie
func couleurForme(props *model.ShapeProperties) string {
	if props == nil {
		return couleurParDefaut
	}
	if props.Couleur != "" {
		return props.Couleur
	}
	if c, ok := couleursParCategorie[props.Categorie]; ok {
		return c
	}
	return couleurParDefaut
}
