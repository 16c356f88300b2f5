package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReconcilePassesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planint_reconcile_passes_total",
		Help: "Nombre total de passes de réconciliation de la surface de rendu",
	})
	PrimitivesRenderedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planint_primitives_rendered_total",
		Help: "Primitives construites avec succès pendant les passes",
	})
	RenderFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planint_render_failures_total",
		Help: "Enregistrements ignorés pendant une passe (géométrie invalide, etc.)",
	})
	PlanSavesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planint_plan_saves_total",
		Help: "Sauvegardes de plans réussies",
	})
	PlanSaveFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planint_plan_save_failures_total",
		Help: "Sauvegardes de plans échouées (erreur passerelle)",
	})
	SymbolCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planint_symbol_cache_hits_total",
		Help: "Lectures du catalogue personnalisé servies par le cache Redis",
	})
	SymbolCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planint_symbol_cache_misses_total",
		Help: "Lectures du catalogue personnalisé passées à la passerelle",
	})
)

func init() {
	prometheus.MustRegister(ReconcilePassesTotal)
	prometheus.MustRegister(PrimitivesRenderedTotal)
	prometheus.MustRegister(RenderFailuresTotal)
	prometheus.MustRegister(PlanSavesTotal)
	prometheus.MustRegister(PlanSaveFailuresTotal)
	prometheus.MustRegister(SymbolCacheHitsTotal)
	prometheus.MustRegister(SymbolCacheMissesTotal)
}

// Handler expose les métriques enregistrées pour le scrape Prometheus
func Handler() http.Handler { return promhttp.Handler() }
