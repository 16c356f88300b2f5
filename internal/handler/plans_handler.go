package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plan-intervention-api/internal/application"
)

// PlansHandler endpoints de consultation des plans persistés
type PlansHandler struct {
	plans application.PlansService
}

// NewPlansHandler crée le handler
func NewPlansHandler(plans application.PlansService) *PlansHandler {
	return &PlansHandler{plans: plans}
}

// ListPlans GET /plans - liste des plans du service
func (h *PlansHandler) ListPlans(c *gin.Context) {
	resumes, err := h.plans.ListPlans(c.Request.Context(), tenantID(c))
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": resumes})
}

// GetPlan GET /plans/:id - document complet d'un plan
func (h *PlansHandler) GetPlan(c *gin.Context) {
	plan, err := h.plans.GetPlan(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         plan.ID,
		"nom":        plan.Nom,
		"centre_lat": plan.CentreLat,
		"centre_lng": plan.CentreLng,
		"nb_couches": len(plan.Layers),
		"updated_at": plan.UpdatedAt,
	})
}

// DeletePlan DELETE /plans/:id
func (h *PlansHandler) DeletePlan(c *gin.Context) {
	if err := h.plans.DeletePlan(c.Request.Context(), tenantID(c), c.Param("id")); err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreatePreview POST /plans/:id/preview - instantané partageable temporaire
func (h *PlansHandler) CreatePreview(c *gin.Context) {
	previewID, err := h.plans.CreatePreview(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"preview_id": previewID})
}

// GetPreview GET /previews/:id - relit un instantané non expiré
func (h *PlansHandler) GetPreview(c *gin.Context) {
	preview, err := h.plans.GetPreview(c.Request.Context(), c.Param("id"))
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         preview.ID,
		"plan_id":    preview.PlanID,
		"nom":        preview.Nom,
		"centre_lat": preview.CentreLat,
		"centre_lng": preview.CentreLng,
		"nb_couches": len(preview.Layers),
	})
}
