package server

import "github.com/gin-gonic/gin"

// ListPlans is public: the pricing page renders before login.
// GET /api/plans
func (s *Server) ListPlans(c *gin.Context) {
	plans, err := s.planSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, plans)
}

// GetPlan
// GET /api/plans/:code
func (s *Server) GetPlan(c *gin.Context) {
	plan, err := s.planSvc.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, plan)
}
