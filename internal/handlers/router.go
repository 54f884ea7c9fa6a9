package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the API engine. An origin list containing "*" allows
// every origin.
func NewRouter(origins []string, leads *LeadHandler, jobs *JobHandler, pipeline *PipelineHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.ExposeHeaders = []string{"Content-Disposition"}
	if len(origins) == 0 || contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	r.Use(cors.New(config))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		api.POST("/leads/search", leads.Search)
		api.GET("/leads", leads.List)
		api.PUT("/leads/filters", leads.SetFilters)

		api.POST("/jobs/search", jobs.Search)
		api.GET("/jobs", jobs.List)
		api.GET("/jobs/saved", jobs.Saved)
		api.POST("/jobs/saved/toggle", jobs.ToggleSaved)

		api.GET("/pipeline", pipeline.List)
		api.POST("/pipeline", pipeline.Add)
		api.GET("/pipeline/export", pipeline.Export)
		api.GET("/pipeline/stats", pipeline.Stats)
		api.PATCH("/pipeline/:id", pipeline.UpdateStatus)
		api.POST("/pipeline/:id/advance", pipeline.Advance)
		api.DELETE("/pipeline/:id", pipeline.Delete)
	}
	return r
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
