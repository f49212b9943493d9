package college

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/apiresponses"
)

// Controller serves the public safety statistics. The list backs the
// landing page, so it requires no authentication.
type Controller struct {
	service *Service
	log     *zap.SugaredLogger
}

func NewController(log *zap.SugaredLogger, service *Service) *Controller {
	return &Controller{service: service, log: log}
}

func (cc *Controller) Register(rg *gin.RouterGroup) error {
	rg.GET("", cc.handleList)
	rg.GET("/summary", cc.handleSummary)
	rg.GET("/locations", cc.handleLocations)
	return nil
}

func (Controller) BasePath() string {
	return "colleges/"
}

func (Controller) Handlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{}
}

func (cc *Controller) handleList(c *gin.Context) {
	colleges, err := cc.service.List(c.Request.Context(),
		c.Query("search"), c.Query("location"))
	if err != nil {
		apiresponses.RespondInternalError(c, "listing colleges", err, cc.log)
		return
	}
	apiresponses.RespondOK(c, gin.H{"colleges": colleges})
}

func (cc *Controller) handleSummary(c *gin.Context) {
	summary, err := cc.service.Summarize(c.Request.Context())
	if err != nil {
		apiresponses.RespondInternalError(c, "summarizing colleges", err, cc.log)
		return
	}
	apiresponses.RespondOK(c, summary)
}

func (cc *Controller) handleLocations(c *gin.Context) {
	locations, err := cc.service.Locations(c.Request.Context())
	if err != nil {
		apiresponses.RespondInternalError(c, "listing college locations", err, cc.log)
		return
	}
	apiresponses.RespondOK(c, gin.H{"locations": locations})
}
