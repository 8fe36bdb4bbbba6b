package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	Store   Pinger
	Missing []string
}

func NewHealthController(store Pinger, missing []string) *HealthController {
	if missing == nil {
		missing = []string{}
	}
	return &HealthController{Store: store, Missing: missing}
}

// Health -> {ok, missing, database}
func (hc *HealthController) Health(c *gin.Context) {
	dbOK := hc.Store.Ping(c.Request.Context()) == nil
	ok := dbOK && len(hc.Missing) == 0

	code := http.StatusOK
	if !ok {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"ok":       ok,
		"missing":  hc.Missing,
		"database": dbOK,
	})
}
