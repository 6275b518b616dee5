// Package controllers holds the gin handlers. Wiring (report engine,
// optional event publisher) is injected by setupServer in main.
package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/rkataria99/ExpenseApp-backend/events"
	"github.com/rkataria99/ExpenseApp-backend/report"
)

var (
	Reports *report.Engine
	Events  *events.Publisher
)

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
