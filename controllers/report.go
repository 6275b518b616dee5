package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rkataria99/ExpenseApp-backend/auth"
)

// GET /api/reports/weekly?tz=
// The weekly series is a bare array, not a wrapped object. Clients
// depend on that exact shape.
func WeeklyReport(c *gin.Context) {
	user := auth.CurrentUser(c)

	series, err := Reports.Weekly(user.ID, c.Query("tz"))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, series)
}

// GET /api/reports/monthly?year=&tz=
func MonthlyReport(c *gin.Context) {
	user := auth.CurrentUser(c)

	year, _ := strconv.Atoi(c.Query("year"))
	result, err := Reports.MonthlyByYear(user.ID, year, c.Query("tz"))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/reports/total?tz=
func TotalReport(c *gin.Context) {
	user := auth.CurrentUser(c)

	result, err := Reports.AllTime(user.ID, c.Query("tz"))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/reports/years
func ReportYears(c *gin.Context) {
	c.JSON(http.StatusOK, Reports.SelectableYears())
}
