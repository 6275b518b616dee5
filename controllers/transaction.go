package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rkataria99/ExpenseApp-backend/auth"
	"github.com/rkataria99/ExpenseApp-backend/models"
)

type CreateTransactionInput struct {
	Type          string   `json:"type"`
	Amount        *float64 `json:"amount"`
	Category      string   `json:"category"`
	CategoryGroup string   `json:"categoryGroup"`
	Note          string   `json:"note"`
	Date          string   `json:"date"`
}

// parseDateOrNow accepts RFC3339 or a bare date, falling back to now
// on anything unparseable.
func parseDateOrNow(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	return time.Now()
}

// POST /api/transactions
func CreateTransaction(c *gin.Context) {
	user := auth.CurrentUser(c)

	// A missing or malformed body falls through to the required-field
	// check below rather than leaking a decoder error.
	var input CreateTransactionInput
	_ = c.ShouldBindJSON(&input)

	if input.Type == "" || input.Amount == nil {
		fail(c, http.StatusBadRequest, "type and amount are required")
		return
	}

	date := parseDateOrNow(input.Date)

	// No future-dated income or expense past the end of the current
	// server day. Savings may be scheduled ahead.
	now := time.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	if (input.Type == models.TypeIncome || input.Type == models.TypeExpense) && date.After(endOfToday) {
		fail(c, http.StatusBadRequest, "Future-dated income/expense is not allowed")
		return
	}

	tx := models.Transaction{
		UserID:        user.ID,
		Type:          input.Type,
		Amount:        *input.Amount,
		Category:      input.Category,
		CategoryGroup: input.CategoryGroup,
		Note:          input.Note,
		Date:          date,
	}
	if err := tx.Add(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	Events.TransactionCreated(&tx)
	log.Debug().Str("user", user.ID).Str("id", tx.ID).Msg("Transaction created")
	c.JSON(http.StatusCreated, tx)
}

// GET /api/transactions
func ListTransactions(c *gin.Context) {
	user := auth.CurrentUser(c)

	txs, err := models.TransactionsByUser(user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, txs)
}

// DELETE /api/transactions/:id
func DeleteTransaction(c *gin.Context) {
	user := auth.CurrentUser(c)
	id := c.Param("id")

	switch err := models.DeleteTransaction(user.ID, id); {
	case errors.Is(err, models.ErrNotFound):
		fail(c, http.StatusNotFound, "Not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, err.Error())
	default:
		Events.TransactionDeleted(user.ID, id)
		c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
	}
}

// DELETE /api/transactions
func ClearTransactions(c *gin.Context) {
	user := auth.CurrentUser(c)

	if err := models.ClearTransactions(user.ID); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	Events.TransactionsCleared(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "All transactions cleared for current user"})
}

// GET /api/transactions/totals
func GetTotals(c *gin.Context) {
	user := auth.CurrentUser(c)

	totals, err := models.TotalsByUser(user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, totals)
}
