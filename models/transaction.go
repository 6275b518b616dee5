package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rkataria99/ExpenseApp-backend/report"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
	TypeSavings = "savings"
)

// CategoryGroups are the fixed expense grouping keys.
var CategoryGroups = []string{
	"home_share",   // direct home share (includes grocery)
	"self",         // food, movies, party, transport, outings, other
	"gifts_family", // gifts & family dinners/outings
	"trip_family",  // trips (family)
	"trip_self",    // trips (self)
}

// ErrNotFound signals a delete target that is absent or owned by
// someone else. The two cases are indistinguishable on purpose.
var ErrNotFound = errors.New("record not found")

// Transaction is a single monetary record, immutable once created and
// always owned by exactly one user.
type Transaction struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user" gorm:"index:idx_user_date"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Category      string    `json:"category"`
	CategoryGroup string    `json:"categoryGroup,omitempty"`
	Note          string    `json:"note"`
	Date          time.Time `json:"date" gorm:"index:idx_user_date"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (t *Transaction) validate() error {
	switch t.Type {
	case TypeIncome, TypeExpense, TypeSavings:
	default:
		return fmt.Errorf("type must be one of income, expense or savings")
	}
	if t.Amount < 0 {
		return fmt.Errorf("amount must be non-negative")
	}
	if t.CategoryGroup != "" {
		if t.Type != TypeExpense {
			return fmt.Errorf("categoryGroup is only valid for expenses")
		}
		ok := false
		for _, g := range CategoryGroups {
			if g == t.CategoryGroup {
				ok = true
			}
		}
		if !ok {
			return fmt.Errorf("invalid categoryGroup %q", t.CategoryGroup)
		}
	}
	if t.UserID == "" {
		return fmt.Errorf("owner is required")
	}
	return nil
}

// Add validates and persists the transaction, assigning its id.
func (t *Transaction) Add() error {
	if err := t.validate(); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return DB.Create(t).Error
}

// TransactionsByUser lists all of an owner's records, newest first.
// Records sharing a date are tie-broken by creation time, newest first.
func TransactionsByUser(owner string) ([]Transaction, error) {
	txs := []Transaction{}
	err := DB.Where("user_id = ?", owner).
		Order("date desc").Order("created_at desc").
		Find(&txs).Error
	return txs, err
}

// DeleteTransaction removes one record if it belongs to owner.
// Returns ErrNotFound otherwise; another owner's record is never
// reported as deletable.
func DeleteTransaction(owner, id string) error {
	res := DB.Where("id = ? AND user_id = ?", id, owner).Delete(&Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearTransactions wipes all of owner's records.
func ClearTransactions(owner string) error {
	return DB.Where("user_id = ?", owner).Delete(&Transaction{}).Error
}

// ReportStore exposes the bucketed-sum query capability the report
// engine runs against.
type ReportStore struct{}

// SumsByBucket sums amounts grouped by (bucket key, class) for owner
// within [from, to). Nil bounds are unbounded. Bucket keys are
// computed in loc; only buckets with at least one record appear.
func (ReportStore) SumsByBucket(owner string, unit report.Unit, from, to *time.Time, loc *time.Location) (map[string]report.ClassSums, error) {
	var rows []struct {
		Date   time.Time
		Type   string
		Amount float64
	}
	q := DB.Model(&Transaction{}).Select("date, type, amount").Where("user_id = ?", owner)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date < ?", *to)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	// Bucket keys are timezone-dependent, so grouping happens here
	// rather than in SQL: sqlite only formats dates in UTC.
	sums := map[string]report.ClassSums{}
	for _, r := range rows {
		key := report.Key(unit, r.Date, loc)
		s := sums[key]
		s.Add(r.Type, r.Amount)
		sums[key] = s
	}
	return sums, nil
}

// SumsInRange sums amounts per class for owner within [from, to).
// Nil bounds are unbounded.
func (ReportStore) SumsInRange(owner string, from, to *time.Time) (report.ClassSums, error) {
	var rows []struct {
		Type  string
		Total float64
	}
	q := DB.Model(&Transaction{}).Select("type, sum(amount) as total").Where("user_id = ?", owner)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date < ?", *to)
	}
	if err := q.Group("type").Scan(&rows).Error; err != nil {
		return report.ClassSums{}, err
	}

	var sums report.ClassSums
	for _, r := range rows {
		sums.Add(r.Type, r.Total)
	}
	return sums, nil
}

// FirstDate returns the owner's earliest transaction date, or nil when
// they have none.
func (ReportStore) FirstDate(owner string) (*time.Time, error) {
	var tx Transaction
	err := DB.Where("user_id = ?", owner).Order("date asc").First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx.Date, nil
}

// TotalsByUser returns the all-time per-class sums and balance used by
// the totals endpoint. Balance is income - expense - savings and can
// be negative.
func TotalsByUser(owner string) (report.Totals, error) {
	sums, err := ReportStore{}.SumsInRange(owner, nil, nil)
	if err != nil {
		return report.Totals{}, err
	}
	return report.Totals{
		Income:  sums.Income,
		Expense: sums.Expense,
		Savings: sums.Savings,
		Balance: sums.Income - sums.Expense - sums.Savings,
	}, nil
}
