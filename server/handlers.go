package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
	"github.com/etnz/tracker/renderer"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Response wraps every successful payload.
type Response struct {
	Data any `json:"data"`
}

// BudgetInput is the body of PUT /v1/budget.
type BudgetInput struct {
	Budget decimal.Decimal `json:"budget"`
}

// BulkDeleteInput is the body of the bulk-delete routes.
type BulkDeleteInput struct {
	IDs []tracker.ID `json:"ids"`
}

// BulkDeleteResponse reports how many records were deleted.
type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (co Controller) GetTracker(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Data: co.Store.Snapshot()})
}

func (co Controller) PutBudget(c *gin.Context) {
	var in BudgetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		NewError(c, http.StatusBadRequest, err)
		return
	}
	if err := co.Store.SetBudget(c.Request.Context(), in.Budget); err != nil {
		ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Data: co.Store.Totals()})
}

func (co Controller) CreateExpense(c *gin.Context) {
	var in tracker.ExpenseDraft
	if err := c.ShouldBindJSON(&in); err != nil {
		NewError(c, http.StatusBadRequest, err)
		return
	}
	e, err := co.Store.CreateExpense(c.Request.Context(), in)
	if err != nil {
		ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Data: e})
}

func (co Controller) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in tracker.ExpenseDraft
	if err := c.ShouldBindJSON(&in); err != nil {
		NewError(c, http.StatusBadRequest, err)
		return
	}
	e, err := co.Store.UpdateExpense(c.Request.Context(), id, in)
	if err != nil {
		ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Data: e})
}

func (co Controller) CreateLoan(c *gin.Context) {
	var in tracker.LoanDraft
	if err := c.ShouldBindJSON(&in); err != nil {
		NewError(c, http.StatusBadRequest, err)
		return
	}
	l, err := co.Store.CreateLoan(c.Request.Context(), in)
	if err != nil {
		ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Data: l})
}

func (co Controller) CreateCompanyRecord(c *gin.Context) {
	var in tracker.CompanyDraft
	if err := c.ShouldBindJSON(&in); err != nil {
		NewError(c, http.StatusBadRequest, err)
		return
	}
	r, err := co.Store.CreateCompanyRecord(c.Request.Context(), in)
	if err != nil {
		ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Data: r})
}

func (co Controller) deleteOne(kind tracker.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var err error
		switch kind {
		case tracker.KindExpenses:
			err = co.Store.DeleteExpense(c.Request.Context(), id)
		case tracker.KindLoans:
			err = co.Store.DeleteLoan(c.Request.Context(), id)
		case tracker.KindCompanyRecords:
			err = co.Store.DeleteCompanyRecord(c.Request.Context(), id)
		}
		if err != nil {
			ErrorHandler(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// bulkDelete selects the given ids and confirms their deletion at once.
func (co Controller) bulkDelete(kind tracker.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in BulkDeleteInput
		if err := c.ShouldBindJSON(&in); err != nil {
			NewError(c, http.StatusBadRequest, err)
			return
		}
		sel := co.Store.NewSelection()
		for _, id := range in.IDs {
			if !sel.IsSelected(kind, id) {
				_ = sel.Toggle(kind, id)
			}
		}
		_ = sel.RequestDelete(kind)
		n, err := sel.ConfirmDelete(c.Request.Context())
		if err != nil {
			ErrorHandler(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{Data: BulkDeleteResponse{Deleted: n}})
	}
}

// GetReport exports the report. Query parameters: format (md, html or
// xlsx), period (day, week, month, year) and on, the date within the period.
func (co Controller) GetReport(c *gin.Context) {
	var period date.Range
	if p := c.Query("period"); p != "" {
		pp, err := date.ParsePeriod(p)
		if err != nil {
			NewError(c, http.StatusBadRequest, err)
			return
		}
		on := date.Of(co.now())
		if s := c.Query("on"); s != "" {
			if on, err = date.Parse(s); err != nil {
				NewError(c, http.StatusBadRequest, err)
				return
			}
		}
		period = date.NewRange(on, pp)
	}

	r := tracker.NewReport(co.Store.Snapshot(), co.now(), period)
	name := "report-" + r.GeneratedAt.Format("20060102-150405")
	switch format := c.DefaultQuery("format", "md"); format {
	case "md", "markdown":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".md"))
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(renderer.Markdown(r, co.Report)))
	case "html":
		html, err := renderer.HTML(r, co.Report)
		if err != nil {
			ErrorHandler(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	case "xlsx":
		var buf bytes.Buffer
		if err := renderer.XLSX(&buf, r, co.Report); err != nil {
			ErrorHandler(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		NewError(c, http.StatusBadRequest, fmt.Errorf("unknown report format %q, want md, html or xlsx", format))
	}
}

func pathID(c *gin.Context) (tracker.ID, bool) {
	id, err := tracker.ParseID(c.Param("id"))
	if err != nil {
		NewError(c, http.StatusBadRequest, errors.New("the id in the path is not a valid record id"))
		return 0, false
	}
	return id, true
}
