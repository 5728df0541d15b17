package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"stockfolio/internal/analytics"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetAnalytics(c *gin.Context) {
	userId := c.Param("userId")
	dim, err := analytics.ParseDimension(c.Query("dimension"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	weighting, err := analytics.ParseWeighting(c.Query("weighting"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	rows, err := h.repo.GetHoldings(ctx, userId)
	if err != nil {
		h.log.Errorf("get holdings failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	p := analytics.Portfolio{}
	for _, row := range rows {
		next, err := p.AddHolding(row.Symbol, row.Quantity)
		if err != nil {
			h.log.Warnf("dropping holding %s for %s: %v", row.Symbol, userId, err)
			continue
		}
		p = next
	}

	res, err := h.analytics.Analyze(ctx, p, analytics.Options{Dimension: dim, Weighting: weighting})
	if err != nil {
		h.log.Errorf("analytics for %s aborted: %v", userId, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis aborted"})
		return
	}
	r := res.Report

	out := gin.H{
		"user_id":   userId,
		"holdings":  p.Holdings(),
		"dimension": r.Options.Dimension,
		"weighting": r.Options.Weighting,
		"window": gin.H{
			"start": res.Window.Start.Format("2006-01-02"),
			"end":   res.Window.End.Format("2006-01-02"),
		},
		"growth":          section(r.Growth, r.GrowthErr),
		"risk":            section(r.Risk, r.RiskErr),
		"diversification": diversificationSection(r.Diversification, r.DiversificationErr),
	}
	if len(res.FetchFailures) > 0 {
		out["fetch_failures"] = res.FetchFailures
	}
	c.JSON(http.StatusOK, out)
}

func section(v interface{}, err error) interface{} {
	if err != nil {
		return failure(err)
	}
	return v
}

func failure(err error) gin.H {
	return gin.H{"error": analytics.KindName(err), "message": analytics.Explain(err)}
}

func diversificationSection(d *analytics.DiversificationResult, err error) interface{} {
	if err != nil {
		return failure(err)
	}
	out := gin.H{
		"dimension":  d.Dimension,
		"weighting":  d.Weighting,
		"total":      d.Total,
		"categories": d.Ranked(),
		"excluded":   d.Excluded,
		"no_data":    d.NoData,
	}
	if d.NoData {
		label := strings.ReplaceAll(string(d.Dimension), "_", " ")
		out["message"] = fmt.Sprintf("No %s information available for the stocks in the portfolio.", label)
	}
	return out
}
