// Package report renders payoff plans as XML documents.
package report

import (
	"bytes"
	"io"
	"strconv"

	"github.com/beevik/etree"

	"gullak/domain"
)

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// PayoffDocument builds the XML document for an optimization summary.
func PayoffDocument(summary domain.OptimizationSummary) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("payoffPlan")
	root.CreateAttr("strategy", summary.Strategy)

	addProjection(root, "baseline", summary.Baseline)
	addProjection(root, "optimized", summary.Optimized)

	savings := root.CreateElement("savings")
	savings.CreateAttr("interest", money(summary.InterestSaved))
	savings.CreateAttr("months", strconv.Itoa(summary.MonthsSaved))

	stats := summary.Suggestions.Stats
	st := root.CreateElement("stats")
	st.CreateAttr("totalMonthlyEmi", money(stats.TotalMonthlyEMI))
	st.CreateAttr("totalDebt", money(stats.TotalDebt))
	st.CreateAttr("monthlyBalance", money(stats.MonthlyBalance))
	st.CreateAttr("debtToIncomeRatio", money(stats.DebtToIncomeRatio))

	targets := root.CreateElement("suggestions")
	if t := summary.Suggestions.AvalancheTarget; t != nil {
		targets.CreateAttr("avalanche", t.Name)
	}
	if t := summary.Suggestions.SnowballTarget; t != nil {
		targets.CreateAttr("snowball", t.Name)
	}

	if summary.Explanation != "" {
		root.CreateElement("explanation").SetText(summary.Explanation)
	}

	doc.Indent(2)
	return doc
}

func addProjection(parent *etree.Element, name string, p domain.ProjectionResult) {
	el := parent.CreateElement(name)
	el.CreateAttr("months", strconv.Itoa(p.TotalDurationMonths))
	el.CreateAttr("interest", money(p.TotalInterestAccrued))
	el.CreateAttr("amortizes", strconv.FormatBool(p.Amortizes))

	for _, e := range p.Timeline {
		ev := el.CreateElement("payoff")
		ev.CreateAttr("month", strconv.Itoa(e.Month))
		ev.CreateAttr("loan", e.LoanName)
		ev.CreateAttr("years", strconv.Itoa(e.Year))
		ev.CreateAttr("monthsAfterYears", strconv.Itoa(e.MonthRemainder))
	}
}

// WriteXML writes the summary as an indented XML document.
func WriteXML(w io.Writer, summary domain.OptimizationSummary) error {
	_, err := PayoffDocument(summary).WriteTo(w)
	return err
}

// XML returns the summary as an XML document.
func XML(summary domain.OptimizationSummary) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXML(&buf, summary); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
