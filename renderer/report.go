package renderer

import (
	"bytes"
	"sort"

	portfolio "github.com/ghostfolio/ghostfolio-sub000"
	md "github.com/nao1215/markdown"
)

// categoryTitles maps rule category keys to section headings, in display order.
var categoryTitles = []struct{ key, title string }{
	{"currencyClusterRisk", "Currency Cluster Risk"},
	{"platformClusterRisk", "Platform Cluster Risk"},
	{"fees", "Fees"},
}

// ReportMarkdown renders the X-ray rule report to a markdown string, one
// section per category.
func ReportMarkdown(report portfolio.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("X-ray")

	seen := make(map[string]bool)
	render := func(key, title string) {
		results, ok := report.Rules[key]
		if !ok {
			return
		}
		seen[key] = true
		doc.H2(title)
		rows := make([][]string, 0, len(results))
		for _, result := range results {
			rows = append(rows, []string{verdict(result.Value), result.Name, result.Evaluation})
		}
		doc.Table(md.TableSet{
			Header: []string{"", "Rule", "Evaluation"},
			Rows:   rows,
		})
	}

	for _, c := range categoryTitles {
		render(c.key, c.title)
	}
	// Unknown categories still render, after the known ones.
	var rest []string
	for key := range report.Rules {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		render(key, key)
	}

	return doc.String()
}

func verdict(pass bool) string {
	if pass {
		return "OK"
	}
	return "FAIL"
}
