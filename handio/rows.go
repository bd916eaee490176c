package handio

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/guobiao/analyzer"
)

// Row is the evaluation of one record.
type Row struct {
	Hand  string             `json:"hand"`
	Total int                `json:"total"`
	Form  string             `json:"form,omitempty"`
	Fans  []analyzer.JsonFan `json:"fans,omitempty"`
	Error string             `json:"error,omitempty"`
}

func NewRow(rec Record, resp *analyzer.FanResponse, err error) Row {
	row := Row{Hand: rec.Hand}
	if err != nil {
		row.Error = err.Error()
		return row
	}
	row.Total = resp.Total
	row.Form = resp.Form
	row.Fans = resp.Fans
	return row
}

// FansText lists the fans of a row, in Chinese when chinese is set.
func (r Row) FansText(chinese bool) string {
	return strings.Join(lo.Map(r.Fans, func(f analyzer.JsonFan, _ int) string {
		name := f.Name
		if chinese {
			name = f.Chinese
		}
		if f.Count > 1 {
			return fmt.Sprintf("%s %d*%d", name, f.Points/f.Count, f.Count)
		}
		return fmt.Sprintf("%s %d", name, f.Points)
	}), ", ")
}

// WriteRows writes one tab-separated line per row: hand, total, form and
// fans. Failed rows carry the error in place of the form.
func WriteRows(w io.Writer, rows []Row, chinese bool) error {
	for _, r := range rows {
		var err error
		if r.Error != "" {
			_, err = fmt.Fprintf(w, "%s\t-\terror: %s\n", r.Hand, r.Error)
		} else {
			_, err = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.Hand, r.Total, r.Form, r.FansText(chinese))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Summary totals the successful rows.
func Summary(rows []Row) (ok int, failed int, points int) {
	good := lo.Filter(rows, func(r Row, _ int) bool { return r.Error == "" })
	return len(good), len(rows) - len(good), lo.SumBy(good, func(r Row) int { return r.Total })
}
