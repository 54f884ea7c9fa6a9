// Package export renders pipeline leads as a CSV download.
package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/justsurfingit/lead-scout/internal/models"
)

var Header = []string{
	"Name",
	"Location",
	"Source",
	"Status",
	"Potential Revenue",
	"Phone",
	"Email",
	"Owner Name",
	"Website",
	"Needs Website",
	"Needs SEO",
	"Needs Social Media",
	"Needs Graphic Design",
	"GMB Issues",
	"Strategic Audit",
	"Service Recommendation",
}

// Filename returns the dated attachment name for an export taken at now.
func Filename(now time.Time) string {
	return "pipelinex_ai_export_" + now.Format("2006-01-02") + ".csv"
}

// Row renders the cells of one lead in Header order.
func Row(l models.CRMLead) []string {
	return []string{
		l.Name,
		l.Location,
		l.LeadSource,
		string(l.Status),
		strconv.FormatFloat(l.DealAmount, 'f', -1, 64),
		l.Phone,
		l.Email,
		l.OwnerName,
		l.Website,
		yesNo(l.Needs.Website),
		yesNo(l.Needs.SEO),
		yesNo(l.Needs.SocialMedia),
		yesNo(l.Needs.GraphicDesign),
		yesNo(l.Needs.GMBIssues),
		l.Analysis,
		l.ServiceRecommendation,
	}
}

// Write emits the header and one row per lead. Every cell is quoted and
// embedded quotes are doubled; rows end in CRLF.
func Write(w io.Writer, leads []models.CRMLead) error {
	bw := bufio.NewWriter(w)
	if err := writeRecord(bw, Header); err != nil {
		return err
	}
	for _, l := range leads {
		if err := writeRecord(bw, Row(l)); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return eris.Wrap(err, "export: flush")
	}
	return nil
}

// Select returns the leads whose id is in ids, keeping pipeline order. An
// empty ids selects everything.
func Select(leads []models.CRMLead, ids []string) []models.CRMLead {
	if len(ids) == 0 {
		return leads
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]models.CRMLead, 0, len(ids))
	for _, l := range leads {
		if _, ok := want[l.ID]; ok {
			out = append(out, l)
		}
	}
	return out
}

func writeRecord(w *bufio.Writer, cells []string) error {
	for i, c := range cells {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(c, `"`, `""`))
		w.WriteByte('"')
	}
	if _, err := w.WriteString("\r\n"); err != nil {
		return eris.Wrap(err, "export: write row")
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
