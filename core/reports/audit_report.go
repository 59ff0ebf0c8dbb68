package reports

import (
	"fmt"
	"time"

	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

func AuditReport(a store.Audit, now time.Time) (*Document, error) {
	w := newPDFWriter("Audit Report")
	w.title("Audit Report")
	w.text("Generated: " + now.UTC().Format(time.RFC1123))
	w.gap(4)
	w.text("Name: " + a.Name)
	w.text("Scope: " + a.Scope)
	w.text("Date: " + formatDate(a.Date))
	w.text("Result: " + a.Result)
	w.text("Status: " + a.Status)
	w.heading("Recommendations:")
	if len(a.Recommendations) == 0 {
		w.item("None")
	}
	for i, rec := range a.Recommendations {
		w.item(fmt.Sprintf("%d. %s", i+1, rec))
	}
	data, err := w.bytes()
	if err != nil {
		return nil, err
	}
	name := utils.Slugify(a.Name)
	if name == "" {
		name = a.ID
	}
	return &Document{
		Filename:    fmt.Sprintf("audit-report-%s.pdf", name),
		ContentType: FormatPDF.ContentType(),
		Data:        data,
	}, nil
}
