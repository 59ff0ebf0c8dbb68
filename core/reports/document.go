package reports

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"itsm-desk/core/utils"

	"golang.org/x/crypto/blake2b"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pdf":
		return FormatPDF, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Checksum is the hex BLAKE2b-256 digest of the document body.
func (d *Document) Checksum() string {
	sum := blake2b.Sum256(d.Data)
	return hex.EncodeToString(sum[:])
}

// RenderTable exports t in the given format. The caller applies Select first.
func RenderTable(t Table, format Format, now time.Time) (*Document, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatPDF:
		data, err = tablePDF(t, now.UTC().Format(time.RFC1123))
	case FormatXLSX:
		data, err = workbook(tableSheet(t))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:    fmt.Sprintf("%s-report-%s.%s", utils.Slugify(t.Module), now.UTC().Format(dateLayout), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}
