package story

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cyoa-server/shared/models"

	"github.com/jung-kurt/gofpdf"
)

// ExportTranscriptPDF writes the path from the root to id as a PDF document.
// Each section shows the screen text followed by the options it offered.
func (s *Service) ExportTranscriptPDF(ctx context.Context, id string, w io.Writer) error {
	path, err := s.Lineage(ctx, id)
	if err != nil {
		return err
	}
	return writeTranscript(path, w)
}

func writeTranscript(path []*models.Screen, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Story transcript", true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Story transcript: %s", path[0].Genre)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, tr("Started "+path[0].CreatedAt.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for i, screen := range path {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("Screen %d", i+1), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(screen.StoryText), "", "L", false)
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, tr("Options: "+strings.Join(screen.Choices, " / ")), "", "L", false)
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render transcript: %w", err)
	}
	return nil
}
