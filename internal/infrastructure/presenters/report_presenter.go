package presenters

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/slint/depchangelog/internal/domain/entities"
)

// ReportPresenter renders changelog entries to an output stream, underlining
// section headers when the stream is a terminal.
type ReportPresenter struct {
	out    io.Writer
	header *color.Color
}

// NewReportPresenter creates a presenter writing to out. Styling only
// applies on the process stdout; files and buffers get plain text.
func NewReportPresenter(out io.Writer) *ReportPresenter {
	header := color.New(color.Underline)
	if out != os.Stdout {
		header.DisableColor()
	}
	return &ReportPresenter{out: out, header: header}
}

// WriteEntry writes one package section: a blank separator, the underlined
// header, and the indented message block.
func (p *ReportPresenter) WriteEntry(entry entities.ReportEntry) error {
	if _, err := fmt.Fprintln(p.out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if _, err := p.header.Fprintln(p.out, entry.Header()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if _, err := fmt.Fprintln(p.out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if _, err := fmt.Fprintln(p.out, entry.Body()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
