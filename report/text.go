package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/xerrors"
)

type textWriter struct {
	out io.Writer
}

func (w *textWriter) Write(r *Report) error {
	if _, err := fmt.Fprintf(w.out, "Top %d of %d articles (%s)\n\n", len(r.Top), r.Ranked, r.Language); err != nil {
		return xerrors.Errorf("write report: %w", err)
	}

	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, row := range rows(r) {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return xerrors.Errorf("write report: %w", err)
	}
	return nil
}
