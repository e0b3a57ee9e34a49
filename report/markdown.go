package report

import (
	"fmt"
	"io"

	"github.com/nao1215/markdown"
	"golang.org/x/xerrors"
)

type markdownWriter struct {
	out io.Writer
}

func (w *markdownWriter) Write(r *Report) error {
	md := markdown.NewMarkdown(w.out)
	md.H1(fmt.Sprintf("Top articles of %s", r.Language))
	md.PlainText("")
	md.PlainText(fmt.Sprintf("%d of %d ranked articles.", len(r.Top), r.Ranked))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows(r),
	})

	if err := md.Build(); err != nil {
		return xerrors.Errorf("write report: %w", err)
	}
	return nil
}
