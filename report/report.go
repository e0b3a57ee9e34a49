// Package report prints the top ranked articles of a wiki edition.
package report

import (
	"io"
	"strconv"

	"github.com/Ahmed-Sermani/wikirank/ranker"
	"golang.org/x/xerrors"
)

// ErrUnknownFormat is returned by NewWriter for unsupported formats.
var ErrUnknownFormat = xerrors.New("unknown report format")

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

var header = []string{"#", "Title", "Rank"}

// Report is the ranked output of one run.
type Report struct {
	Language string

	// Ranked is the number of titles that took part in the ranking.
	Ranked int

	// Top holds the best scores, best first.
	Top []ranker.Score
}

type Writer interface {
	Write(*Report) error
}

// NewWriter returns the writer for format that outputs to w.
func NewWriter(format string, w io.Writer) (Writer, error) {
	switch format {
	case FormatText, "":
		return &textWriter{out: w}, nil
	case FormatMarkdown:
		return &markdownWriter{out: w}, nil
	default:
		return nil, xerrors.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

func rows(r *Report) [][]string {
	out := make([][]string, 0, len(r.Top))
	for i, s := range r.Top {
		out = append(out, []string{strconv.Itoa(i + 1), s.Title, formatRank(s.Rank)})
	}
	return out
}

func formatRank(rank float64) string {
	return strconv.FormatFloat(rank, 'f', 8, 64)
}
