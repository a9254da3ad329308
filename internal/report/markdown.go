package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/verte-zerg/cryptan/internal/model"
)

// WriteMarkdown renders a cryptanalysis result as a Markdown document.
func WriteMarkdown(w io.Writer, result model.Result) error {
	md := markdown.NewMarkdown(w)

	md.H1("Vigenère Cryptanalysis Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Key length", strconv.Itoa(result.KeyLength)},
			{"Key", "`" + result.Key + "`"},
		},
	})
	md.PlainText("")

	md.H2("Index of Coincidence")
	md.PlainText("")
	rows := make([][]string, 0, len(result.Report.Lengths))
	for _, l := range result.Report.Lengths {
		length := strconv.Itoa(l.Length)
		if l.Length == result.Report.BestLength {
			length = "**" + length + "**"
		}
		rows = append(rows, []string{
			length,
			fmt.Sprintf("%.6f", l.AverageIOC),
			fmt.Sprintf("%.6f", l.Score),
			formatClassIOC(l.ClassIOC),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Length", "Avg IOC", "Score", "Class IOC"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(result.Candidates) > 0 {
		md.H2("Candidate Keys")
		md.PlainText("")
		candRows := make([][]string, 0, len(result.Candidates))
		for _, c := range result.Candidates {
			candRows = append(candRows, []string{
				strconv.Itoa(c.Length),
				"`" + c.Key + "`",
				fmt.Sprintf("%.6f", c.Score),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Length", "Key", "Score"},
			Rows:   candRows,
		})
		md.PlainText("")
	}

	md.H2("Decrypted Text")
	md.PlainText("")
	md.PlainText(result.Plaintext)

	return md.Build()
}
