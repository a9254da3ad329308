package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/cryptan/internal/model"
)

// RenderRuns prints stored runs as a plain table, oldest first.
func RenderRuns(w io.Writer, runs []model.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Source,
			fmt.Sprintf("%d-%d", run.MinLength, run.MaxLength),
			strconv.Itoa(run.Letters),
			strconv.Itoa(run.BestLength),
			run.Key,
			run.Preview,
		})
	}
	headers := []string{"ID", "Date", "Source", "Range", "Letters", "Length", "Key", "Preview"}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 4: true, 5: true}))
}
