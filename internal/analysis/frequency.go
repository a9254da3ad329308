package analysis

import (
	"github.com/verte-zerg/cryptan/internal/cipher"
	"github.com/verte-zerg/cryptan/internal/model"
)

// FrequencyReport counts the letters of text and lists every letter that
// occurs, a to z, with its share of the total.
func FrequencyReport(text string) model.FrequencyReport {
	return frequencyReport(cipher.CountFrequency(text))
}

func frequencyReport(table cipher.FrequencyTable) model.FrequencyReport {
	total := table.Total()
	report := model.FrequencyReport{Total: total}
	for i := 0; i < cipher.AlphabetSize; i++ {
		letter := cipher.LetterAt(i)
		n := table.Count(letter)
		if n == 0 {
			continue
		}
		report.Letters = append(report.Letters, model.LetterFrequency{
			Letter:  string(letter),
			Count:   n,
			Percent: float64(n) / float64(total) * 100,
		})
	}
	return report
}
