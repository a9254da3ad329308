package analysis

import (
	"fmt"
	"math"

	"github.com/verte-zerg/cryptan/internal/cipher"
	"github.com/verte-zerg/cryptan/internal/model"
)

// EstimateKeyLength scores every key length in [minLength, maxLength] by how
// close the average index of coincidence of its residue classes is to
// EnglishIOC. Lengths are scanned in increasing order and a later length wins
// only with a strictly smaller score, so ties favor the shorter key.
//
// The average always divides by the length, so empty classes (possible when the
// length exceeds the letter count) contribute zero.
func EstimateKeyLength(cipherText string, minLength, maxLength int) (model.KeyLengthReport, error) {
	if err := checkRange(minLength, maxLength); err != nil {
		return model.KeyLengthReport{}, err
	}
	text := cipher.Normalize(cipherText)
	if text == "" {
		return model.KeyLengthReport{}, cipher.ErrEmptyText
	}

	report := model.KeyLengthReport{
		Lengths: make([]model.LengthScore, 0, maxLength-minLength+1),
	}
	bestScore := math.Inf(1)
	for length := minLength; length <= maxLength; length++ {
		score := scoreLength(text, length)
		report.Lengths = append(report.Lengths, score)
		if score.Score < bestScore {
			bestScore = score.Score
			report.BestLength = length
		}
	}
	return report, nil
}

func scoreLength(text string, length int) model.LengthScore {
	tables := classTables(text, length)
	classIOC := make([]float64, length)
	var sum float64
	for i, table := range tables {
		classIOC[i] = IndexOfCoincidence(table, table.Total())
		sum += classIOC[i]
	}
	avg := sum / float64(length)
	return model.LengthScore{
		Length:     length,
		AverageIOC: avg,
		Score:      math.Abs(EnglishIOC - avg),
		ClassIOC:   classIOC,
	}
}

func checkRange(minLength, maxLength int) error {
	if minLength < 1 {
		return fmt.Errorf("%w: min length %d must be >= 1", cipher.ErrInvalidRange, minLength)
	}
	if maxLength < minLength {
		return fmt.Errorf("%w: max length %d is below min length %d", cipher.ErrInvalidRange, maxLength, minLength)
	}
	return nil
}
