package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/verte-zerg/cryptan/internal/cipher"
	"github.com/verte-zerg/cryptan/internal/model"
)

// AttemptDecryption estimates the key length in [minLength, maxLength],
// recovers the key for the winning length and decrypts cipherText with it.
// Errors from each step are returned unchanged in meaning.
func AttemptDecryption(cipherText string, minLength, maxLength int) (model.Result, error) {
	report, err := EstimateKeyLength(cipherText, minLength, maxLength)
	if err != nil {
		return model.Result{}, err
	}
	key, err := RecoverKey(cipherText, report.BestLength)
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to recover key of length %d: %w", report.BestLength, err)
	}
	plaintext, err := cipher.Decrypt(cipherText, key)
	if err != nil {
		return model.Result{}, err
	}
	return model.Result{
		KeyLength: report.BestLength,
		Key:       key.String(),
		Plaintext: plaintext,
		Report:    report,
	}, nil
}

// CandidateKeys recovers keys for the n best-scoring lengths of report, best
// first. Lengths too long for the text are skipped.
func CandidateKeys(cipherText string, report model.KeyLengthReport, n int) ([]model.Candidate, error) {
	if n <= 0 || len(report.Lengths) == 0 {
		return nil, nil
	}
	ranked := make([]model.LengthScore, len(report.Lengths))
	copy(ranked, report.Lengths)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].Length < ranked[j].Length
		}
		return ranked[i].Score < ranked[j].Score
	})

	out := make([]model.Candidate, 0, n)
	for _, score := range ranked {
		if len(out) == n {
			break
		}
		key, err := RecoverKey(cipherText, score.Length)
		if errors.Is(err, cipher.ErrDegenerateClass) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, model.Candidate{
			Length:     score.Length,
			Key:        key.String(),
			AverageIOC: score.AverageIOC,
			Score:      score.Score,
		})
	}
	return out, nil
}
