// Package model defines shared data structures.
package model

import "time"

// Config defines cryptanalysis settings resolved from flags and the config file.
type Config struct {
	MinLength  int
	MaxLength  int
	Candidates int
	History    bool
	Format     string
}

// HistoryConfig defines filters for listing stored runs.
type HistoryConfig struct {
	Source string
	Since  *time.Time
	Last   int
}

// LengthScore captures the index of coincidence measured for one candidate key length.
type LengthScore struct {
	Length     int       `json:"length" yaml:"length"`
	AverageIOC float64   `json:"average_ioc" yaml:"average_ioc"`
	Score      float64   `json:"score" yaml:"score"`
	ClassIOC   []float64 `json:"class_ioc" yaml:"class_ioc"`
}

// KeyLengthReport lists every tried length and the one closest to English.
type KeyLengthReport struct {
	BestLength int           `json:"best_length" yaml:"best_length"`
	Lengths    []LengthScore `json:"lengths" yaml:"lengths"`
}

// Best returns the score entry for BestLength.
func (r KeyLengthReport) Best() (LengthScore, bool) {
	for _, l := range r.Lengths {
		if l.Length == r.BestLength {
			return l, true
		}
	}
	return LengthScore{}, false
}

// AverageSeries returns the average IOC of each tried length in scan order.
func (r KeyLengthReport) AverageSeries() []float64 {
	out := make([]float64, len(r.Lengths))
	for i, l := range r.Lengths {
		out[i] = l.AverageIOC
	}
	return out
}

// LetterFrequency is one row of a frequency table.
type LetterFrequency struct {
	Letter  string  `json:"letter" yaml:"letter"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// FrequencyReport summarizes letter occurrences in a text.
type FrequencyReport struct {
	Letters []LetterFrequency `json:"letters" yaml:"letters"`
	Total   int               `json:"total" yaml:"total"`
}

// ClassAnalysis describes how one key position was inferred.
type ClassAnalysis struct {
	Index        int             `json:"index" yaml:"index"`
	Frequency    FrequencyReport `json:"frequency" yaml:"frequency"`
	MostFrequent string          `json:"most_frequent" yaml:"most_frequent"`
	Shift        int             `json:"shift" yaml:"shift"`
	KeyLetter    string          `json:"key_letter" yaml:"key_letter"`
}

// Candidate is a key recovered for one of the better-scoring lengths.
type Candidate struct {
	Length     int     `json:"length" yaml:"length"`
	Key        string  `json:"key" yaml:"key"`
	AverageIOC float64 `json:"average_ioc" yaml:"average_ioc"`
	Score      float64 `json:"score" yaml:"score"`
}

// Result is the outcome of an automated decryption attempt.
type Result struct {
	KeyLength  int             `json:"key_length" yaml:"key_length"`
	Key        string          `json:"key" yaml:"key"`
	Plaintext  string          `json:"plaintext" yaml:"plaintext"`
	Report     KeyLengthReport `json:"report" yaml:"report"`
	Candidates []Candidate     `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// Run is a persisted cryptanalysis attempt.
type Run struct {
	ID         int64
	CreatedAt  time.Time
	Source     string
	MinLength  int
	MaxLength  int
	Letters    int
	BestLength int
	Key        string
	Preview    string
	Lengths    []LengthScore
}
