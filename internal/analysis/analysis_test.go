package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/cryptan/internal/cipher"
	"github.com/verte-zerg/cryptan/internal/corpus"
)

func encryptCorpus(t *testing.T, key string) string {
	t.Helper()
	k, err := cipher.ParseKey(key)
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	enc, err := cipher.Encrypt(corpus.English(), k)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	return enc
}

func TestIndexOfCoincidence(t *testing.T) {
	text := strings.Repeat("q", 50)
	if got := IndexOfCoincidence(cipher.CountFrequency(text), len(text)); got != 1.0 {
		t.Fatalf("expected 1.0 for repeated letter, got %f", got)
	}
	if got := IndexOfCoincidence(cipher.CountFrequency("a"), 1); got != 0 {
		t.Fatalf("expected 0 for single letter, got %f", got)
	}
	if got := IndexOfCoincidence(cipher.CountFrequency(""), 0); got != 0 {
		t.Fatalf("expected 0 for empty text, got %f", got)
	}
	// aabb: (2*1 + 2*1) / (4*3)
	if got := IndexOfCoincidence(cipher.CountFrequency("aabb"), 4); math.Abs(got-1.0/3.0) > 1e-12 {
		t.Fatalf("expected 1/3, got %f", got)
	}
}

func TestResidueClasses(t *testing.T) {
	classes := ResidueClasses("abcdefg", 3)
	want := []string{"adg", "be", "cf"}
	if len(classes) != len(want) {
		t.Fatalf("expected %d classes, got %d", len(want), len(classes))
	}
	for i := range want {
		if classes[i] != want[i] {
			t.Fatalf("class %d: expected %q, got %q", i, want[i], classes[i])
		}
	}
	if got := ResidueClasses("ab", 4); got[2] != "" || got[3] != "" {
		t.Fatalf("expected trailing empty classes, got %q", got)
	}
}

func TestEstimateKeyLengthFindsTrueLength(t *testing.T) {
	cases := []struct {
		key      string
		min, max int
	}{
		{key: "ncl", min: 1, max: 10},
		{key: "lion", min: 1, max: 7},
		{key: "wolf", min: 3, max: 7},
		{key: "lemon", min: 1, max: 10},
		{key: "cipher", min: 1, max: 10},
		{key: "seaweed", min: 1, max: 10},
		{key: "nightjar", min: 1, max: 10},
	}
	for _, tc := range cases {
		report, err := EstimateKeyLength(encryptCorpus(t, tc.key), tc.min, tc.max)
		if err != nil {
			t.Fatalf("key %q: EstimateKeyLength failed: %v", tc.key, err)
		}
		if report.BestLength != len(tc.key) {
			t.Fatalf("key %q: expected length %d, got %d", tc.key, len(tc.key), report.BestLength)
		}
		if len(report.Lengths) != tc.max-tc.min+1 {
			t.Fatalf("key %q: expected %d scored lengths, got %d", tc.key, tc.max-tc.min+1, len(report.Lengths))
		}
		for i, score := range report.Lengths {
			if score.Length != tc.min+i || len(score.ClassIOC) != score.Length {
				t.Fatalf("key %q: malformed score entry %+v", tc.key, score)
			}
		}
	}
}

func TestEstimateKeyLengthMultipleOfKeyLength(t *testing.T) {
	// Every class at a multiple of the key length is also a shifted English
	// sample, so both lengths average close to the text's own IOC and the
	// nearer one to EnglishIOC wins. On this text 8 edges out 4.
	enc := encryptCorpus(t, "lion")
	report, err := EstimateKeyLength(enc, 1, 10)
	if err != nil {
		t.Fatalf("EstimateKeyLength failed: %v", err)
	}
	if report.BestLength != 8 {
		t.Fatalf("expected the doubled length 8, got %d", report.BestLength)
	}
	four, eight := report.Lengths[3], report.Lengths[7]
	if math.Abs(four.AverageIOC-eight.AverageIOC) > 1e-4 {
		t.Fatalf("expected lengths 4 and 8 to average alike, got %f and %f", four.AverageIOC, eight.AverageIOC)
	}

	result, err := AttemptDecryption(enc, 1, 10)
	if err != nil {
		t.Fatalf("AttemptDecryption failed: %v", err)
	}
	if result.Key != "lionlion" || cipher.Key(result.Key).Period() != "lion" {
		t.Fatalf("expected the repeated key lionlion, got %q", result.Key)
	}
	if result.Plaintext != strings.ToLower(corpus.English()) {
		t.Fatalf("expected the repeated key to decrypt the text")
	}

	candidates, err := CandidateKeys(enc, report, 2)
	if err != nil {
		t.Fatalf("CandidateKeys failed: %v", err)
	}
	if len(candidates) != 2 || candidates[1].Length != 4 || candidates[1].Key != "lion" {
		t.Fatalf("expected lion as the runner-up, got %+v", candidates)
	}
}

func TestEstimateKeyLengthAveragesOverLength(t *testing.T) {
	// Two letters with length 4: two classes of one letter, two empty classes.
	report, err := EstimateKeyLength("aa", 4, 4)
	if err != nil {
		t.Fatalf("EstimateKeyLength failed: %v", err)
	}
	score := report.Lengths[0]
	if score.AverageIOC != 0 || len(score.ClassIOC) != 4 {
		t.Fatalf("unexpected score for degenerate classes: %+v", score)
	}

	report, err = EstimateKeyLength("aaaa", 2, 2)
	if err != nil {
		t.Fatalf("EstimateKeyLength failed: %v", err)
	}
	if report.Lengths[0].AverageIOC != 1 {
		t.Fatalf("expected average 1, got %f", report.Lengths[0].AverageIOC)
	}
}

func TestEstimateKeyLengthTiePrefersShorter(t *testing.T) {
	// Every length yields classes of distinct letters, so all scores tie.
	report, err := EstimateKeyLength("abcdefghij", 2, 5)
	if err != nil {
		t.Fatalf("EstimateKeyLength failed: %v", err)
	}
	if report.BestLength != 2 {
		t.Fatalf("expected tie to resolve to 2, got %d", report.BestLength)
	}
}

func TestEstimateKeyLengthErrors(t *testing.T) {
	if _, err := EstimateKeyLength("some text", 5, 2); !errors.Is(err, cipher.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := EstimateKeyLength("some text", 0, 2); !errors.Is(err, cipher.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := EstimateKeyLength("123 !?", 1, 3); !errors.Is(err, cipher.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestRecoverKey(t *testing.T) {
	for _, key := range []string{"ncl", "lion", "lemon", "cipher", "seaweed", "nightjar"} {
		got, err := RecoverKey(encryptCorpus(t, key), len(key))
		if err != nil {
			t.Fatalf("key %q: RecoverKey failed: %v", key, err)
		}
		if got.String() != key {
			t.Fatalf("expected key %q, got %q", key, got)
		}
	}
}

func TestRecoverKeyErrors(t *testing.T) {
	if _, err := RecoverKey("", 3); !errors.Is(err, cipher.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if _, err := RecoverKey("abc", 0); !errors.Is(err, cipher.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := RecoverKey("abc", 5); !errors.Is(err, cipher.ErrDegenerateClass) {
		t.Fatalf("expected ErrDegenerateClass, got %v", err)
	}
}

func TestRecoverKeyTieBreaksAlphabetically(t *testing.T) {
	// Single class with g and c tied: c wins, c - e = -2 -> y.
	key, err := RecoverKey("ggcc", 1)
	if err != nil {
		t.Fatalf("RecoverKey failed: %v", err)
	}
	if key != "y" {
		t.Fatalf("expected y, got %q", key)
	}
}

func TestAnalyzeClasses(t *testing.T) {
	classes, err := AnalyzeClasses("eeiFx", 2)
	if err != nil {
		t.Fatalf("AnalyzeClasses failed: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}
	// class 0: e, i, x -> tie resolved to e, shift 0.
	if classes[0].MostFrequent != "e" || classes[0].KeyLetter != "a" || classes[0].Shift != 0 {
		t.Fatalf("unexpected class 0: %+v", classes[0])
	}
	// class 1: e, f -> e.
	if classes[1].Frequency.Total != 2 || classes[1].KeyLetter != "a" {
		t.Fatalf("unexpected class 1: %+v", classes[1])
	}
}

func TestAttemptDecryptionReproducesPlaintext(t *testing.T) {
	for _, key := range []string{"ncl", "seaweed"} {
		result, err := AttemptDecryption(encryptCorpus(t, key), 1, 10)
		if err != nil {
			t.Fatalf("key %q: AttemptDecryption failed: %v", key, err)
		}
		if result.KeyLength != len(key) || result.Key != key {
			t.Fatalf("expected key %q, got %q (length %d)", key, result.Key, result.KeyLength)
		}
		if result.Plaintext != strings.ToLower(corpus.English()) {
			t.Fatalf("key %q: decrypted text does not match the plaintext", key)
		}
		if result.Report.BestLength != result.KeyLength {
			t.Fatalf("report best length %d differs from result %d", result.Report.BestLength, result.KeyLength)
		}
	}
}

func TestAttemptDecryptionPropagatesErrors(t *testing.T) {
	if _, err := AttemptDecryption("text", 5, 2); !errors.Is(err, cipher.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := AttemptDecryption("", 1, 3); !errors.Is(err, cipher.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestCandidateKeys(t *testing.T) {
	enc := encryptCorpus(t, "lemon")
	report, err := EstimateKeyLength(enc, 1, 12)
	if err != nil {
		t.Fatalf("EstimateKeyLength failed: %v", err)
	}
	candidates, err := CandidateKeys(enc, report, 3)
	if err != nil {
		t.Fatalf("CandidateKeys failed: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	if candidates[0].Length != report.BestLength || candidates[0].Key != "lemon" {
		t.Fatalf("expected best candidate lemon, got %+v", candidates[0])
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score < candidates[i-1].Score {
			t.Fatalf("candidates not sorted by score: %+v", candidates)
		}
	}
}

func TestCandidateKeysSkipsDegenerateLengths(t *testing.T) {
	report, err := EstimateKeyLength("abcab", 1, 8)
	if err != nil {
		t.Fatalf("EstimateKeyLength failed: %v", err)
	}
	candidates, err := CandidateKeys("abcab", report, 8)
	if err != nil {
		t.Fatalf("CandidateKeys failed: %v", err)
	}
	if len(candidates) != 5 {
		t.Fatalf("expected lengths 1-5 only, got %+v", candidates)
	}
}

func TestFrequencyReport(t *testing.T) {
	report := FrequencyReport("Abba, c!")
	if report.Total != 5 {
		t.Fatalf("expected 5 letters, got %d", report.Total)
	}
	if len(report.Letters) != 3 {
		t.Fatalf("expected 3 letters present, got %+v", report.Letters)
	}
	if report.Letters[1].Letter != "b" || report.Letters[1].Count != 2 || report.Letters[1].Percent != 40 {
		t.Fatalf("unexpected row for b: %+v", report.Letters[1])
	}
}
