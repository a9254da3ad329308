// Package main provides the CLI entrypoint for cryptan.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/cryptan/internal/analysis"
	"github.com/verte-zerg/cryptan/internal/cipher"
	"github.com/verte-zerg/cryptan/internal/config"
	"github.com/verte-zerg/cryptan/internal/corpus"
	"github.com/verte-zerg/cryptan/internal/generator"
	"github.com/verte-zerg/cryptan/internal/historyui"
	"github.com/verte-zerg/cryptan/internal/keyprompt"
	"github.com/verte-zerg/cryptan/internal/model"
	"github.com/verte-zerg/cryptan/internal/report"
	"github.com/verte-zerg/cryptan/internal/source"
	"github.com/verte-zerg/cryptan/internal/store"
)

const (
	defaultMinLength  = 1
	defaultMaxLength  = 10
	defaultCandidates = 0
	defaultHistory    = true
	defaultFormat     = report.FormatText
	defaultPreviewLen = 60
	demoMinKeyLength  = 3
	demoMaxKeyLength  = 8
)

var (
	verbose bool

	shiftAmount  int
	shiftDecrypt bool

	vigenereKey string

	keylenMin int
	keylenMax int

	recoverLength  int
	recoverDecrypt bool

	crackMin        int
	crackMax        int
	crackFormat     string
	crackCandidates int
	crackNoHistory  bool

	historyPlain  bool
	historyLast   int
	historySince  string
	historySource string

	demoKey     string
	demoLength  int
	demoSeed    int64
	demoLetters int
	demoMin     int
	demoMax     int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cryptan",
		Short:         "Classical cipher toolkit and Vigenère cryptanalysis",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress to stderr")

	rootCmd.AddCommand(newFreqCmd())
	rootCmd.AddCommand(newShiftCmd())
	rootCmd.AddCommand(newVigenereCmd("encrypt", "Encrypt text with a Vigenère key", cipher.Encrypt))
	rootCmd.AddCommand(newVigenereCmd("decrypt", "Decrypt text with a Vigenère key", cipher.Decrypt))
	rootCmd.AddCommand(newKeylenCmd())
	rootCmd.AddCommand(newRecoverCmd())
	rootCmd.AddCommand(newCrackCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newFreqCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "freq [file|-]",
		Short: "Print letter frequencies",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFreqCmd,
	}
}

func runFreqCmd(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if err := report.RenderFrequency(cmd.OutOrStdout(), analysis.FrequencyReport(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newShiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shift [file|-]",
		Short: "Apply a Caesar shift",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShiftCmd,
	}
	cmd.Flags().IntVar(&shiftAmount, "amount", 0, "shift amount (any integer)")
	cmd.Flags().BoolVar(&shiftDecrypt, "decrypt", false, "reverse the shift")
	if err := cmd.MarkFlagRequired("amount"); err != nil {
		panic(err)
	}
	return cmd
}

func runShiftCmd(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	out := cipher.Shift(text, shiftAmount)
	if shiftDecrypt {
		out = cipher.Unshift(text, shiftAmount)
	}
	return writeText(cmd.OutOrStdout(), out)
}

func newVigenereCmd(use, short string, transform func(string, cipher.Key) (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [file|-]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolveKey(cmd, use)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out, err := transform(text, key)
			if err != nil {
				return fmt.Errorf("failed to %s: %w", use, err)
			}
			return writeText(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&vigenereKey, "key", "", "key (letters only); prompted when omitted on a terminal")
	return cmd
}

// resolveKey takes the key from --key, or prompts for it when stdin is a terminal.
func resolveKey(cmd *cobra.Command, action string) (cipher.Key, error) {
	if cmd.Flags().Changed("key") {
		key, err := cipher.ParseKey(vigenereKey)
		if err != nil {
			return "", fmt.Errorf("invalid --key: %w", err)
		}
		return key, nil
	}
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return "", fmt.Errorf("--key is required when stdin is not a terminal")
	}
	title := fmt.Sprintf("Enter the key to %s with", action)
	key, err := keyprompt.Prompt(title, in, os.Stderr)
	if isCancelled(err) {
		logErrln("No key entered.")
		return "", err
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

func newKeylenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keylen [file|-]",
		Short: "Estimate the Vigenère key length",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runKeylenCmd,
	}
	cmd.Flags().IntVar(&keylenMin, "min", defaultMinLength, "smallest key length to try")
	cmd.Flags().IntVar(&keylenMax, "max", defaultMaxLength, "largest key length to try")
	return cmd
}

func runKeylenCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "min", &keylenMin, fileCfg.Analysis.MinLength)
	applyIntConfig(cmd, "max", &keylenMax, fileCfg.Analysis.MaxLength)
	if err := validateRange(keylenMin, keylenMax); err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	kl, err := analysis.EstimateKeyLength(text, keylenMin, keylenMax)
	if err != nil {
		return fmt.Errorf("failed to estimate key length: %w", err)
	}

	out := cmd.OutOrStdout()
	useColor := report.ShouldUseColor(out)
	if err := report.RenderKeyLength(out, kl, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderIOCBars(out, kl, 0, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newRecoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover [file|-]",
		Short: "Recover a key of known length",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRecoverCmd,
	}
	cmd.Flags().IntVar(&recoverLength, "length", 0, "key length")
	cmd.Flags().BoolVar(&recoverDecrypt, "decrypt", false, "also print the decrypted text")
	if err := cmd.MarkFlagRequired("length"); err != nil {
		panic(err)
	}
	return cmd
}

func runRecoverCmd(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	key, err := analysis.RecoverKey(text, recoverLength)
	if err != nil {
		return fmt.Errorf("failed to recover key: %w", err)
	}

	out := cmd.OutOrStdout()
	if verbose {
		classes, err := analysis.AnalyzeClasses(text, recoverLength)
		if err != nil {
			return fmt.Errorf("failed to analyze classes: %w", err)
		}
		if err := report.RenderClasses(out, classes); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(out, "Key: %s\n", report.KeyLabel(key.String())); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !recoverDecrypt {
		return nil
	}
	plain, err := cipher.Decrypt(text, key)
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}
	if _, err := fmt.Fprintln(out, "\nDecrypted text:"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return writeText(out, plain)
}

func newCrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crack [file|-]",
		Short: "Recover the key and plaintext from Vigenère ciphertext",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCrackCmd,
	}
	cmd.Flags().IntVar(&crackMin, "min", defaultMinLength, "smallest key length to try")
	cmd.Flags().IntVar(&crackMax, "max", defaultMaxLength, "largest key length to try")
	cmd.Flags().StringVar(&crackFormat, "format", defaultFormat, "output format: "+strings.Join(report.Formats, ", "))
	cmd.Flags().IntVar(&crackCandidates, "candidates", defaultCandidates, "number of runner-up keys to show")
	cmd.Flags().BoolVar(&crackNoHistory, "no-history", false, "do not store this run")
	return cmd
}

func runCrackCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "min", &crackMin, fileCfg.Analysis.MinLength)
	applyIntConfig(cmd, "max", &crackMax, fileCfg.Analysis.MaxLength)
	applyStringConfig(cmd, "format", &crackFormat, fileCfg.Analysis.Format)
	applyIntConfig(cmd, "candidates", &crackCandidates, fileCfg.Analysis.Candidates)

	history := defaultHistory
	if fileCfg.Analysis.History != nil {
		history = *fileCfg.Analysis.History
	}
	if crackNoHistory {
		history = false
	}

	cfg := model.Config{
		MinLength:  crackMin,
		MaxLength:  crackMax,
		Candidates: crackCandidates,
		History:    history,
		Format:     strings.ToLower(crackFormat),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	path := source.ArgPath(args)
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	if verbose {
		logErrf("Trying key lengths %d-%d on %d letters\n", cfg.MinLength, cfg.MaxLength, len(cipher.Normalize(text)))
	}
	result, err := analysis.AttemptDecryption(text, cfg.MinLength, cfg.MaxLength)
	if err != nil {
		return fmt.Errorf("failed to crack: %w", err)
	}
	if cfg.Candidates > 0 {
		result.Candidates, err = analysis.CandidateKeys(text, result.Report, cfg.Candidates)
		if err != nil {
			return fmt.Errorf("failed to rank candidate keys: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if err := report.Write(out, cfg.Format, result, report.ShouldUseColor(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if cfg.History {
		run := model.Run{
			CreatedAt:  time.Now(),
			Source:     source.Label(path),
			MinLength:  cfg.MinLength,
			MaxLength:  cfg.MaxLength,
			Letters:    len(cipher.Normalize(text)),
			BestLength: result.KeyLength,
			Key:        result.Key,
			Preview:    source.Preview(result.Plaintext, defaultPreviewLen),
			Lengths:    result.Report.Lengths,
		}
		if err := saveRun(cmd, run); err != nil {
			logErrf("failed to save run: %v\n", err)
		}
	}
	return nil
}

func saveRun(cmd *cobra.Command, run model.Run) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	id, err := st.InsertRun(cmd.Context(), run)
	if err != nil {
		return err
	}
	if verbose {
		logErrf("Saved run %d\n", id)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse stored cryptanalysis runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a table instead of the interactive browser")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&historySource, "source", "", "source filter")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	cfg := model.HistoryConfig{
		Source: historySource,
		Since:  sinceTime,
		Last:   historyLast,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if historyPlain || !isTerminal(out) {
		if err := report.RenderRuns(out, runs); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	browser := historyui.NewModel(st, runs)
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Encrypt the bundled English text and crack it",
		Args:  cobra.NoArgs,
		RunE:  runDemoCmd,
	}
	cmd.Flags().StringVar(&demoKey, "key", "", "key to encrypt with (random when omitted)")
	cmd.Flags().IntVar(&demoLength, "length", 0, "length of the random key (random when omitted)")
	cmd.Flags().Int64Var(&demoSeed, "seed", 0, "random seed (time based when 0)")
	cmd.Flags().IntVar(&demoLetters, "letters", 0, "use an excerpt of at least N letters (whole text when 0)")
	cmd.Flags().IntVar(&demoMin, "min", defaultMinLength, "smallest key length to try")
	cmd.Flags().IntVar(&demoMax, "max", defaultMaxLength, "largest key length to try")
	return cmd
}

func runDemoCmd(cmd *cobra.Command, _ []string) error {
	if err := validateRange(demoMin, demoMax); err != nil {
		return err
	}
	if demoLength < 0 {
		return fmt.Errorf("--length must be >= 0")
	}
	if demoLetters < 0 {
		return fmt.Errorf("--letters must be >= 0")
	}

	gen := generator.New()
	if demoSeed != 0 {
		gen = generator.NewSeeded(demoSeed)
	}

	var key cipher.Key
	if demoKey != "" {
		parsed, err := cipher.ParseKey(demoKey)
		if err != nil {
			return fmt.Errorf("invalid --key: %w", err)
		}
		key = parsed
	} else {
		length := demoLength
		if length == 0 {
			length = gen.KeyLength(demoMinKeyLength, demoMaxKeyLength)
		}
		key = gen.Key(length)
	}

	plain := corpus.English()
	if demoLetters > 0 {
		plain = gen.Excerpt(plain, demoLetters)
	}
	cipherText, err := cipher.Encrypt(plain, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}
	if verbose {
		logErrf("Encrypted %d letters with a key of length %d\n", len(cipher.Normalize(plain)), key.Len())
	}

	result, err := analysis.AttemptDecryption(cipherText, demoMin, demoMax)
	if err != nil {
		return fmt.Errorf("failed to crack: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := report.RenderKeyLength(out, result.Report, report.ShouldUseColor(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	// A multiple of the key length recovers the key repeated, which decrypts
	// the same text.
	recovered := cipher.Key(result.Key)
	match := "no"
	switch {
	case recovered == key:
		match = "yes"
	case recovered.Period() == key.Period():
		match = "yes (key found repeated)"
	}
	lines := []string{
		"",
		fmt.Sprintf("Secret key: %s", key),
		fmt.Sprintf("Recovered key: %s", report.KeyLabel(result.Key)),
		fmt.Sprintf("Match: %s", match),
		fmt.Sprintf("Ciphertext: %s", source.Preview(cipherText, defaultPreviewLen)),
		fmt.Sprintf("Plaintext: %s", source.Preview(result.Plaintext, defaultPreviewLen)),
	}
	if err := writeText(out, strings.Join(lines, "\n")); err != nil {
		return err
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path, err := ensureConfigFile()
	if err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless a config already exists.
func ensureConfigFile() (string, error) {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return "", fmt.Errorf("failed to write config: %w", err)
		}
	}
	return path, nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	path := source.ArgPath(args)
	text, err := source.ReadText(path, cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source.Label(path), err)
	}
	return text, nil
}

func writeText(w io.Writer, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cryptan configuration
# Uncomment a value to enable it. CLI flags override config values.

[analysis]
# min-length = %d         # Smallest key length to try
# max-length = %d        # Largest key length to try
# candidates = %d         # Runner-up keys shown by crack
# history = %t         # Store crack runs in the history database
# format = %q         # Output format: %s
`,
		defaultMinLength,
		defaultMaxLength,
		defaultCandidates,
		defaultHistory,
		defaultFormat,
		strings.Join(report.Formats, ", "),
	)
}

func validateRange(minLength, maxLength int) error {
	if minLength < 1 {
		return fmt.Errorf("--min must be >= 1")
	}
	if maxLength < minLength {
		return fmt.Errorf("--max must be >= --min")
	}
	return nil
}

func validateConfig(cfg model.Config) error {
	if err := validateRange(cfg.MinLength, cfg.MaxLength); err != nil {
		return err
	}
	if cfg.Candidates < 0 {
		return fmt.Errorf("--candidates must be >= 0")
	}
	if !report.ValidFormat(cfg.Format) {
		return fmt.Errorf("--format must be one of: %s", strings.Join(report.Formats, ", "))
	}
	return nil
}

func isCancelled(err error) bool {
	return errors.Is(err, keyprompt.ErrCancelled)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
