// Package main provides the CLI entrypoint for lrn.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/lrn/internal/config"
	"github.com/verte-zerg/lrn/internal/convert"
	"github.com/verte-zerg/lrn/internal/display"
	"github.com/verte-zerg/lrn/internal/generator"
	"github.com/verte-zerg/lrn/internal/logging"
	"github.com/verte-zerg/lrn/internal/model"
	"github.com/verte-zerg/lrn/internal/quiz"
	"github.com/verte-zerg/lrn/internal/speech"
	"github.com/verte-zerg/lrn/internal/stats"
	"github.com/verte-zerg/lrn/internal/store"
	"github.com/verte-zerg/lrn/internal/tui"
	"github.com/verte-zerg/lrn/internal/wordbank"
)

const (
	defaultLang         = "en"
	defaultWordsData    = "data.json"
	defaultScrambleData = "sentences.json"
	dotenvFile          = ".env"
)

type quizFlags struct {
	langEN bool
	langUA bool
	data   string
}

var (
	wordsFlags    quizFlags
	scrambleFlags quizFlags

	convertOutput string
	convertSheet  string

	statsLast int
	statsMode string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lrn",
		Short:         "Terminal vocabulary drill (English/Ukrainian)",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuizCmd(cmd, model.ModeWords, &wordsFlags)
		},
	}
	addQuizFlags(rootCmd, &wordsFlags, defaultWordsData)

	rootCmd.AddCommand(newScrambleCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newScrambleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scramble",
		Short: "Rebuild sentences from shuffled words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuizCmd(cmd, model.ModeScramble, &scrambleFlags)
		},
	}
	addQuizFlags(cmd, &scrambleFlags, defaultScrambleData)
	return cmd
}

func addQuizFlags(cmd *cobra.Command, flags *quizFlags, defaultData string) {
	cmd.Flags().BoolVar(&flags.langEN, "lang-en", false, "answer in English, prompts in Ukrainian (default)")
	cmd.Flags().BoolVar(&flags.langUA, "lang-ua", false, "answer in Ukrainian, prompts in English")
	cmd.Flags().StringVar(&flags.data, "data", defaultData, "path to the JSON data file")
	cmd.MarkFlagsMutuallyExclusive("lang-en", "lang-ua")
}

func runQuizCmd(cmd *cobra.Command, mode model.Mode, flags *quizFlags) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	env, err := config.LoadEnv(dotenvFile)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	cfg, err := resolveConfig(cmd, mode, flags, fileCfg, env)
	if err != nil {
		return err
	}

	bank, err := wordbank.Load(cfg.DataPath)
	if err != nil {
		return dataLoadError(cfg.DataPath, err)
	}

	interactive := !cfg.Plain && isTerminal(os.Stdin) && isTerminal(os.Stdout)
	logger, closeLog, err := newLogger(cfg, interactive)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			// Best-effort log flush.
			_ = cerr
		}
	}()
	if len(bank.Duplicates) > 0 {
		logger.Warn("duplicate entries ignored",
			zap.String("path", cfg.DataPath),
			zap.Strings("keys", bank.Duplicates))
	}

	var speaker quiz.Speaker = speech.Nop{}
	if cfg.Speech {
		speaker = speech.New(cfg.Programs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := quiz.NewSession(bank.Entries, generator.New(), cfg)
	startedAt := time.Now()
	if interactive {
		m := tui.NewModel(ctx, session, speaker, logger)
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		if err := m.Err(); err != nil {
			return err
		}
		session.Quit()
		if err := quiz.WriteSummary(cmd.OutOrStdout(), session); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		runner := &quiz.Runner{
			In:      os.Stdin,
			Out:     cmd.OutOrStdout(),
			Speaker: speaker,
			Screen:  display.NewScreen(os.Stdout),
			Logger:  logger,
		}
		if err := runner.Run(ctx, session); err != nil {
			return err
		}
	}

	recordHistory(cfg, session, startedAt, logger)
	return nil
}

func resolveConfig(cmd *cobra.Command, mode model.Mode, flags *quizFlags, fileCfg config.FileConfig, env config.EnvOverrides) (model.Config, error) {
	lang := defaultLang
	if flags.langUA {
		lang = string(model.LangUA)
	}
	langChanged := cmd.Flags().Changed("lang-en") || cmd.Flags().Changed("lang-ua")
	if !langChanged {
		if fileCfg.Quiz.Lang != nil {
			lang = *fileCfg.Quiz.Lang
		}
		if env.Lang != "" {
			lang = env.Lang
		}
	}

	data := flags.data
	dataFromFile, dataFromEnv := fileCfg.Quiz.Data, env.Data
	if mode == model.ModeScramble {
		dataFromFile, dataFromEnv = fileCfg.Scramble.Data, env.ScrambleData
	}
	applyStringConfig(cmd, "data", &data, dataFromFile)
	applyStringEnv(cmd, "data", &data, dataFromEnv)

	cfg := model.Config{
		Mode:     mode,
		DataPath: data,
		Options:  generator.DefaultOptions,
		Speech:   true,
		Programs: speech.DefaultPrograms,
		History:  true,
		LogLevel: logging.DefaultLevel,
	}
	parsed, ok := model.ParseLanguage(lang)
	if !ok {
		return model.Config{}, fmt.Errorf("unknown language %q (use en or ua)", lang)
	}
	cfg.Lang = parsed

	if fileCfg.Quiz.Options != nil {
		cfg.Options = *fileCfg.Quiz.Options
	}
	if fileCfg.Speech.Enabled != nil {
		cfg.Speech = *fileCfg.Speech.Enabled
	}
	if len(fileCfg.Speech.Programs) > 0 {
		cfg.Programs = fileCfg.Speech.Programs
	}
	if fileCfg.UI.Plain != nil {
		cfg.Plain = *fileCfg.UI.Plain
	}
	if fileCfg.History.Enabled != nil {
		cfg.History = *fileCfg.History.Enabled
	}
	if fileCfg.Log.Level != nil {
		cfg.LogLevel = *fileCfg.Log.Level
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}

	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
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

func applyStringEnv(cmd *cobra.Command, name string, target *string, value string) {
	if value == "" {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.DataPath) == "" {
		return fmt.Errorf("--data must not be empty")
	}
	if cfg.Options < 1 {
		return fmt.Errorf("quiz.options must be >= 1")
	}
	return nil
}

func newLogger(cfg model.Config, interactive bool) (*zap.Logger, func() error, error) {
	if interactive {
		logger, closeFn, err := logging.NewFile(config.DefaultLogPath(), cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log: %w", err)
		}
		return logger, closeFn, nil
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() error {
		if err := logger.Sync(); err != nil {
			// Sync on stderr fails on some platforms.
			_ = err
		}
		return nil
	}, nil
}

func recordHistory(cfg model.Config, session *quiz.Session, startedAt time.Time, logger *zap.Logger) {
	if !cfg.History || session.Tally().Attempts() == 0 {
		return
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.Warn("failed to open history", zap.Error(err))
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close history", zap.Error(cerr))
		}
	}()

	dataPath := cfg.DataPath
	if abs, err := filepath.Abs(dataPath); err == nil {
		dataPath = abs
	}
	tally := session.Tally()
	rec := model.SessionRecord{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		EndedAt:   time.Now(),
		Mode:      session.Mode(),
		Lang:      session.Lang(),
		DataPath:  dataPath,
		Entries:   session.Size(),
		Solved:    session.Solved(),
		Correct:   tally.Correct,
		Incorrect: tally.Incorrect,
		Outcome:   session.Outcome(),
	}
	if err := st.InsertSession(context.Background(), rec); err != nil {
		logger.Warn("failed to save session", zap.Error(err))
	}
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a TSV or XLSX word list to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvertCmd,
	}
	cmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output path (default: input with .json extension)")
	cmd.Flags().StringVar(&convertSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	return cmd
}

func runConvertCmd(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := convertOutput
	if output == "" {
		output = convert.DefaultOutputPath(input)
	}
	n, err := convert.File(input, output, convertSheet)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", input, err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", n, output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter (words or scramble)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	filter, err := statsFilter(statsMode, statsLast)
	if err != nil {
		return err
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
	report, err := stats.BuildReport(cmd.Context(), st, filter)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if err := report.Render(cmd.OutOrStdout(), stats.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func statsFilter(mode string, last int) (model.HistoryFilter, error) {
	if last < 0 {
		return model.HistoryFilter{}, fmt.Errorf("--last must be >= 0")
	}
	filter := model.HistoryFilter{Last: last}
	switch model.Mode(strings.ToLower(strings.TrimSpace(mode))) {
	case "":
	case model.ModeWords:
		filter.Mode = model.ModeWords
	case model.ModeScramble:
		filter.Mode = model.ModeScramble
	default:
		return model.HistoryFilter{}, fmt.Errorf("unknown mode %q (use words or scramble)", mode)
	}
	return filter, nil
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
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lrn configuration
# Uncomment a value to enable it. Environment variables (%s, %s, %s, %s)
# override the file, CLI flags override both. %s sets the word quiz data,
# %s the scramble data.

[quiz]
# lang = %q               # Answer language: en or ua
# data = %q        # Word list for the choice quiz
# options = %d              # Options shown per round

[scramble]
# data = %q   # Sentence list for lrn scramble

[speech]
# enabled = true
# programs = [%s]

[ui]
# plain = false             # Always use the line interface

[history]
# enabled = true            # Record finished sessions for lrn stats

[log]
# level = %q             # debug, info, warn or error
`,
		config.EnvLang,
		config.EnvData,
		config.EnvScrambleData,
		config.EnvLogLevel,
		config.EnvData,
		config.EnvScrambleData,
		defaultLang,
		defaultWordsData,
		generator.DefaultOptions,
		defaultScrambleData,
		quotedList(speech.DefaultPrograms),
		logging.DefaultLevel,
	)
}

func quotedList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

func dataLoadError(path string, err error) error {
	var hints []string
	switch {
	case errors.Is(err, wordbank.ErrNotFound):
		hints = []string{
			fmt.Sprintf("expected data file at: %s", path),
			"Pass another file with: lrn --data <path>",
			"Convert a TSV or XLSX list with: lrn convert <input>",
		}
	case errors.Is(err, wordbank.ErrMalformed):
		hints = []string{`expected a JSON array of objects like {"en": "cat", "ua": "кіт"}`}
	}
	if len(hints) == 0 {
		return fmt.Errorf("failed to load data file: %w", err)
	}
	return fmt.Errorf("failed to load data file: %w\n%s", err, strings.Join(hints, "\n"))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
