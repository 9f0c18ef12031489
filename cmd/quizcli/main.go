package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quiz-sentinel/internal/adapter/quizgen"
	"quiz-sentinel/internal/cli"
	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/logger"
	"quiz-sentinel/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quizcli",
		Short:         "Generate and play adaptive multiple-choice quizzes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newPlayCmd(), newGenerateCmd())
	return root
}

// bootstrap loads configuration, initializes logging and builds the quiz pipeline.
func bootstrap(ctx context.Context) (*config.Config, domain.QuizService, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	source, err := quizgen.NewQuestionSource(ctx, cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("create question source: %w", err)
	}
	logger.Get().Info("Question source ready", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	history := service.NewSessionHistoryService(nil, cfg.Quiz.HistoryTTL)
	return cfg, service.NewQuizService(source, history, nil, cfg.Quiz), nil
}

func newPlayCmd() *cobra.Command {
	var historyFile string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run an interactive quiz session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, quiz, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cmd.Flags().Changed("history") {
				historyFile = cfg.Quiz.HistoryFile
			}
			console := cli.NewConsole(quiz, cmd.InOrStdin(), cmd.OutOrStdout(), historyFile)
			return console.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&historyFile, "history", "session_history.json", "file the run-by-run session history is written to (empty disables)")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		topic      string
		difficulty string
		count      int
		focus      []string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one balanced quiz and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, quiz, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()

			batch, err := quiz.GenerateQuiz(cmd.Context(), domain.QuizConfig{
				Topic:           topic,
				Difficulty:      difficulty,
				QuizCount:       count,
				FocusCategories: focus,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(batch)
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "quiz topic")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", domain.DifficultyMedium, "easy, medium or hard")
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of questions")
	cmd.Flags().StringSliceVar(&focus, "focus", nil, "restrict questions to these categories")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}
