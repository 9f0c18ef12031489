// Package cli runs the interactive quiz session on a terminal.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/logger"

	"go.uber.org/zap"
)

// ErrInputClosed is returned when the input ends in the middle of a prompt.
var ErrInputClosed = errors.New("input closed")

// HistoryEntry is one round as written to the session history file.
type HistoryEntry struct {
	RunID         string                `json:"run_id"`
	Config        domain.QuizConfig     `json:"config"`
	CategoryStats []domain.CategoryStat `json:"category_stats"`
	ScorePercent  float64               `json:"score_percent"`
	Timestamp     time.Time             `json:"timestamp"`
}

// Console drives one quiz session over a reader and a writer.
type Console struct {
	quiz        domain.QuizService
	in          *bufio.Scanner
	out         io.Writer
	historyFile string
	style       styles

	sessionID string
	history   []HistoryEntry
}

// NewConsole returns a console. An empty historyFile disables the history export.
func NewConsole(quiz domain.QuizService, in io.Reader, out io.Writer, historyFile string) *Console {
	return &Console{
		quiz:        quiz,
		in:          bufio.NewScanner(in),
		out:         out,
		historyFile: historyFile,
		style:       newStyles(out),
	}
}

// SessionID is the id assigned by the first graded round.
func (c *Console) SessionID() string {
	return c.sessionID
}

// Run plays rounds until the user ends the session, then prints the session report.
func (c *Console) Run(ctx context.Context) error {
	c.println(c.style.Header.Render("=== Quiz Session Starting ==="))

	var cfg *domain.QuizConfig
	for {
		if cfg == nil {
			asked, err := c.askConfig("Enter the topic for the quiz (e.g., 'Python Basics', 'Kinematics'): ")
			if err != nil {
				return err
			}
			cfg = asked
		}

		next, redirect, err := c.playRound(ctx, *cfg)
		if err != nil {
			if errors.Is(err, ErrInputClosed) {
				return err
			}
			c.println(c.style.Bad.Render("ERROR: " + err.Error()))
			break
		}
		if !redirect {
			break
		}
		cfg = next
	}

	c.printSessionReport(ctx)
	c.saveHistory()
	return nil
}

func (c *Console) playRound(ctx context.Context, cfg domain.QuizConfig) (*domain.QuizConfig, bool, error) {
	cfg = cfg.Normalized()
	c.printf("\n--- Generating Quiz (%s | %s | %d Qs) ---\n", cfg.Topic, cfg.Difficulty, cfg.QuizCount)
	batch, err := c.quiz.GenerateQuiz(ctx, cfg)
	if err != nil {
		return nil, false, err
	}

	answers, err := c.askAnswers(batch)
	if err != nil {
		return nil, false, err
	}

	result, err := c.quiz.GradeQuiz(ctx, domain.GradeRequest{
		SessionID: c.sessionID,
		Config:    cfg,
		Questions: batch,
		Answers:   answers,
	})
	if err != nil {
		return nil, false, err
	}
	c.sessionID = result.SessionID
	c.history = append(c.history, HistoryEntry{
		RunID:         result.RunID,
		Config:        cfg,
		CategoryStats: result.Report.CategoryStats,
		ScorePercent:  result.Report.ScorePercent,
		Timestamp:     time.Now().UTC(),
	})

	c.printReport(result.Report)
	c.printProgress(result.Progress)
	c.println("\n" + c.style.Good.Render("✅ Quiz completed."))
	c.printf("Summary: Your overall quiz score was %.2f%%.\n", result.Report.ScorePercent)

	decision, err := c.askNextStep(result.Report)
	if err != nil {
		return nil, false, err
	}
	next, redirect, err := c.quiz.PlanNext(ctx, c.sessionID, result.Report, decision)
	if err != nil {
		return nil, false, err
	}
	c.describeDecision(decision, next, redirect)
	return next, redirect, nil
}

func (c *Console) askConfig(topicPrompt string) (*domain.QuizConfig, error) {
	c.println("\n" + c.style.Section.Render("--- Topic / Difficulty / Quiz Count ---"))
	topic, err := c.askTopic(topicPrompt)
	if err != nil {
		return nil, err
	}
	difficulty, err := c.readLine("Enter difficulty (easy / medium / hard): ")
	if err != nil {
		return nil, err
	}
	count, err := c.askCount("Enter number of questions you want in the quiz: ", "Invalid number. Please enter a positive integer (e.g., 5, 10).")
	if err != nil {
		return nil, err
	}
	return &domain.QuizConfig{
		Topic:      topic,
		Difficulty: domain.NormalizeDifficulty(difficulty),
		QuizCount:  count,
	}, nil
}

func (c *Console) askTopic(prompt string) (string, error) {
	for {
		topic, err := c.readLine(prompt)
		if err != nil {
			return "", err
		}
		if domain.IsMeaningfulTopic(topic) {
			return topic, nil
		}
		c.println("Invalid topic. Please enter a meaningful topic name (e.g., 'Python Basics').")
	}
}

func (c *Console) askCount(prompt, retry string) (int, error) {
	for {
		raw, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n, nil
		}
		c.println(retry)
	}
}

func (c *Console) askYesNo(prompt string) (bool, error) {
	for {
		raw, err := c.readLine(prompt + " (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(raw) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.println("Please enter 'y' or 'n'.")
	}
}

func (c *Console) askAnswers(batch domain.QuizBatch) ([]string, error) {
	c.println("\n" + c.style.Section.Render("--- Answer the Questions ---"))
	answers := make([]string, 0, len(batch))
	for idx, q := range batch {
		c.printf("\nQ%d: %s\n", idx+1, q.Text)
		for i, opt := range q.Options {
			c.printf("  %d. %s\n", i+1, opt)
		}
		if len(q.Options) == 0 {
			ans, err := c.readLine(fmt.Sprintf("Enter your answer for Q%d: ", idx+1))
			if err != nil {
				return nil, err
			}
			answers = append(answers, ans)
			continue
		}
		for {
			raw, err := c.readLine(fmt.Sprintf("Enter your answer for Q%d (1-%d): ", idx+1, len(q.Options)))
			if err != nil {
				return nil, err
			}
			if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(q.Options) {
				answers = append(answers, q.Options[n-1])
				break
			}
			c.println("Invalid choice, please try again.")
		}
	}
	return answers, nil
}

func (c *Console) askNextStep(report *domain.ProgressReport) (domain.NextStepDecision, error) {
	c.println("\n" + c.style.Section.Render("--- What Next ---"))
	switch domain.NextStepOptions(report) {
	case domain.MenuEqual:
		c.printf("\nYour performance is equal across all categories (~%.2f%%).\n", report.EqualPercent)
		c.println("Options:")
		c.println("  1) Continue with the SAME topic (generate another quiz on same topic)")
		c.println("  2) Move to the NEXT topic (provide new topic now)")
		c.println("  3) End session")
		for {
			choice, err := c.readLine("Enter 1 / 2 / 3: ")
			if err != nil {
				return domain.NextStepDecision{}, err
			}
			switch choice {
			case "1":
				return domain.NextStepDecision{Action: domain.ActionSameTopic}, nil
			case "2":
				c.println("Enter details for the next topic:")
				cfg, err := c.askConfig("Enter the NEXT topic for the quiz: ")
				if err != nil {
					return domain.NextStepDecision{}, err
				}
				return domain.NextStepDecision{
					Action:     domain.ActionNextTopic,
					Topic:      cfg.Topic,
					Difficulty: cfg.Difficulty,
					QuizCount:  cfg.QuizCount,
				}, nil
			case "3":
				return domain.NextStepDecision{Action: domain.ActionEnd}, nil
			}
			c.println("Please enter 1, 2, or 3.")
		}

	case domain.MenuWeak:
		c.println("\nWe detected weakest category/categories:")
		for _, cat := range report.WeakCategories {
			c.printf("  - %s\n", cat)
		}
		focus, err := c.askYesNo("Do you want to continue with a quiz focused on the weak category/categories?")
		if err != nil || !focus {
			return domain.NextStepDecision{Action: domain.ActionEnd}, err
		}
		count, err := c.askCount("Enter number of questions for the focused quiz: ", "Invalid number. Please enter a positive integer (e.g., 4, 6).")
		if err != nil {
			return domain.NextStepDecision{}, err
		}
		difficulty, err := c.readLine("Enter difficulty for focused quiz (easy/medium/hard, default=medium): ")
		if err != nil {
			return domain.NextStepDecision{}, err
		}
		return domain.NextStepDecision{Action: domain.ActionFocusWeak, Difficulty: difficulty, QuizCount: count}, nil

	default:
		again, err := c.askYesNo("Do you want to generate another quiz on the same topic?")
		if err != nil || !again {
			return domain.NextStepDecision{Action: domain.ActionEnd}, err
		}
		return domain.NextStepDecision{Action: domain.ActionSameTopic}, nil
	}
}

func (c *Console) describeDecision(d domain.NextStepDecision, next *domain.QuizConfig, redirect bool) {
	switch {
	case !redirect:
		c.println("Ending the session. Goodbye!")
	case d.Action == domain.ActionSameTopic && next == nil:
		c.println("No previous config found; will ask for topic/difficulty/quiz count.")
	case d.Action == domain.ActionSameTopic:
		c.println("Preparing another quiz with same configuration.")
	case d.Action == domain.ActionNextTopic:
		c.println("Will generate a quiz for the new topic you provided.")
	case d.Action == domain.ActionFocusWeak:
		c.println("Will generate a focused quiz on the weak categories.")
	}
}

func (c *Console) printReport(report *domain.ProgressReport) {
	c.printf("\nYou answered %d/%d correctly. Score: %.2f%%\n", report.CorrectCount, report.TotalQuestions, report.ScorePercent)
	for idx, d := range report.Details {
		result := c.style.Good.Render("Correct ✅")
		if !d.IsCorrect {
			result = c.style.Bad.Render("Wrong ❌")
		}
		c.printf("\nQ%d: %s\n", idx+1, d.Question)
		c.printf("Category      : %s\n", d.Category)
		c.printf("Your answer   : %s\n", d.UserAnswer)
		c.printf("Correct answer: %s\n", d.CorrectAnswer)
		c.printf("Result        : %s\n", result)
		if d.Explanation != "" {
			c.printf("Explanation   : %s\n", c.style.Muted.Render(d.Explanation))
		}
	}

	c.println("\n" + c.style.Section.Render("=== Category-wise Performance ==="))
	c.printStats(report.CategoryStats)
	switch {
	case report.EqualPerformance:
		c.println("\nYou have equal performance across all categories.")
		c.printf("You're proficient in these topics at about %.2f%%:\n", report.EqualPercent)
		for _, s := range report.CategoryStats {
			c.printf("  • %s\n", s.Category)
		}
	case len(report.CategoryStats) > 0:
		c.println("\nBest category/categories:")
		c.printRanked(report.CategoryStats, report.BestCategories)
		c.println("\nWeakest category/categories:")
		c.printRanked(report.CategoryStats, report.WeakCategories)
	}
}

func (c *Console) printStats(stats []domain.CategoryStat) {
	for _, s := range stats {
		c.printf("- %s: %d/%d correct (%.2f%%)\n", s.Category, s.Correct, s.Total, s.Percent)
	}
}

func (c *Console) printRanked(stats []domain.CategoryStat, names []string) {
	percent := make(map[string]float64, len(stats))
	for _, s := range stats {
		percent[s.Category] = s.Percent
	}
	for _, name := range names {
		c.printf("  • %s (%.2f%%)\n", name, percent[name])
	}
}

func (c *Console) printProgress(p domain.ProgressCheck) {
	c.println("\n" + c.style.Section.Render("--- Progress Check ---"))
	if p.Passed {
		c.println(c.style.Good.Render(fmt.Sprintf("Good job! Your score (%.2f%%) is above the threshold (%.0f%%).", p.ScorePercent, p.Threshold)))
		return
	}
	c.println(c.style.Bad.Render(fmt.Sprintf("Your score (%.2f%%) is below the threshold (%.0f%%). Keep practicing!", p.ScorePercent, p.Threshold)))
}

func (c *Console) printSessionReport(ctx context.Context) {
	if c.sessionID == "" {
		c.println("\nNo quizzes were taken this session.")
		return
	}
	summary, err := c.quiz.SessionReport(ctx, c.sessionID)
	if err != nil {
		if domain.HasCode(err, domain.ErrNotFound) {
			c.println("\nNo quizzes were taken this session.")
			return
		}
		c.println(c.style.Bad.Render("ERROR: " + err.Error()))
		return
	}

	c.println("\n" + c.style.Header.Render("=== SESSION AGGREGATED CATEGORY PERFORMANCE ==="))
	c.printStats(summary.Categories)
	switch {
	case summary.EqualPerformance:
		c.printf("\nAll categories have equal performance ~%.2f%%. You're consistently at this level across topics.\n", summary.EqualPercent)
	case len(summary.Categories) > 0:
		c.println("\nSession best category/categories:")
		c.printRanked(summary.Categories, summary.BestCategories)
		c.println("\nSession weakest category/categories:")
		c.printRanked(summary.Categories, summary.WeakCategories)
	}
}

func (c *Console) saveHistory() {
	if c.historyFile == "" || len(c.history) == 0 {
		return
	}
	data, err := json.MarshalIndent(c.history, "", "  ")
	if err == nil {
		err = os.WriteFile(c.historyFile, data, 0o644)
	}
	if err != nil {
		logger.Get().Warn("Failed to write session history", zap.String("file", c.historyFile), zap.Error(err))
		c.printf("\n(Warning) Could not write %s: %v\n", c.historyFile, err)
		return
	}
	c.printf("\nSaved session run-by-run history to %s\n", c.historyFile)
}

func (c *Console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
