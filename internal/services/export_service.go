package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
	timeLayout   = "2006-01-02 15:04:05"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	ops    *ServiceLogger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
		ops:    NewServiceLogger(logger, "export"),
	}
}

type userSummary struct {
	userID    string
	answers   int
	latest    map[string]*models.UserAnswer
	lastTouch string
}

func (s *exportService) ExportLessonResults(ctx context.Context, lessonID string) (data []byte, err error) {
	op := s.ops.WithOperation(ctx, "export_lesson_results", "")
	defer func() { op.LogResult(lessonID, "lesson", err) }()

	lesson, err := s.repo.Lessons().GetByID(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}

	answers, err := s.repo.UserAnswers().GetByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson answers: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("Failed to close workbook", "error", cerr)
		}
	}()

	// the default sheet becomes the results sheet
	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := writeResultsSheet(f, answers); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := writeSummarySheet(f, lesson, answers); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeResultsSheet(f *excelize.File, answers []*models.UserAnswer) error {
	headers := []interface{}{
		"User ID", "Question ID", "Attempt", "Score", "Max Points", "Correct", "Answer", "Submitted At",
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, a := range answers {
		questionID := ""
		if a.QuestionID != nil {
			questionID = *a.QuestionID
		}
		maxPoints := 0.0
		if a.MaxPoints != nil {
			maxPoints = *a.MaxPoints
		}
		correct := ""
		if result, err := a.DecodeResult(); err == nil && result != nil {
			correct = "No"
			if result.Correct {
				correct = "Yes"
			}
		}

		row := []interface{}{
			a.UserID,
			questionID,
			a.Attempt,
			a.Score,
			maxPoints,
			correct,
			string(a.Answer),
			a.CreatedAt.Format(timeLayout),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}

// writeSummarySheet totals the latest attempt per question for every user
func writeSummarySheet(f *excelize.File, lesson *models.Lesson, answers []*models.UserAnswer) error {
	if err := f.SetCellValue(summarySheet, "A1", "Lesson"); err != nil {
		return err
	}
	if err := f.SetCellValue(summarySheet, "B1", lesson.Title); err != nil {
		return err
	}

	headers := []interface{}{"User ID", "Answers Submitted", "Questions Answered", "Score", "Max Points", "Percentage", "Last Submission"}
	if err := f.SetSheetRow(summarySheet, "A3", &headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	byUser := make(map[string]*userSummary)
	for _, a := range answers {
		summary, ok := byUser[a.UserID]
		if !ok {
			summary = &userSummary{userID: a.UserID, latest: make(map[string]*models.UserAnswer)}
			byUser[a.UserID] = summary
		}
		summary.answers++
		if submitted := a.CreatedAt.Format(timeLayout); submitted > summary.lastTouch {
			summary.lastTouch = submitted
		}
		if a.QuestionID == nil {
			continue
		}
		if current, ok := summary.latest[*a.QuestionID]; !ok || a.Attempt > current.Attempt {
			summary.latest[*a.QuestionID] = a
		}
	}

	users := make([]string, 0, len(byUser))
	for id := range byUser {
		users = append(users, id)
	}
	sort.Strings(users)

	for i, id := range users {
		summary := byUser[id]
		score, maxPoints := 0.0, 0.0
		for _, a := range summary.latest {
			score += a.Score
			if a.MaxPoints != nil {
				maxPoints += *a.MaxPoints
			}
		}
		percentage := 0.0
		if maxPoints > 0 {
			percentage = score / maxPoints * 100
		}

		row := []interface{}{id, summary.answers, len(summary.latest), score, maxPoints, percentage, summary.lastTouch}
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	return nil
}
