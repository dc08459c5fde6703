package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/talent-matcher/internal/matching"
	"github.com/spigell/talent-matcher/internal/ranking"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Ranked Candidates"
)

var candidateHeaders = []string{
	"Rank", "ID", "Name", "Title", "Location", "Seniority", "Years", "Score", "Profile Strength",
}

// ExportToExcel writes the ranking report. The .xlsx extension is appended
// to outputPath when missing.
func ExportToExcel(result *matching.Result, jobDescription, outputPath string) error {
	if result == nil {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return fmt.Errorf("create candidates sheet: %w", err)
	}

	if err := writeSummary(f, result, jobDescription); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := writeCandidates(f, result.Candidates); err != nil {
		return fmt.Errorf("failed to create ranked candidates sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save %s: %w", outputPath, err)
	}

	return nil
}

func writeSummary(f *excelize.File, result *matching.Result, jobDescription string) error {
	if err := f.SetColWidth(SummarySheet, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 80); err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	method := string(result.Method)
	if method == "" {
		method = "-"
	}

	rows := [][2]any{
		{"Talent Matching Report", ""},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Job Description:", jobDescription},
		{"Candidates:", len(result.Candidates)},
		{"Ranking Method:", method},
		{"Precision:", result.Metrics.Precision},
		{"NDCG:", result.Metrics.NDCG},
		{"Analysis:", result.Analysis},
	}

	for i, row := range rows {
		label, _ := excelize.CoordinatesToCellName(1, i+1)
		value, _ := excelize.CoordinatesToCellName(2, i+1)

		if err := f.SetCellValue(SummarySheet, label, row[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, label, label, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, value, row[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, value, value, wrapStyle); err != nil {
			return err
		}
	}

	return nil
}

func writeCandidates(f *excelize.File, ranked []ranking.Scored) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(CandidatesSheet, "A1", &candidateHeaders); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(candidateHeaders), 1)
	if err := f.SetCellStyle(CandidatesSheet, "A1", last, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(CandidatesSheet, "C", "E", 28); err != nil {
		return err
	}

	for i, s := range ranked {
		if s.Candidate == nil {
			continue
		}

		row := []any{
			i + 1,
			s.ID,
			s.FullName,
			deref(s.CurrentTitle),
			deref(s.Location),
			deref(s.SeniorityLevel),
			optional(s.YearsOfExperience),
			s.Score,
			optional(s.ProfileStrength),
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(CandidatesSheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optional leaves the cell empty for absent values.
func optional[T int | float64](v *T) any {
	if v == nil {
		return ""
	}
	return *v
}
