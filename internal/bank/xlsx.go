package bank

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quizcraft/quiz-session-service/internal/models"
)

// Workbook layout: one sheet per topic, sheet name is the topic name.
// Row 1 is a header; every following row is one question with the fixed
// columns id, type, question, multi_select, explanation, image, and then
// one cell per option. Option cells encode by question type:
//
//	multiple_choice    "*text" marks a correct option, "text" otherwise
//	fill_in_the_blank  the expected text for that blank
//	ranking            "rank|text"
//	matching           "symbol|description"
const xlsxFixedColumns = 6

// ParseExcel reads every sheet of an XLSX workbook into topics.
func ParseExcel(r io.Reader) ([]models.Topic, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var topics []models.Topic
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			return nil, fmt.Errorf("sheet %q must have a header row and at least one question", sheet)
		}

		topic := models.Topic{Name: sheet}
		for rowIdx, row := range rows[1:] {
			q, err := parseQuestionRow(row)
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", sheet, rowIdx+2, err)
			}
			topic.Questions = append(topic.Questions, q)
		}
		topics = append(topics, topic)
	}

	return topics, nil
}

func parseQuestionRow(row []string) (models.Question, error) {
	if len(row) <= xlsxFixedColumns {
		return models.Question{}, fmt.Errorf("row has no option cells")
	}

	q := models.Question{
		ID:          strings.TrimSpace(cell(row, 0)),
		Type:        models.QuestionType(strings.TrimSpace(cell(row, 1))),
		Prompt:      cell(row, 2),
		Explanation: strings.TrimSpace(cell(row, 4)),
		ImageRef:    strings.TrimSpace(cell(row, 5)),
	}

	if ms := strings.TrimSpace(cell(row, 3)); ms != "" {
		multi, err := strconv.ParseBool(ms)
		if err != nil {
			return models.Question{}, fmt.Errorf("invalid multi_select value %q", ms)
		}
		q.MultiSelect = multi
	}

	for _, raw := range row[xlsxFixedColumns:] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		opt, err := parseOptionCell(q.Type, raw)
		if err != nil {
			return models.Question{}, err
		}
		q.Options = append(q.Options, opt)
	}

	return q, nil
}

func parseOptionCell(typ models.QuestionType, raw string) (models.Option, error) {
	switch typ {
	case models.Choice:
		if text, ok := strings.CutPrefix(raw, "*"); ok {
			return models.Option{Text: strings.TrimSpace(text), IsCorrect: true}, nil
		}
		return models.Option{Text: raw}, nil

	case models.FillInTheBlank:
		return models.Option{Text: raw}, nil

	case models.Ranking:
		rankStr, text, ok := strings.Cut(raw, "|")
		if !ok {
			return models.Option{}, fmt.Errorf("ranking cell %q must be rank|text", raw)
		}
		rank, err := strconv.Atoi(strings.TrimSpace(rankStr))
		if err != nil {
			return models.Option{}, fmt.Errorf("ranking cell %q has a non-numeric rank", raw)
		}
		return models.Option{Text: strings.TrimSpace(text), Rank: rank}, nil

	case models.Matching:
		symbol, desc, ok := strings.Cut(raw, "|")
		if !ok {
			return models.Option{}, fmt.Errorf("matching cell %q must be symbol|description", raw)
		}
		return models.Option{Symbol: strings.TrimSpace(symbol), Description: strings.TrimSpace(desc)}, nil

	default:
		return models.Option{}, fmt.Errorf("unsupported question type %q", typ)
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
