package bank

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/quizcraft/quiz-session-service/internal/cache"
	"github.com/quizcraft/quiz-session-service/internal/models"
	"github.com/quizcraft/quiz-session-service/internal/validator"
)

const sampleBankJSON = `[
  {
    "topic": "Debugging",
    "questions": [
      {
        "id": "dbg-1",
        "type": "multiple_choice",
        "question": "Which tool inspects a running process?",
        "options": [
          {"text": "A debugger", "isCorrect": true},
          {"text": "A linker"}
        ],
        "explanation": "Debuggers attach to live processes."
      },
      {
        "id": "dbg-2",
        "type": "ranking",
        "question": "Order the phases.",
        "options": [
          {"text": "Reproduce", "rank": 1},
          {"text": "Isolate", "rank": 2},
          {"text": "Fix", "rank": 3}
        ]
      }
    ]
  },
  {
    "topic": "Signals",
    "questions": [
      {
        "id": "sig-1",
        "type": "matching",
        "question": "Match the signal to its meaning.",
        "options": [
          {"symbol": "SIGINT", "description": "interrupt from keyboard"},
          {"symbol": "SIGTERM", "description": "termination request"}
        ]
      }
    ]
  }
]`

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	return NewLoader(validator.New(), cache.NewNoop(), slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func writeBankFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseJSON(t *testing.T) {
	topics, err := ParseJSON(strings.NewReader(sampleBankJSON))
	require.NoError(t, err)
	require.Len(t, topics, 2)

	assert.Equal(t, "Debugging", topics[0].Name)
	require.Len(t, topics[0].Questions, 2)
	assert.Equal(t, models.Choice, topics[0].Questions[0].Type)
	assert.True(t, topics[0].Questions[0].Options[0].IsCorrect)
	assert.Equal(t, models.Ranking, topics[0].Questions[1].Type)
	assert.Equal(t, 2, topics[0].Questions[1].Options[1].Rank)

	assert.Equal(t, "Signals", topics[1].Name)
	assert.Equal(t, "SIGTERM", topics[1].Questions[0].Options[1].Symbol)
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`{"topic": "not an array"}`))
	assert.ErrorContains(t, err, "failed to decode question bank JSON")
}

func TestLoad_JSON(t *testing.T) {
	path := writeBankFile(t, "bank.json", sampleBankJSON)

	b, err := newTestLoader(t).Load(context.Background(), path)
	require.NoError(t, err)

	summaries := b.Summaries()
	require.Len(t, summaries, 3)
	assert.Equal(t, TopicSummary{Name: "Debugging", QuestionCount: 2}, summaries[0])
	assert.Equal(t, TopicSummary{Name: "Signals", QuestionCount: 1}, summaries[1])
	assert.Equal(t, TopicSummary{Name: AllTopicsName, QuestionCount: 3}, summaries[2])

	topic, err := b.Topic("Signals")
	require.NoError(t, err)
	assert.Len(t, topic.Questions, 1)

	_, err = b.Topic("Nope")
	assert.Error(t, err)

	assert.Len(t, b.AllQuestions(), 3)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{
			name:    "empty bank",
			json:    `[]`,
			wantErr: "question bank is empty",
		},
		{
			name: "reserved topic name",
			json: `[{"topic": "All Topics", "questions": [
				{"id": "q1", "type": "fill_in_the_blank", "question": "p", "options": [{"text": "a"}]}
			]}]`,
			wantErr: "reserved",
		},
		{
			name: "duplicate topic name",
			json: `[
				{"topic": "T", "questions": [{"id": "q1", "type": "fill_in_the_blank", "question": "p", "options": [{"text": "a"}]}]},
				{"topic": "T", "questions": [{"id": "q2", "type": "fill_in_the_blank", "question": "p", "options": [{"text": "a"}]}]}
			]`,
			wantErr: "duplicate topic name",
		},
		{
			name: "duplicate question id across topics",
			json: `[
				{"topic": "A", "questions": [{"id": "q1", "type": "fill_in_the_blank", "question": "p", "options": [{"text": "a"}]}]},
				{"topic": "B", "questions": [{"id": "q1", "type": "fill_in_the_blank", "question": "p", "options": [{"text": "a"}]}]}
			]`,
			wantErr: "q1",
		},
		{
			name: "invalid question inside topic",
			json: `[{"topic": "T", "questions": [
				{"id": "q1", "type": "multiple_choice", "question": "p", "options": [{"text": "only one"}]}
			]}]`,
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeBankFile(t, "bank.json", tt.json)
			_, err := newTestLoader(t).Load(context.Background(), path)
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeBankFile(t, "bank.yaml", "topic: nope")
	_, err := newTestLoader(t).Load(context.Background(), path)
	assert.ErrorContains(t, err, "unsupported question bank format")
}

func TestParseExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Debugging"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	rows := [][]interface{}{
		{"id", "type", "question", "multi_select", "explanation", "image", "options"},
		{"dbg-1", "multiple_choice", "Which tool inspects a running process?", "false", "Debuggers attach to live processes.", "", "*A debugger", "A linker"},
		{"dbg-2", "multiple_choice", "Select every static technique.", "true", "", "", "*Code review", "*Walkthrough", "Stepping"},
		{"dbg-3", "ranking", "Order the phases.", "", "", "", "1|Reproduce", "2|Isolate", "3|Fix"},
		{"dbg-4", "matching", "Match the signal to its meaning.", "", "", "", "SIGINT|interrupt from keyboard", "SIGTERM|termination request"},
		{"dbg-5", "fill_in_the_blank", "A breakpoint ___ execution.", "", "", "", "pauses"},
	}
	for i, row := range rows {
		cell, err := excelize.JoinCellName("A", i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	topics, err := ParseExcel(buf)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Len(t, topics[0].Questions, 5)
	assert.Equal(t, "Debugging", topics[0].Name)

	q := topics[0].Questions[0]
	assert.Equal(t, models.Choice, q.Type)
	assert.False(t, q.MultiSelect)
	require.Len(t, q.Options, 2)
	assert.Equal(t, models.Option{Text: "A debugger", IsCorrect: true}, q.Options[0])
	assert.Equal(t, models.Option{Text: "A linker"}, q.Options[1])

	assert.True(t, topics[0].Questions[1].MultiSelect)

	rankQ := topics[0].Questions[2]
	assert.Equal(t, models.Ranking, rankQ.Type)
	assert.Equal(t, models.Option{Text: "Isolate", Rank: 2}, rankQ.Options[1])

	matchQ := topics[0].Questions[3]
	assert.Equal(t, models.Option{Symbol: "SIGTERM", Description: "termination request"}, matchQ.Options[1])

	fillQ := topics[0].Questions[4]
	assert.Equal(t, models.FillInTheBlank, fillQ.Type)
	assert.Equal(t, "pauses", fillQ.Options[0].Text)
}

func TestParseExcel_BadCells(t *testing.T) {
	tests := []struct {
		name    string
		row     []interface{}
		wantErr string
	}{
		{
			name:    "no option cells",
			row:     []interface{}{"q1", "fill_in_the_blank", "p", "", "", ""},
			wantErr: "no option cells",
		},
		{
			name:    "bad multi_select",
			row:     []interface{}{"q1", "multiple_choice", "p", "maybe", "", "", "*a", "b"},
			wantErr: "invalid multi_select",
		},
		{
			name:    "ranking cell without rank",
			row:     []interface{}{"q1", "ranking", "p", "", "", "", "Reproduce"},
			wantErr: "rank|text",
		},
		{
			name:    "ranking cell with non-numeric rank",
			row:     []interface{}{"q1", "ranking", "p", "", "", "", "first|Reproduce"},
			wantErr: "non-numeric rank",
		},
		{
			name:    "matching cell without separator",
			row:     []interface{}{"q1", "matching", "p", "", "", "", "SIGINT"},
			wantErr: "symbol|description",
		},
		{
			name:    "unknown question type",
			row:     []interface{}{"q1", "essay", "p", "", "", "", "a"},
			wantErr: "unsupported question type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := excelize.NewFile()
			header := []interface{}{"id", "type", "question", "multi_select", "explanation", "image", "options"}
			require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
			require.NoError(t, f.SetSheetRow("Sheet1", "A2", &tt.row))

			buf, err := f.WriteToBuffer()
			require.NoError(t, err)

			_, err = ParseExcel(buf)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
