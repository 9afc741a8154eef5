// Package store persists benchmark runs in SQLite. A run is written once,
// fully populated, and only read afterwards.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/babelmark/babelmark/internal/benchmark"
)

const previewLength = 100

// metricOverall is the synthetic evaluation row carrying the fused score,
// explanation, and warnings for one translation.
const metricOverall = "overall_score"

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT,
		target_lang TEXT NOT NULL,
		reference_translation TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS translations (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT,
		output_text TEXT,
		latency_ms INTEGER,
		usage_tokens INTEGER,
		error TEXT,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		translation_id TEXT NOT NULL,
		metric_name TEXT NOT NULL,
		metric_value REAL NOT NULL,
		weight REAL NOT NULL,
		details TEXT,
		FOREIGN KEY (translation_id) REFERENCES translations(id)
	);

	CREATE INDEX IF NOT EXISTS idx_translations_run ON translations(run_id, position);
	CREATE INDEX IF NOT EXISTS idx_evaluations_translation ON evaluations(translation_id);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun writes the run and its child records in one transaction and
// returns the assigned identity.
func (s *Store) CreateRun(ctx context.Context, run *benchmark.Run) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source_text, source_lang, target_lang, reference_translation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, normalizeText(run.SourceText), run.SourceLang, run.TargetLang, run.Reference, createdAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for i, result := range run.Results {
		translationID := uuid.NewString()
		o := result.Outcome

		_, err = tx.ExecContext(ctx,
			`INSERT INTO translations (id, run_id, position, provider, model, output_text, latency_ms, usage_tokens, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			translationID, runID, i, o.Provider, o.Model, o.OutputText, o.LatencyMS, o.UsageTokens, o.Error)
		if err != nil {
			return "", fmt.Errorf("failed to insert translation: %w", err)
		}

		if result.Evaluation == nil {
			continue
		}
		if err := s.insertEvaluation(ctx, tx, translationID, result.Evaluation); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

func (s *Store) insertEvaluation(ctx context.Context, tx *sql.Tx, translationID string, breakdown *benchmark.ScoreBreakdown) error {
	for _, m := range breakdown.Metrics {
		details, err := marshalDetails(m.Details)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO evaluations (id, translation_id, metric_name, metric_value, weight, details)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), translationID, m.Name, m.Score, m.Weight, details)
		if err != nil {
			return fmt.Errorf("failed to insert evaluation: %w", err)
		}
	}

	overallDetails, err := marshalDetails(map[string]any{
		"explanation": breakdown.Explanation,
		"warnings":    breakdown.Warnings,
		"failed":      breakdown.Failed,
	})
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO evaluations (id, translation_id, metric_name, metric_value, weight, details)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), translationID, metricOverall, breakdown.Overall, 0, overallDetails)
	if err != nil {
		return fmt.Errorf("failed to insert overall score: %w", err)
	}
	return nil
}

// GetRun reconstructs a persisted run, including the derived summary.
func (s *Store) GetRun(ctx context.Context, runID string) (*benchmark.Run, error) {
	run := &benchmark.Run{ID: runID}

	err := s.db.QueryRowContext(ctx,
		`SELECT source_text, source_lang, target_lang, reference_translation, created_at FROM runs WHERE id = ?`,
		runID).Scan(&run.SourceText, &run.SourceLang, &run.TargetLang, &run.Reference, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, benchmark.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider, model, output_text, latency_ms, usage_tokens, error
		 FROM translations WHERE run_id = ? ORDER BY position`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read translations: %w", err)
	}
	defer rows.Close()

	var translationIDs []string
	for rows.Next() {
		var id string
		var o benchmark.ProviderOutcome
		if err := rows.Scan(&id, &o.Provider, &o.Model, &o.OutputText, &o.LatencyMS, &o.UsageTokens, &o.Error); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		translationIDs = append(translationIDs, id)
		run.Results = append(run.Results, benchmark.ProviderReport{Outcome: o})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range translationIDs {
		breakdown, err := s.readBreakdown(ctx, id)
		if err != nil {
			return nil, err
		}
		run.Results[i].Evaluation = breakdown
	}

	run.Summary = benchmark.Summarize(run.Results)
	return run, nil
}

// readBreakdown rebuilds a ScoreBreakdown from evaluation rows; nil when the
// translation has none (a failed outcome).
func (s *Store) readBreakdown(ctx context.Context, translationID string) (*benchmark.ScoreBreakdown, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT metric_name, metric_value, weight, details FROM evaluations WHERE translation_id = ? ORDER BY rowid`,
		translationID)
	if err != nil {
		return nil, fmt.Errorf("failed to read evaluations: %w", err)
	}
	defer rows.Close()

	var breakdown benchmark.ScoreBreakdown
	found := false

	for rows.Next() {
		var name string
		var value, weight float64
		var detailsJSON sql.NullString
		if err := rows.Scan(&name, &value, &weight, &detailsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		found = true

		details := unmarshalDetails(detailsJSON)

		if name == metricOverall {
			breakdown.Overall = value
			if details != nil {
				if v, ok := details["explanation"].(string); ok {
					breakdown.Explanation = v
				}
				if v, ok := details["failed"].(bool); ok {
					breakdown.Failed = v
				}
				if ws, ok := details["warnings"].([]any); ok {
					for _, w := range ws {
						if str, ok := w.(string); ok {
							breakdown.Warnings = append(breakdown.Warnings, str)
						}
					}
				}
			}
			continue
		}

		breakdown.Metrics = append(breakdown.Metrics, benchmark.MetricResult{
			Name:    name,
			Score:   value,
			Weight:  weight,
			Details: details,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &breakdown, nil
}

// ListRuns returns recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit, offset int) ([]benchmark.RunListItem, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.source_lang, r.target_lang, r.source_text,
			COUNT(DISTINCT t.id),
			AVG(e.metric_value)
		FROM runs r
		LEFT JOIN translations t ON t.run_id = r.id
		LEFT JOIN evaluations e ON e.translation_id = t.id AND e.metric_name = ?
		GROUP BY r.id
		ORDER BY r.created_at DESC
		LIMIT ? OFFSET ?`,
		metricOverall, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var items []benchmark.RunListItem
	for rows.Next() {
		var item benchmark.RunListItem
		var sourceText string
		var avgScore sql.NullFloat64
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.SourceLang, &item.TargetLang,
			&sourceText, &item.ProviderCount, &avgScore); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		item.TextPreview = preview(sourceText)
		if avgScore.Valid {
			v := avgScore.Float64
			item.AvgScore = &v
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	return string([]rune(text)[:previewLength]) + "..."
}

func marshalDetails(details map[string]any) (sql.NullString, error) {
	if len(details) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(details)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal details: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalDetails(raw sql.NullString) map[string]any {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var details map[string]any
	if err := json.Unmarshal([]byte(raw.String), &details); err != nil {
		return nil
	}
	return details
}

// normalizeText applies Unicode NFC normalization so stored text compares
// consistently across clients.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
