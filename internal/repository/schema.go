package repository

import (
	"context"
	"fmt"
	"strings"

	"feedback-api/internal/database"
	"feedback-api/internal/models"
)

func schema(dialect database.Dialect) []string {
	projects := sqlList(models.ProjectTypes)
	levels := sqlList(models.InnovationLevels)

	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	timeType := "DATETIME"
	if dialect == database.DialectPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
		timeType = "TIMESTAMPTZ"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS feedback (
			` + idColumn + `,
			project_type TEXT NOT NULL CHECK (project_type IN (` + projects + `)),
			rating INTEGER NOT NULL CHECK (rating >= 1 AND rating <= 5),
			innovation TEXT CHECK (innovation IN (` + levels + `) OR innovation IS NULL),
			comments TEXT,
			created_at ` + timeType + ` DEFAULT CURRENT_TIMESTAMP,
			updated_at ` + timeType + ` DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_project_type ON feedback(project_type)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at)`,
	}
}

// EnsureSchema creates the feedback table and its indexes if they are missing.
func (r *FeedbackRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema(r.db.Dialect()) {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func sqlList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
