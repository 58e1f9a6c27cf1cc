package repository

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"feedback-api/internal/database"
	"feedback-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statement struct {
	sql       string
	args      []any
	returnsID bool
}

// recordingQuerier captures the SQL the Postgres engine would receive.
type recordingQuerier struct {
	stmts []statement
}

func (q *recordingQuerier) record(query string, args []any) {
	sql, returnsID := database.PostgresSQL(query)
	q.stmts = append(q.stmts, statement{sql: sql, args: args, returnsID: returnsID})
}

func (q *recordingQuerier) Exec(_ context.Context, query string, args ...any) (database.Result, error) {
	q.record(query, args)
	return database.Result{LastInsertID: 1, RowsAffected: 1}, nil
}

func (q *recordingQuerier) Get(_ context.Context, query string, args ...any) (database.Row, error) {
	q.record(query, args)
	return database.Row{
		"id":           int64(1),
		"project_type": models.ProjectTouristUtility,
		"rating":       int64(4),
		"created_at":   time.Now(),
		"updated_at":   time.Now(),
		"total":        int64(1),
	}, nil
}

func (q *recordingQuerier) All(_ context.Context, query string, args ...any) ([]database.Row, error) {
	q.record(query, args)
	return []database.Row{}, nil
}

func (q *recordingQuerier) Dialect() database.Dialect { return database.DialectPostgres }
func (q *recordingQuerier) Ping(context.Context) error { return nil }
func (q *recordingQuerier) Close() error               { return nil }

func (q *recordingQuerier) find(t *testing.T, prefix string) statement {
	t.Helper()
	for _, s := range q.stmts {
		if strings.HasPrefix(strings.TrimSpace(s.sql), prefix) {
			return s
		}
	}
	require.Failf(t, "statement not issued", "no statement starting with %q", prefix)
	return statement{}
}

var placeholder = regexp.MustCompile(`\$(\d+)`)

func TestPostgresStatements(t *testing.T) {
	ctx := context.Background()
	q := &recordingQuerier{}
	repo := NewFeedbackRepo(q)

	require.NoError(t, repo.EnsureSchema(ctx))
	_, err := repo.Create(ctx, models.CreateFeedbackRequest{ProjectType: models.ProjectTouristUtility, Rating: 4})
	require.NoError(t, err)
	_, err = repo.Update(ctx, 1, models.UpdateFeedbackRequest{Rating: ptr(5)})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, 1))
	_, err = repo.List(ctx, ListParams{SortBy: "rating", Order: "asc"})
	require.NoError(t, err)
	_, err = repo.ListByProject(ctx, models.ProjectStrokeRecovery, ListParams{})
	require.NoError(t, err)
	_, err = repo.Stats(ctx)
	require.NoError(t, err)

	t.Run("placeholders match arguments", func(t *testing.T) {
		for _, s := range q.stmts {
			assert.NotContains(t, s.sql, "?", s.sql)

			seen := map[int]bool{}
			for _, m := range placeholder.FindAllStringSubmatch(s.sql, -1) {
				n, err := strconv.Atoi(m[1])
				require.NoError(t, err)
				seen[n] = true
			}
			assert.Len(t, seen, len(s.args), s.sql)
			for i := 1; i <= len(s.args); i++ {
				assert.True(t, seen[i], "missing $%d in %s", i, s.sql)
			}
		}
	})

	t.Run("schema uses postgres types", func(t *testing.T) {
		ddl := q.find(t, "CREATE TABLE").sql
		assert.Contains(t, ddl, "id BIGSERIAL PRIMARY KEY")
		assert.Contains(t, ddl, "TIMESTAMPTZ")
		assert.NotContains(t, ddl, "AUTOINCREMENT")
	})

	t.Run("insert reads back the id", func(t *testing.T) {
		insert := q.find(t, "INSERT INTO feedback")
		assert.True(t, insert.returnsID)
		assert.True(t, strings.HasSuffix(insert.sql, "RETURNING id"), insert.sql)
	})

	t.Run("update binds typed parameters", func(t *testing.T) {
		update := q.find(t, "UPDATE feedback")
		assert.False(t, update.returnsID)
		assert.Contains(t, update.sql, "project_type = COALESCE($1, project_type)")
		assert.Contains(t, update.sql, "rating = COALESCE($2, rating)")
		assert.Contains(t, update.sql, "CAST($3 AS TEXT) IS NULL")
		assert.Contains(t, update.sql, "NULLIF(CAST($4 AS TEXT), '')")
		assert.Contains(t, update.sql, "WHERE id = $8")
		assert.Equal(t, []any{nil, 5, nil, nil, nil, nil}, update.args[:6])
	})

	t.Run("list pages with limit and offset", func(t *testing.T) {
		list := q.find(t, "SELECT id, project_type, rating, innovation, comments, created_at, updated_at FROM feedback ORDER BY")
		assert.Contains(t, list.sql, "ORDER BY rating ASC, id ASC LIMIT $1 OFFSET $2")

		byProject := q.find(t, "SELECT id, project_type, rating, innovation, comments, created_at, updated_at FROM feedback WHERE")
		assert.Contains(t, byProject.sql, "WHERE project_type = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3")
	})

	t.Run("averages are cast to double precision", func(t *testing.T) {
		var averages int
		for _, s := range q.stmts {
			averages += strings.Count(s.sql, "CAST(AVG(rating) AS DOUBLE PRECISION)")
		}
		assert.Equal(t, 2, averages)
	})
}
