package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"feedback-api/internal/database"
	"feedback-api/internal/logger"
	"feedback-api/internal/models"
)

var (
	ErrNotFound    = errors.New("feedback not found")
	ErrInvalidSort = errors.New("invalid sort field")
)

const (
	DefaultPage   = 1
	DefaultLimit  = 10
	DefaultSortBy = "createdAt"
)

const selectColumns = `id, project_type, rating, innovation, comments, created_at, updated_at`

// sortColumns is the allow-list for caller-supplied sort fields. Both the
// JSON names and the column names are accepted.
var sortColumns = map[string]string{
	"id":          "id",
	"projectType": "project_type",
	"rating":      "rating",
	"innovation":  "innovation",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",

	"project_type": "project_type",
	"created_at":   "created_at",
	"updated_at":   "updated_at",
}

type ListParams struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
}

func (p ListParams) withDefaults() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	return p
}

// offset returns the first row of the page. ok is false when the offset does
// not fit in an int; such a page lies past the end of any table.
func (p ListParams) offset() (offset int, ok bool) {
	if p.Page-1 > math.MaxInt/p.Limit {
		return 0, false
	}
	return (p.Page - 1) * p.Limit, true
}

type FeedbackRepo struct {
	db  database.Querier
	now func() time.Time
}

func NewFeedbackRepo(db database.Querier) *FeedbackRepo {
	return &FeedbackRepo{
		db:  db,
		now: time.Now,
	}
}

// Ping reports whether the underlying database answers.
func (r *FeedbackRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *FeedbackRepo) List(ctx context.Context, params ListParams) (*models.Page, error) {
	params = params.withDefaults()

	column, ok := sortColumns[params.SortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, params.SortBy)
	}
	dir := "DESC"
	if strings.EqualFold(params.Order, "asc") {
		dir = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM feedback ORDER BY %s %s, id %s LIMIT ? OFFSET ?`,
		selectColumns, column, dir, dir)
	var rows []database.Row
	if offset, ok := params.offset(); ok {
		var err error
		rows, err = r.db.All(ctx, query, params.Limit, offset)
		if err != nil {
			logger.Get().Error().Err(err).Msg("failed to list feedback")
			return nil, err
		}
	}

	total, err := r.count(ctx, `SELECT COUNT(*) AS total FROM feedback`)
	if err != nil {
		return nil, err
	}
	return newPage(rows, total, params), nil
}

// ListByProject pages through one project's feedback, newest first.
func (r *FeedbackRepo) ListByProject(ctx context.Context, projectType string, params ListParams) (*models.Page, error) {
	params = params.withDefaults()

	var rows []database.Row
	if offset, ok := params.offset(); ok {
		var err error
		rows, err = r.db.All(ctx,
			`SELECT `+selectColumns+` FROM feedback WHERE project_type = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
			projectType, params.Limit, offset)
		if err != nil {
			logger.Get().Error().Err(err).Str("project_type", projectType).Msg("failed to list project feedback")
			return nil, err
		}
	}

	total, err := r.count(ctx, `SELECT COUNT(*) AS total FROM feedback WHERE project_type = ?`, projectType)
	if err != nil {
		return nil, err
	}
	return newPage(rows, total, params), nil
}

// FindByID returns ErrNotFound when no row has the id.
func (r *FeedbackRepo) FindByID(ctx context.Context, id int64) (*models.Feedback, error) {
	row, err := r.db.Get(ctx, `SELECT `+selectColumns+` FROM feedback WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	feedback := feedbackFromRow(row)
	return &feedback, nil
}

func (r *FeedbackRepo) Create(ctx context.Context, req models.CreateFeedbackRequest) (*models.Feedback, error) {
	now := r.now().UTC()
	res, err := r.db.Exec(ctx,
		`INSERT INTO feedback (project_type, rating, innovation, comments, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		req.ProjectType, req.Rating, optionalString(req.Innovation), optionalString(req.Comments), now, now)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to save feedback")
		return nil, err
	}

	logger.Get().Info().Int64("id", res.LastInsertID).Str("project_type", req.ProjectType).Msg("feedback saved")
	return r.FindByID(ctx, res.LastInsertID)
}

// Update applies the non-nil fields of req in one statement and always bumps
// updated_at. An empty innovation or comments string clears the column, the
// same way Create stores it as NULL. It returns ErrNotFound when the id does
// not exist.
func (r *FeedbackRepo) Update(ctx context.Context, id int64, req models.UpdateFeedbackRequest) (*models.Feedback, error) {
	res, err := r.db.Exec(ctx,
		`UPDATE feedback SET
			project_type = COALESCE(?, project_type),
			rating = COALESCE(?, rating),
			innovation = CASE WHEN CAST(? AS TEXT) IS NULL THEN innovation ELSE NULLIF(CAST(? AS TEXT), '') END,
			comments = CASE WHEN CAST(? AS TEXT) IS NULL THEN comments ELSE NULLIF(CAST(? AS TEXT), '') END,
			updated_at = ?
		WHERE id = ?`,
		nullable(req.ProjectType), nullable(req.Rating),
		nullable(req.Innovation), nullable(req.Innovation),
		nullable(req.Comments), nullable(req.Comments),
		r.now().UTC(), id)
	if err != nil {
		logger.Get().Error().Err(err).Int64("id", id).Msg("failed to update feedback")
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	// A concurrent delete between the update and this read surfaces as ErrNotFound.
	return r.FindByID(ctx, id)
}

func (r *FeedbackRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM feedback WHERE id = ?`, id)
	if err != nil {
		logger.Get().Error().Err(err).Int64("id", id).Msg("failed to delete feedback")
		return err
	}
	if res.RowsAffected == 0 {
		logger.Get().Warn().Int64("id", id).Msg("feedback not found")
		return ErrNotFound
	}
	logger.Get().Info().Int64("id", id).Msg("feedback deleted")
	return nil
}

func (r *FeedbackRepo) Stats(ctx context.Context) (*models.Stats, error) {
	projectRows, err := r.db.All(ctx, `
		SELECT
			project_type,
			COUNT(*) AS total_feedback,
			CAST(AVG(rating) AS DOUBLE PRECISION) AS average_rating,
			MAX(rating) AS highest_rating,
			MIN(rating) AS lowest_rating
		FROM feedback
		GROUP BY project_type`)
	if err != nil {
		return nil, err
	}

	overall, err := r.db.Get(ctx,
		`SELECT COUNT(*) AS total_feedback, CAST(AVG(rating) AS DOUBLE PRECISION) AS average_rating FROM feedback`)
	if err != nil {
		return nil, err
	}

	innovationRows, err := r.db.All(ctx, `
		SELECT innovation, COUNT(*) AS total
		FROM feedback
		WHERE innovation IS NOT NULL
		GROUP BY innovation
		ORDER BY innovation`)
	if err != nil {
		return nil, err
	}

	byProject := make(map[string]database.Row, len(projectRows))
	for _, row := range projectRows {
		byProject[row.String("project_type")] = row
	}

	stats := &models.Stats{
		TotalFeedback:          overall.Int64("total_feedback"),
		OverallAverageRating:   round2(overall.Float64("average_rating")),
		ProjectStats:           make([]models.ProjectStats, 0, len(models.ProjectTypes)),
		InnovationDistribution: make([]models.InnovationCount, 0, len(innovationRows)),
	}
	for _, projectType := range models.ProjectTypes {
		row := byProject[projectType]
		stats.ProjectStats = append(stats.ProjectStats, models.ProjectStats{
			ProjectType:   projectType,
			TotalFeedback: row.Int64("total_feedback"),
			AverageRating: round2(row.Float64("average_rating")),
			HighestRating: row.Int64("highest_rating"),
			LowestRating:  row.Int64("lowest_rating"),
		})
	}
	for _, row := range innovationRows {
		stats.InnovationDistribution = append(stats.InnovationDistribution, models.InnovationCount{
			Innovation: row.String("innovation"),
			Count:      row.Int64("total"),
		})
	}
	return stats, nil
}

func (r *FeedbackRepo) count(ctx context.Context, query string, args ...any) (int64, error) {
	row, err := r.db.Get(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return row.Int64("total"), nil
}

func newPage(rows []database.Row, total int64, params ListParams) *models.Page {
	items := make([]models.Feedback, 0, len(rows))
	for _, row := range rows {
		items = append(items, feedbackFromRow(row))
	}

	limit := int64(params.Limit)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return &models.Page{
		Items: items,
		Pagination: models.Pagination{
			CurrentPage:  params.Page,
			TotalPages:   int(totalPages),
			TotalItems:   total,
			ItemsPerPage: params.Limit,
		},
	}
}

func feedbackFromRow(row database.Row) models.Feedback {
	return models.Feedback{
		ID:          row.Int64("id"),
		ProjectType: row.String("project_type"),
		Rating:      int(row.Int64("rating")),
		Innovation:  row.NullString("innovation"),
		Comments:    row.NullString("comments"),
		CreatedAt:   row.Time("created_at"),
		UpdatedAt:   row.Time("updated_at"),
	}
}

// optionalString stores empty strings as NULL.
func optionalString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// nullable unwraps p so that an absent field binds as SQL NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
