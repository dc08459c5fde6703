package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/logger"
	"github.com/spigell/talent-matcher/internal/talent"
)

// columns are cast to types that decode into plain Go values.
var columns = []string{
	"id::text AS id",
	"full_name",
	"email",
	"location",
	"headline",
	"summary",
	"years_of_experience",
	"current_title",
	"current_company",
	"skills",
	"industries",
	"seniority_level",
	"education",
	"work_experience",
	"achievements",
	"remote_preference",
	"job_types",
	"desired_roles",
	"desired_industries",
	"salary_expectation_range",
	"profile_strength::float8 AS profile_strength",
	"linkedin_url",
	"github_url",
	"portfolio_url",
	"is_verified",
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore reads candidates from the talents table.
type PostgresStore struct {
	db     querier
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects a pool to the database and checks it is reachable.
func NewPostgresStore(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := newPostgresStore(pool, logger)
	s.pool = pool
	return s, nil
}

func newPostgresStore(db querier, log *zap.Logger) *PostgresStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: log.With(zap.String(logger.FieldStore, DriverPostgres))}
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) Find(ctx context.Context, q Query) ([]*talent.Candidate, error) {
	sql, args := buildQuery(q)
	s.logger.Debug("querying talents", zap.String("sql", sql), zap.Int("args", len(args)))

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query talents: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("read talents: %w", err)
	}

	candidates := make([]*talent.Candidate, 0, len(records))
	for _, record := range records {
		candidate, err := decodeCandidate(record)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// buildQuery renders the parameterised SELECT for q. Required skills are always
// part of the predicate, an empty list matches every row.
func buildQuery(q Query) (string, []any) {
	skills := q.RequiredSkills
	if skills == nil {
		skills = []string{}
	}

	args := []any{skills}
	where := []string{"skills @> $1::text[]"}

	add := func(format string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(format, len(args)))
	}

	if q.VerifiedOnly {
		where = append(where, "is_verified = true")
	}
	if q.Location != "" {
		add("location ILIKE $%d", "%"+escapeLike(q.Location)+"%")
	}
	if q.SeniorityLevel != "" {
		add("seniority_level = $%d", q.SeniorityLevel)
	}
	if q.MinYears != nil {
		add("years_of_experience >= $%d", *q.MinYears)
	}
	if q.MaxYears != nil {
		add("years_of_experience <= $%d", *q.MaxYears)
	}
	if q.MinSalary != nil {
		add("(salary_expectation_range->>'min')::numeric >= $%d", *q.MinSalary)
	}
	if q.MaxSalary != nil {
		add("(salary_expectation_range->>'max')::numeric <= $%d", *q.MaxSalary)
	}
	if q.Currency != "" {
		add("salary_expectation_range->>'currency' = $%d", q.Currency)
	}

	sql := "SELECT " + strings.Join(columns, ", ") +
		" FROM talents WHERE " + strings.Join(where, " AND ")

	return sql, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func decodeCandidate(record map[string]any) (*talent.Candidate, error) {
	var candidate talent.Candidate

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           &candidate,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(record); err != nil {
		return nil, fmt.Errorf("decode talent %v: %w", record["id"], err)
	}

	return &candidate, nil
}
