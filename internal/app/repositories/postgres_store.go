package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/schoolms/internal/db"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
	"github.com/yigit/schoolms/internal/pkg/logger"
)

// DriverPostgres names the Postgres store.
const DriverPostgres = "postgres"

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// querier is shared by every Postgres repository of one Store.
type querier struct {
	db DBTX
	sb squirrel.StatementBuilderType
	// inTx enables row locks on reads.
	inTx bool
}

func (q querier) forUpdate(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if q.inTx {
		return b.Suffix("FOR UPDATE")
	}
	return b
}

func (q querier) forShare(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if q.inTx {
		return b.Suffix("FOR SHARE")
	}
	return b
}

// PostgresStore is the Store backed by PostgreSQL.
type PostgresStore struct {
	pg *db.PostgresDB
	q  querier

	courses   *CourseRepo
	lecturers *LecturerRepo
	subjects  *SubjectRepo
	students  *StudentRepo
	users     *UserRepo
}

// NewPostgresStore creates a Store on the connection pool of pg.
func NewPostgresStore(pg *db.PostgresDB) *PostgresStore {
	return newPostgresStore(pg, pg.Pool, false)
}

func newPostgresStore(pg *db.PostgresDB, conn DBTX, inTx bool) *PostgresStore {
	q := querier{
		db:   conn,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		inTx: inTx,
	}
	return &PostgresStore{
		pg:        pg,
		q:         q,
		courses:   &CourseRepo{q},
		lecturers: &LecturerRepo{q},
		subjects:  &SubjectRepo{q},
		students:  &StudentRepo{q},
		users:     &UserRepo{q},
	}
}

func (s *PostgresStore) Courses() CourseRepository     { return s.courses }
func (s *PostgresStore) Lecturers() LecturerRepository { return s.lecturers }
func (s *PostgresStore) Subjects() SubjectRepository   { return s.subjects }
func (s *PostgresStore) Students() StudentRepository   { return s.students }
func (s *PostgresStore) Users() UserRepository         { return s.users }
func (s *PostgresStore) Driver() string                { return DriverPostgres }

// WithinTransaction runs fn on a Store bound to one pgx transaction.
func (s *PostgresStore) WithinTransaction(ctx context.Context, fn TxFn) error {
	if s.q.inTx {
		return fn(ctx, s)
	}
	return s.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newPostgresStore(s.pg, tx, true))
	})
}

// Ping checks the connection pool.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pg.Pool.Ping(ctx)
}

// dbError maps constraint violations to application errors and wraps the rest.
func dbError(err error, op string) error {
	if translated := dberrors.Translate(err); translated != err {
		return translated
	}
	logger.Error().Err(err).Str("op", op).Msg("Database error")
	return fmt.Errorf("error %s: %w", op, err)
}

// buildError wraps a squirrel build failure.
func buildError(err error, op string) error {
	logger.Error().Err(err).Str("op", op).Msg("Error building SQL")
	return fmt.Errorf("failed to build %s query: %w", op, err)
}

// count runs a COUNT(*) query.
func (q querier) count(ctx context.Context, table string, where squirrel.Sqlizer, op string) (int, error) {
	sql, args, err := q.sb.Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, buildError(err, op)
	}
	var n int
	if err := q.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, dbError(err, op)
	}
	return n, nil
}

// links loads the enrollment table keyed by keyCol, each value list ordered by valCol.
func (q querier) links(ctx context.Context, keyCol, valCol string, keys []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	sql, args, err := q.sb.Select(keyCol, valCol).
		From("subject_students").
		Where(squirrel.Eq{keyCol: keys}).
		OrderBy(keyCol, valCol).
		ToSql()
	if err != nil {
		return nil, buildError(err, "load enrollments")
	}

	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError(err, "load enrollments")
	}
	defer rows.Close()

	for rows.Next() {
		var key, val int64
		if err := rows.Scan(&key, &val); err != nil {
			return nil, dbError(err, "scan enrollment")
		}
		out[key] = append(out[key], val)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "iterate enrollments")
	}
	return out, nil
}

// setLinks replaces every enrollment row of owner with (owner, other) pairs.
func (q querier) setLinks(ctx context.Context, ownerCol, otherCol string, owner int64, others []int64) error {
	sql, args, err := q.sb.Delete("subject_students").Where(squirrel.Eq{ownerCol: owner}).ToSql()
	if err != nil {
		return buildError(err, "clear enrollments")
	}
	if _, err := q.db.Exec(ctx, sql, args...); err != nil {
		return dbError(err, "clear enrollments")
	}
	if len(others) == 0 {
		return nil
	}

	ins := q.sb.Insert("subject_students").Columns(ownerCol, otherCol)
	for _, other := range others {
		ins = ins.Values(owner, other)
	}
	sql, args, err = ins.ToSql()
	if err != nil {
		return buildError(err, "set enrollments")
	}
	if _, err := q.db.Exec(ctx, sql, args...); err != nil {
		return dbError(err, "set enrollments")
	}
	return nil
}
