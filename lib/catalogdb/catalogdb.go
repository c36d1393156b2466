package catalogdb

import (
	"context"
	"database/sql"
	_ "embed"

	"kdb-scraper/lib/catalog"
	"kdb-scraper/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

var tracer = telemetry.Tracer("kdb.lib.catalogdb")

// Open opens (or creates) the sqlite database at path with the course
// table in place, path can be ":memory:".
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// every connection to ":memory:" is its own database
	db.SetMaxOpenConns(1)
	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const insertCourse = `insert into course (
	idx, code, name, instructional_type, credits, standard_year, module,
	period, classroom, instructors, overview, remarks, updated_at, graduate
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Replace swaps the stored catalog for records in one transaction, idx
// keeps the export's row order.
func Replace(ctx context.Context, db *sql.DB, records []catalog.Record) error {
	ctx, span := tracer.Start(ctx, "Replace")
	defer span.End()
	span.SetAttributes(attribute.Int("records", len(records)))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "delete from course")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to clear courses")
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertCourse)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to prepare insert")
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		_, err = stmt.ExecContext(
			ctx,
			i, r.Code, r.Name, r.InstructionalType, r.Credits, r.StandardYear, r.Module,
			r.Period, r.Classroom, r.Instructors, r.Overview, r.Remarks, r.UpdatedAt,
			r.IsGraduate(),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to insert course")
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to commit")
		return err
	}
	return nil
}

// Records returns the stored catalog in export order.
func Records(ctx context.Context, db *sql.DB) ([]catalog.Record, error) {
	rows, err := db.QueryContext(ctx, `select
		code, name, instructional_type, credits, standard_year, module,
		period, classroom, instructors, overview, remarks, updated_at
	from course order by idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []catalog.Record{}
	for rows.Next() {
		var r catalog.Record
		err = rows.Scan(
			&r.Code, &r.Name, &r.InstructionalType, &r.Credits, &r.StandardYear, &r.Module,
			&r.Period, &r.Classroom, &r.Instructors, &r.Overview, &r.Remarks, &r.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountGraduate returns the number of stored undergraduate and graduate
// courses.
func CountGraduate(ctx context.Context, db *sql.DB) (undergrad int, grad int, err error) {
	row := db.QueryRowContext(
		ctx,
		"select count(*) filter (where graduate = 0), count(*) filter (where graduate = 1) from course",
	)
	err = row.Scan(&undergrad, &grad)
	return undergrad, grad, err
}
