package db

import (
	"context"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgtype"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func status(isPresent bool) pgtype.Status {
	if isPresent {
		return pgtype.Present
	}
	return pgtype.Null
}

func EncodeInt4(v uint32, isPresent bool) pgtype.Int4 {
	return pgtype.Int4{Int: int32(v), Status: status(isPresent)}
}

func EncodeInt8(v int64, isPresent bool) pgtype.Int8 {
	return pgtype.Int8{Int: v, Status: status(isPresent)}
}

func EncodeText(v string, isPresent bool) pgtype.Text {
	return pgtype.Text{String: v, Status: status(isPresent)}
}

// EncodeTimestamp stores the wall clock of a UTC time, columns are
// TIMESTAMP WITHOUT TIME ZONE.
func EncodeTimestamp(v time.Time, isPresent bool) pgtype.Timestamp {
	return pgtype.Timestamp{Time: v.UTC(), Status: status(isPresent)}
}
