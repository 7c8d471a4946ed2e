package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type assetRow struct {
	ID         int32
	Ticker     string
	Name       string
	Type       string
	CreatedAt  *time.Time
	ModifiedAt *time.Time
}

type aggregatesParams struct {
	TimeBucket string
	AssetID    int32
	StartTime  *time.Time
	EndTime    *time.Time
}

type aggregateRow struct {
	Bucket  *time.Time
	AssetID int32
	Open    decimal.Decimal
	High    decimal.Decimal
	Low     decimal.Decimal
	Close   decimal.Decimal
	Volume  decimal.Decimal
}

// queries is the hand-written query layer over the pool.
type queries struct {
	pool *pgxpool.Pool
}

const assetByTickerQuery = `
SELECT id, ticker, name, type, created_at, modified_at
FROM assets
WHERE ticker = $1
`

func (q *queries) AssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	var row assetRow
	err := q.pool.QueryRow(ctx, assetByTickerQuery, ticker).Scan(
		&row.ID,
		&row.Ticker,
		&row.Name,
		&row.Type,
		&row.CreatedAt,
		&row.ModifiedAt,
	)
	if err != nil {
		return assetRow{}, err
	}
	return row, nil
}

const aggregatesQuery = `
SELECT time_bucket($1::interval, timestamp) AS bucket,
       asset_id,
       first(open, timestamp)               AS open,
       max(high)                            AS high,
       min(low)                             AS low,
       last(close, timestamp)               AS close,
       sum(volume)                          AS volume
FROM candles
WHERE asset_id = $2
  AND timestamp >= $3
  AND timestamp < $4
GROUP BY bucket, asset_id
ORDER BY bucket
`

func (q *queries) Aggregates(ctx context.Context, arg aggregatesParams) ([]aggregateRow, error) {
	rows, err := q.pool.Query(ctx, aggregatesQuery,
		arg.TimeBucket,
		arg.AssetID,
		arg.StartTime,
		arg.EndTime,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []aggregateRow
	for rows.Next() {
		var row aggregateRow
		if err := rows.Scan(
			&row.Bucket,
			&row.AssetID,
			&row.Open,
			&row.High,
			&row.Low,
			&row.Close,
			&row.Volume,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
