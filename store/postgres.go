package store

import (
	"context"
	"database/sql"

	"github.com/juju/errors"
	"github.com/lib/pq"

	"github.com/positron-geo/positron/model"
)

// PostgresStore serves network records from the shared PostgreSQL
// database populated by the batch ingestion pipeline.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres opens a connection pool against the given DSN.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Annotate(err, "cannot open database")
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)

	return &PostgresStore{db: db}, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// DB exposes the underlying pool for components sharing the same
// database, such as the API key store.
func (ps *PostgresStore) DB() *sql.DB {
	return ps.db
}

func (ps *PostgresStore) BlueNetworks(ctx context.Context, macs []string) ([]Network, error) {
	return ps.macNetworks(ctx, "blue_network", macs)
}

func (ps *PostgresStore) WifiNetworks(ctx context.Context, macs []string) ([]Network, error) {
	return ps.macNetworks(ctx, "wifi_network", macs)
}

func (ps *PostgresStore) macNetworks(ctx context.Context, table string, macs []string) ([]Network, error) {
	if len(macs) == 0 {
		return nil, nil
	}

	rows, err := ps.db.QueryContext(ctx,
		"SELECT lat, lon, radius FROM "+table+" WHERE mac = ANY($1)",
		pq.Array(macs))
	if err != nil {
		return nil, errors.Annotatef(err, "cannot query %s", table)
	}

	return collectNetworks(rows)
}

func (ps *PostgresStore) CellNetworks(ctx context.Context, ids []model.CellID) ([]Network, error) {
	networks := make([]Network, 0, len(ids))

	for _, id := range ids {
		row := ps.db.QueryRowContext(ctx,
			`SELECT lat, lon, radius FROM cell_network
			 WHERE radio = $1 AND mcc = $2 AND mnc = $3 AND lac = $4 AND cid = $5`,
			id.Radio.String(), id.MCC, id.MNC, id.LAC, id.CID)

		var network Network
		switch err := row.Scan(&network.Lat, &network.Lon, &network.Radius); err {
		case nil:
			networks = append(networks, network)
		case sql.ErrNoRows:
		default:
			return nil, errors.Annotate(err, "cannot query cell_network")
		}
	}

	return networks, nil
}

func (ps *PostgresStore) CellAreas(ctx context.Context, ids []model.AreaID) ([]Network, error) {
	networks := make([]Network, 0, len(ids))

	for _, id := range ids {
		row := ps.db.QueryRowContext(ctx,
			`SELECT lat, lon, radius FROM cell_area
			 WHERE radio = $1 AND mcc = $2 AND mnc = $3 AND lac = $4`,
			id.Radio.String(), id.MCC, id.MNC, id.LAC)

		var network Network
		switch err := row.Scan(&network.Lat, &network.Lon, &network.Radius); err {
		case nil:
			networks = append(networks, network)
		case sql.ErrNoRows:
		default:
			return nil, errors.Annotate(err, "cannot query cell_area")
		}
	}

	return networks, nil
}

func collectNetworks(rows *sql.Rows) ([]Network, error) {
	defer rows.Close()

	var networks []Network

	for rows.Next() {
		var network Network
		if err := rows.Scan(&network.Lat, &network.Lon, &network.Radius); err != nil {
			return nil, errors.Annotate(err, "cannot scan network record")
		}
		networks = append(networks, network)
	}

	return networks, errors.Trace(rows.Err())
}
