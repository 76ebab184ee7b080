package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/TheMordhon1/warga-pkt/models"
)

var ErrHouseNotFound = errors.New("house not found")

type HouseRepository interface {
	GetByID(ctx context.Context, id int) (*models.House, error)
	List(ctx context.Context) ([]*models.House, error)
}

type postgresHouseRepository struct {
	db *sql.DB
}

func NewPostgresHouseRepository(db *sql.DB) HouseRepository {
	return &postgresHouseRepository{db: db}
}

func (r *postgresHouseRepository) GetByID(ctx context.Context, id int) (*models.House, error) {
	query := `SELECT id, block, number, created_at FROM houses WHERE id = $1`

	house := &models.House{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&house.ID, &house.Block, &house.Number, &house.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}
	return house, nil
}

func (r *postgresHouseRepository) List(ctx context.Context) ([]*models.House, error) {
	query := `SELECT id, block, number, created_at FROM houses ORDER BY block ASC, number ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	houses := make([]*models.House, 0)
	for rows.Next() {
		var house models.House
		if scanErr := rows.Scan(&house.ID, &house.Block, &house.Number, &house.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		houses = append(houses, &house)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return houses, nil
}
