package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
}

type PGFlightRepository struct {
	db Querier
}

func NewFlightRepository(db Querier) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, airline, flight_number, from_code, to_code, depart_time, arrive_time, duration,
	ROUND(price * 100)::bigint, travel_type`

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY depart_time`)
	if err != nil {
		return nil, translate("list flights", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, translate("list flights", err)
		}
		flights = append(flights, *f)
	}
	return flights, translate("list flights", rows.Err())
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if err != nil {
		return nil, translate(fmt.Sprintf("get flight %d", id), err)
	}
	return f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (airline, flight_number, from_code, to_code, depart_time, arrive_time,
			duration, price, travel_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::bigint / 100.0, $9)
		RETURNING id`,
		f.Airline, f.FlightNumber, f.FromCode, f.ToCode, f.DepartTime, f.ArriveTime, f.Duration,
		int64(f.Price), string(f.TravelType),
	).Scan(&f.ID)
	return translate("create flight", err)
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var (
		f          domain.Flight
		price      int64
		travelType string
	)
	if err := row.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.FromCode, &f.ToCode, &f.DepartTime, &f.ArriveTime,
		&f.Duration, &price, &travelType); err != nil {
		return nil, err
	}
	f.Price = domain.Money(price)
	f.TravelType = domain.TravelType(travelType)
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
