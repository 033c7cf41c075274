package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/platform/obs"
	"food-delivery-service/internal/ports"

	"github.com/google/uuid"
)

// SQL-backed implementation of the PlanRepository port.
// Plans are immutable once stored and kept as one JSON document each.
type SQLPlanRepository struct {
	DB      *sql.DB
	dialect dialect
	now     func() time.Time
}

func NewSqlitePlanRepository(db *sql.DB) *SQLPlanRepository {
	return &SQLPlanRepository{DB: db, dialect: sqliteDialect, now: time.Now}
}

func NewPostgresPlanRepository(db *sql.DB) *SQLPlanRepository {
	return &SQLPlanRepository{DB: db, dialect: postgresDialect, now: time.Now}
}

type planRecord struct {
	GridSize    int                `json:"grid_size"`
	ClosedNodes []int              `json:"closed_nodes,omitempty"`
	Riders      int                `json:"riders"`
	Routes      []routeRecord      `json:"routes"`
	Unassigned  []unassignedRecord `json:"unassigned"`
}

type routeRecord struct {
	Rider     int          `json:"rider"`
	TotalTime int          `json:"total_time"`
	Stops     []stopRecord `json:"stops"`
}

type stopRecord struct {
	Node int    `json:"node"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type unassignedRecord struct {
	Restaurant string    `json:"restaurant"`
	Order      OrderSeed `json:"order"`
	Distance   int       `json:"distance"`
	Reason     string    `json:"reason"`
}

func toRecord(p *domain.Plan) planRecord {
	rec := planRecord{
		GridSize:   p.GridSize,
		Riders:     p.Riders,
		Routes:     make([]routeRecord, 0, len(p.Routes)),
		Unassigned: make([]unassignedRecord, 0, len(p.Unassigned)),
	}
	for _, n := range p.ClosedNodes {
		rec.ClosedNodes = append(rec.ClosedNodes, int(n))
	}
	for _, r := range p.Routes {
		rr := routeRecord{Rider: r.Rider, TotalTime: r.TotalTime, Stops: make([]stopRecord, 0, len(r.Stops))}
		for _, s := range r.Stops {
			rr.Stops = append(rr.Stops, stopRecord{Node: int(s.Node), Name: s.Name, Kind: string(s.Kind)})
		}
		rec.Routes = append(rec.Routes, rr)
	}
	for _, u := range p.Unassigned {
		rec.Unassigned = append(rec.Unassigned, unassignedRecord{
			Restaurant: u.Restaurant,
			Order:      OrderSeed{Name: u.Order.Name, Location: int(u.Order.Location), TimeLimit: u.Order.TimeLimit},
			Distance:   u.Distance,
			Reason:     string(u.Reason),
		})
	}
	return rec
}

func (rec planRecord) toPlan(id string, createdAt time.Time) *domain.Plan {
	p := &domain.Plan{
		ID:         id,
		GridSize:   rec.GridSize,
		Riders:     rec.Riders,
		Routes:     make([]domain.Route, 0, len(rec.Routes)),
		Unassigned: make([]domain.UnassignedOrder, 0, len(rec.Unassigned)),
		CreatedAt:  createdAt,
	}
	for _, n := range rec.ClosedNodes {
		p.ClosedNodes = append(p.ClosedNodes, domain.Node(n))
	}
	for _, rr := range rec.Routes {
		r := domain.Route{Rider: rr.Rider, TotalTime: rr.TotalTime, Stops: make([]domain.Stop, 0, len(rr.Stops))}
		for _, s := range rr.Stops {
			r.Stops = append(r.Stops, domain.Stop{Node: domain.Node(s.Node), Name: s.Name, Kind: domain.StopKind(s.Kind)})
		}
		p.Routes = append(p.Routes, r)
	}
	for _, u := range rec.Unassigned {
		p.Unassigned = append(p.Unassigned, domain.UnassignedOrder{
			Restaurant: u.Restaurant,
			Order:      domain.Order{Name: u.Order.Name, Location: domain.Node(u.Order.Location), TimeLimit: u.Order.TimeLimit},
			Distance:   u.Distance,
			Reason:     domain.UnassignedReason(u.Reason),
		})
	}
	return p
}

// Store the plan. plan.ID and plan.CreatedAt are filled in when empty.
func (s *SQLPlanRepository) SavePlan(ctx context.Context, plan *domain.Plan) (_ string, err error) {
	defer obs.Time(ctx, "repo.SavePlan")(&err)

	if s.DB == nil {
		return "", errors.New("plan repository: DB is nil")
	}
	if plan == nil {
		return "", errors.New("save plan: plan is nil")
	}

	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now().UTC()
	}

	raw, err := json.Marshal(toRecord(plan))
	if err != nil {
		return "", fmt.Errorf("save plan %s: encode: %w", plan.ID, err)
	}

	q := s.dialect.rebind(`
	INSERT INTO plans (plan_id, created_at, plan_json)
	VALUES (?, ?, ?);
	`)
	if _, err := s.DB.ExecContext(ctx, q, plan.ID, plan.CreatedAt.UTC().Format(time.RFC3339Nano), string(raw)); err != nil {
		return "", fmt.Errorf("save plan %s: insert: %w", plan.ID, err)
	}
	return plan.ID, nil
}

// Return the stored plan or ports.ErrPlanNotFound.
func (s *SQLPlanRepository) GetPlan(ctx context.Context, id string) (_ *domain.Plan, err error) {
	defer obs.Time(ctx, "repo.GetPlan")(&err)

	if s.DB == nil {
		return nil, errors.New("plan repository: DB is nil")
	}

	q := s.dialect.rebind(`
	SELECT created_at, plan_json
	FROM plans
	WHERE plan_id = ?;
	`)
	var createdRaw, raw string
	if err := s.DB.QueryRowContext(ctx, q, id).Scan(&createdRaw, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get plan %s: %w", id, ports.ErrPlanNotFound)
		}
		return nil, fmt.Errorf("get plan %s: query: %w", id, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("get plan %s: parse created_at: %w", id, err)
	}

	var rec planRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("get plan %s: decode: %w", id, err)
	}
	return rec.toPlan(id, createdAt), nil
}
