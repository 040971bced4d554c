package repository

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gocql/gocql"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"booking-service/domain"
)

// NoSQL: UnitHistoryRepo struct encapsulating Cassandra api client
type UnitHistoryRepo struct {
	session *gocql.Session //connection towards CassandraDB
	logger  *log.Logger
	Tracer  trace.Tracer
}

// NoSQL: Constructor which reads db configuration from environment and creates a keyspace
func NewUnitHistoryRepo(logger *log.Logger, tracer trace.Tracer) (*UnitHistoryRepo, error) {
	db := os.Getenv("CASS_DB")

	cluster := gocql.NewCluster(db)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logger.Println(err)
		return nil, err
	}
	// Create 'housekeeping' keyspace
	err = session.Query(
		fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
					WITH replication = {
						'class' : 'SimpleStrategy',
						'replication_factor' : %d
					}`, "housekeeping", 1)).Exec()
	if err != nil {
		logger.Println(err)
	}
	session.Close()

	// Connect to housekeeping keyspace
	cluster.Keyspace = "housekeeping"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logger.Println(err)
		return nil, err
	}

	return &UnitHistoryRepo{
		session: session,
		logger:  logger,
		Tracer:  tracer,
	}, nil
}

// Disconnect from database
func (hr *UnitHistoryRepo) CloseSession() {
	hr.session.Close()
}

// Create unit_status_history table
func (hr *UnitHistoryRepo) CreateTable() {
	err := hr.session.Query(
		`CREATE TABLE IF NOT EXISTS unit_status_history (
        unit_id text,
        changed_at timeuuid,
        old_status text,
        new_status text,
        actor text,
        reason text,
        PRIMARY KEY ((unit_id), changed_at)
    ) WITH CLUSTERING ORDER BY (changed_at DESC);`,
	).Exec()

	if err != nil {
		hr.logger.Println(err)
	}
}

// Append writes one housekeeping status change; the log is append-only.
func (hr *UnitHistoryRepo) Append(ctx context.Context, change *domain.UnitStatusChange) error {
	ctx, span := hr.Tracer.Start(ctx, "UnitHistoryRepo.Append")
	defer span.End()

	changedAt := gocql.TimeUUID()

	err := hr.session.Query(
		`INSERT INTO unit_status_history
         (unit_id, changed_at, old_status, new_status, actor, reason)
         VALUES (?, ?, ?, ?, ?, ?)`,
		change.UnitID,
		changedAt,
		string(change.OldStatus),
		string(change.NewStatus),
		change.Actor,
		change.Reason,
	).WithContext(ctx).Exec()

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		hr.logger.Println(err)
		return err
	}
	return nil
}

func (hr *UnitHistoryRepo) ByUnit(ctx context.Context, unitID string) ([]*domain.UnitStatusChange, error) {
	ctx, span := hr.Tracer.Start(ctx, "UnitHistoryRepo.ByUnit")
	defer span.End()

	scanner := hr.session.Query(
		`SELECT changed_at, old_status, new_status, actor, reason
         FROM unit_status_history WHERE unit_id = ?`,
		unitID).WithContext(ctx).Iter().Scanner()

	var changes []*domain.UnitStatusChange
	for scanner.Next() {
		var changedAt gocql.UUID
		var oldStatus, newStatus string
		change := domain.UnitStatusChange{UnitID: unitID}
		err := scanner.Scan(&changedAt, &oldStatus, &newStatus, &change.Actor, &change.Reason)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			hr.logger.Println(err)
			return nil, err
		}
		change.OldStatus = domain.UnitStatus(oldStatus)
		change.NewStatus = domain.UnitStatus(newStatus)
		change.ChangedAt = changedAt.Time()
		changes = append(changes, &change)
	}
	if err := scanner.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		hr.logger.Println(err)
		return nil, err
	}
	return changes, nil
}
