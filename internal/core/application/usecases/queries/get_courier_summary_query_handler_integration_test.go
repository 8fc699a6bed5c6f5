package queries_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/routerepo"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/route"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetCourierSummaryQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetCourierSummaryQueryHandler
}

func (suite *GetCourierSummaryQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&routerepo.RouteDTO{}, &routerepo.RouteStopDTO{},
		&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{},
	)
	suite.Require().NoError(err)

	suite.handler = queries.NewGetCourierSummaryQueryHandler(db)
}

func (suite *GetCourierSummaryQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetCourierSummaryQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, routes, route_stops CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetCourierSummaryQueryHandlerTestSuite) seedCourierRoute(
	courierID uuid.UUID, status route.Status, createdAt time.Time, completedAt *time.Time,
) uuid.UUID {
	dto := routerepo.RouteDTO{
		ID:                uuid.New(),
		CourierID:         &courierID,
		Capacity:          8,
		DeadlineSpreadSec: 7200,
		Status:            int(status),
		CreatedAt:         createdAt,
		CompletedAt:       completedAt,
	}
	suite.Require().NoError(suite.db.Create(&dto).Error)
	return dto.ID
}

func (suite *GetCourierSummaryQueryHandlerTestSuite) seedDeliveredOrder(
	routeID uuid.UUID, shippingPrice float64, deadline, pickedUpAt, deliveredAt time.Time,
) {
	dto := orderrepo.OrderDTO{
		ID:                   uuid.New(),
		RouteID:              &routeID,
		PickupLat:            41.7151,
		PickupLng:            44.8271,
		DeliveryLat:          41.7089,
		DeliveryLng:          44.7730,
		ShippingPrice:        shippingPrice,
		DistanceKm:           4.6,
		Status:               int(order.StatusDelivered),
		CreatedAt:            deliveredAt.Add(-3 * time.Hour),
		ReservationExpiresAt: deliveredAt.Add(-3 * time.Hour).Add(17 * time.Minute),
		DeliveryDeadline:     deadline,
		PickedUpAt:           &pickedUpAt,
		DeliveredAt:          &deliveredAt,
	}
	suite.Require().NoError(suite.db.Create(&dto).Error)
}

func (suite *GetCourierSummaryQueryHandlerTestSuite) courierQuery(
	courierID uuid.UUID, period queries.Period,
) queries.GetCourierSummaryQuery {
	id, err := kernel.UUIDFromBytes(courierID[:])
	suite.Require().NoError(err)
	query, err := queries.NewGetCourierSummaryQuery(id, period)
	suite.Require().NoError(err)
	return query
}

func (suite *GetCourierSummaryQueryHandlerTestSuite) TestHandle_NoActivity_ReturnsZeroSummary() {
	query := suite.courierQuery(uuid.New(), queries.PeriodAll)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(0, result.Deliveries)
	suite.Zero(result.Earnings)
	suite.Empty(result.Days)
}

func (suite *GetCourierSummaryQueryHandlerTestSuite) TestHandle_CompletedRoute_Aggregated() {
	courierID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	completedAt := now.Add(-time.Hour)
	routeID := suite.seedCourierRoute(
		courierID, route.StatusCompleted, now.Add(-3*time.Hour), &completedAt)

	suite.seedDeliveredOrder(routeID, 7.50,
		now.Add(time.Hour), now.Add(-2*time.Hour), now.Add(-time.Hour))
	suite.seedDeliveredOrder(routeID, 4.25,
		now.Add(-90*time.Minute), now.Add(-2*time.Hour), now.Add(-time.Hour))

	result, err := suite.handler.Handle(
		context.Background(), suite.courierQuery(courierID, queries.PeriodWeek))

	suite.Require().NoError(err)
	suite.Equal(2, result.Deliveries)
	suite.InDelta(11.75, result.Earnings, 0.001)
	suite.Equal(time.Hour, result.AvgHandlingTime)
	suite.Equal(2*time.Hour, result.AvgRouteTime)
	suite.InDelta(0.5, result.OnTimeRate, 0.001)
	suite.Require().Len(result.Days, 1)
	suite.Equal(2, result.Days[0].Deliveries)
}

func (suite *GetCourierSummaryQueryHandlerTestSuite) TestHandle_InProgressRoute_ParcelsExcluded() {
	courierID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	completedAt := now.Add(-time.Hour)
	completedRoute := suite.seedCourierRoute(
		courierID, route.StatusCompleted, now.Add(-2*time.Hour), &completedAt)
	activeRoute := suite.seedCourierRoute(
		courierID, route.StatusInProgress, now.Add(-time.Hour), nil)

	suite.seedDeliveredOrder(completedRoute, 7.50,
		now.Add(time.Hour), now.Add(-2*time.Hour), now.Add(-time.Hour))
	suite.seedDeliveredOrder(activeRoute, 9.00,
		now.Add(time.Hour), now.Add(-45*time.Minute), now.Add(-30*time.Minute))

	result, err := suite.handler.Handle(
		context.Background(), suite.courierQuery(courierID, queries.PeriodAll))

	suite.Require().NoError(err)
	suite.Equal(1, result.Deliveries)
	suite.InDelta(7.50, result.Earnings, 0.001)
}

func (suite *GetCourierSummaryQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetCourierSummaryQuery{}

	_, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetCourierSummaryQuery constructor")
}

func TestGetCourierSummaryQueryHandlerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(GetCourierSummaryQueryHandlerTestSuite))
}
