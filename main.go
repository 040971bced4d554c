package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"gopkg.in/natefinch/lumberjack.v2"

	"booking-service/cache"
	"booking-service/config"
	"booking-service/events"
	"booking-service/handlers"
	"booking-service/repository"
	"booking-service/routes"
	"booking-service/services"
)

var (
	server      *gin.Engine
	ctx         context.Context
	mongoclient *mongo.Client
	historyRepo *repository.UnitHistoryRepo

	inventoryService services.InventoryService
	rateService      services.RateService
	roomUnitService  services.RoomUnitService
	bookingService   services.BookingService

	BookingRouteHandler   routes.BookingRouteHandler
	InventoryRouteHandler routes.InventoryRouteHandler
	RoomUnitRouteHandler  routes.RoomUnitRouteHandler
)

func init() {
	ctx = context.TODO()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, reading configuration from environment")
	}

	//logging
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	lumberjackLog := &lumberjack.Logger{
		Filename:  "/booking-service/logs/logfile.log",
		MaxSize:   1,
		LocalTime: true,
	}
	logger.SetOutput(lumberjackLog)
	logger.WithFields(logrus.Fields{"path": "booking/main"}).Info("Booking service starting")
	//logging

	cfg := config.GetConfig()

	mongoconn := options.Client().ApplyURI(cfg.MongoURI)
	var err error
	mongoclient, err = mongo.Connect(ctx, mongoconn)
	if err != nil {
		panic(err)
	}
	if err := mongoclient.Ping(ctx, readpref.Primary()); err != nil {
		panic(err)
	}
	fmt.Println("MongoDB successfully connected...")

	tracerProvider, err := NewTracerProvider(cfg.ServiceName, cfg.JaegerAddress)
	if err != nil {
		log.Fatal("JaegerTraceProvider failed to Initialize", err)
	}
	tracer := tracerProvider.Tracer(cfg.ServiceName)

	// Collections
	db := mongoclient.Database("Hotel")
	inventoryCollection := db.Collection("inventory_days")
	bookingCollection := db.Collection("bookings")
	roomTypeCollection := db.Collection("room_types")
	dailyRateCollection := db.Collection("daily_rates")
	roomUnitCollection := db.Collection("room_units")

	storeLogger := log.New(os.Stdout, "[booking-store] ", log.LstdFlags)
	cacheLogger := log.New(os.Stdout, "[booking-cache] ", log.LstdFlags)
	serviceLogger := log.New(os.Stdout, "[booking-service] ", log.LstdFlags)

	inventoryStore := repository.NewMongoInventoryStore(inventoryCollection, storeLogger, tracer)
	bookingStore := repository.NewMongoBookingStore(bookingCollection, storeLogger, tracer)
	catalogStore := repository.NewMongoCatalogStore(roomTypeCollection, dailyRateCollection, storeLogger, tracer)
	unitStore := repository.NewMongoRoomUnitStore(roomUnitCollection, storeLogger, tracer)
	txRunner := repository.NewMongoTxRunner(mongoclient, storeLogger)

	inventoryStore.EnsureIndexes(ctx)
	bookingStore.EnsureIndexes(ctx)
	unitStore.EnsureIndexes(ctx)

	historyRepo, err = repository.NewUnitHistoryRepo(storeLogger, tracer)
	if err != nil {
		logger.Fatal(err)
	}
	historyRepo.CreateTable()

	roomTypeCache := cache.New(cacheLogger, tracer)
	roomTypeCache.Ping()

	publisher, err := events.NewNatsPublisher(cfg.NatsHost, cfg.NatsPort, cfg.NatsUser, cfg.NatsPass,
		cfg.BookingEventSubject, serviceLogger, tracer)
	if err != nil {
		logger.Fatal(err)
	}

	guestClient := services.NewHTTPGuestClient(cfg.GuestServiceURL, serviceLogger)
	paymentClient := services.NewHTTPPaymentClient(cfg.PaymentServiceURL, serviceLogger)

	inventoryService = services.NewInventoryServiceImpl(inventoryStore, txRunner, serviceLogger, tracer)
	rateService = services.NewRateServiceImpl(catalogStore, roomTypeCache, serviceLogger, tracer)
	roomUnitService = services.NewRoomUnitServiceImpl(unitStore, historyRepo, serviceLogger, tracer)
	bookingService = services.NewBookingServiceImpl(bookingStore, inventoryService, rateService,
		roomUnitService, guestClient, paymentClient, publisher, txRunner, cfg.MaxStayNights, serviceLogger, tracer)

	bookingHandler := handlers.NewBookingHandler(bookingService, tracer)
	availabilityHandler := handlers.NewAvailabilityHandler(inventoryService, rateService, tracer)
	roomUnitHandler := handlers.NewRoomUnitHandler(roomUnitService, tracer)

	BookingRouteHandler = routes.NewBookingRouteHandler(bookingHandler, bookingService)
	InventoryRouteHandler = routes.NewInventoryRouteHandler(availabilityHandler, inventoryService)
	RoomUnitRouteHandler = routes.NewRoomUnitRouteHandler(roomUnitHandler, roomUnitService)

	server = gin.Default()
}

func main() {
	defer mongoclient.Disconnect(ctx)
	defer historyRepo.CloseSession()

	cfg := config.GetConfig()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"https://localhost:4200"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")

	server.Use(cors.New(corsConfig))

	router := server.Group("/api")
	router.GET("/healthchecker", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "Message"})
	})

	BookingRouteHandler.BookingRoute(router)
	InventoryRouteHandler.InventoryRoute(router)
	RoomUnitRouteHandler.RoomUnitRoute(router)

	err := server.RunTLS(":"+cfg.Port, cfg.CertFile, cfg.KeyFile)
	if err != nil {
		fmt.Println(err)
		return
	}
}

func NewTracerProvider(serviceName, collectorEndpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(collectorEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("unable to initialize exporter due: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.DeploymentEnvironmentKey.String("development"),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
