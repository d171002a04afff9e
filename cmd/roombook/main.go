package main

import (
	"roombook/internal/bookings/events"
	bookingshandler "roombook/internal/bookings/handler"
	bookingsrepo "roombook/internal/bookings/repository"
	bookingsservice "roombook/internal/bookings/service"
	bookingsvalidator "roombook/internal/bookings/validator"
	displayhandler "roombook/internal/display/handler"
	"roombook/internal/display/notifier"
	displayservice "roombook/internal/display/service"
	imageshandler "roombook/internal/images/handler"
	imagesrepo "roombook/internal/images/repository"
	imagesservice "roombook/internal/images/service"
	"roombook/internal/images/storage"
	roomshandler "roombook/internal/rooms/handler"
	roomsrepo "roombook/internal/rooms/repository"
	roomsservice "roombook/internal/rooms/service"
	roomsvalidator "roombook/internal/rooms/validator"
	schedulehandler "roombook/internal/schedule/handler"
	scheduleservice "roombook/internal/schedule/service"
	usershandler "roombook/internal/users/handler"
	usersrepo "roombook/internal/users/repository"
	usersservice "roombook/internal/users/service"
	"roombook/pkg/app"
	"roombook/pkg/config"
	"roombook/pkg/kafka"
	kafkaconfig "roombook/pkg/kafka/config"
)

const (
	ServiceName     = "roombook"
	bookingTopic    = "roombook.bookings"
	bookingDLQTopic = "roombook.bookings.dlq"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting roombook service")

	publisher, producer := initPublisher(cfg)
	if producer != nil {
		defer producer.Close()
	}

	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewBookingLockRepository(cfg)
	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)
	userRepo := usersrepo.NewMongoUserRepository(cfg)
	imageRepo := imagesrepo.NewMongoImageRepository(cfg)

	imageStore, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		cfg.Log.Fatal("Failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
	}

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	roomService := roomsservice.NewRoomService(
		roomRepo,
		bookingRepo,
		roomsvalidator.NewRoomValidator(cfg.Log),
		cfg,
	)
	scheduleService := scheduleservice.NewScheduleService(bookingRepo, roomRepo, cfg)
	userService := usersservice.NewUserService(userRepo, cfg)
	imageService := imagesservice.NewImageService(imageRepo, imageStore, cfg)

	displayNotifier := notifier.New(cfg.Log)
	defer displayNotifier.Close()
	displayService := displayservice.NewDisplayService(scheduleService, imageService, displayNotifier, cfg)
	bookingService.OnChange(displayService.HandleBookingChange)

	serverApp := app.NewApplication(cfg)
	serverApp.MountStream("/api/v1/display/events", displayNotifier)
	serverApp.SetApp(
		bookingshandler.NewBookingHandler(bookingService, cfg),
		roomshandler.NewRoomHandler(roomService, cfg.Log),
		schedulehandler.NewScheduleHandler(scheduleService, cfg),
		usershandler.NewUserHandler(userService, cfg.Log),
		imageshandler.NewImageHandler(imageService, cfg),
		displayhandler.NewDisplayHandler(displayService, cfg),
	)
	serverApp.Run()
}

// initPublisher returns a Kafka-backed publisher when brokers are
// configured, otherwise a no-op so a single-node install needs none.
func initPublisher(cfg *config.Config) (events.Publisher, *kafka.Producer) {
	kafkaCfg := kafkaconfig.Load()
	if !kafkaCfg.Enabled {
		cfg.Log.Info("Kafka disabled, booking events stay local")
		return events.NewNoopPublisher(), nil
	}
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, bookingTopic, bookingDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka.LoggingMiddleware(cfg.Log))

	cfg.Log.Info("Kafka producer initialized", "topic", bookingTopic)
	return events.NewKafkaPublisher(producer), producer
}
