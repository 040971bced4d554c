package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port                string
	ServiceName         string
	JaegerAddress       string
	MongoURI            string
	CassDB              string
	RedisHost           string
	RedisPort           string
	NatsHost            string
	NatsPort            string
	NatsUser            string
	NatsPass            string
	BookingEventSubject string
	GuestServiceURL     string
	PaymentServiceURL   string
	MaxStayNights       int
	CertFile            string
	KeyFile             string
}

func GetConfig() Config {
	return Config{
		Port:                envOr("PORT", "8090"),
		ServiceName:         "booking-service",
		JaegerAddress:       os.Getenv("JAEGER_ADDRESS"),
		MongoURI:            os.Getenv("MONGO_DB_URI"),
		CassDB:              os.Getenv("CASS_DB"),
		RedisHost:           os.Getenv("REDIS_HOST"),
		RedisPort:           os.Getenv("REDIS_PORT"),
		NatsHost:            os.Getenv("NATS_HOST"),
		NatsPort:            os.Getenv("NATS_PORT"),
		NatsUser:            os.Getenv("NATS_USER"),
		NatsPass:            os.Getenv("NATS_PASS"),
		BookingEventSubject: envOr("BOOKING_EVENT_SUBJECT", "booking.events"),
		GuestServiceURL:     os.Getenv("GUEST_SERVICE_URL"),
		PaymentServiceURL:   os.Getenv("PAYMENT_SERVICE_URL"),
		MaxStayNights:       envIntOr("MAX_STAY_NIGHTS", 10),
		CertFile:            envOr("CERT_FILE", "/app/booking-service.crt"),
		KeyFile:             envOr("KEY_FILE", "/app/booking-service.key"),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); len(value) != 0 {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
