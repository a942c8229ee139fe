// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/wonder-codes/Placement-Portal-Project/internal/broadcast"
	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/jobs"
	"github.com/wonder-codes/Placement-Portal-Project/internal/mailer"
	"github.com/wonder-codes/Placement-Portal-Project/internal/placement"
)

// PortalServer contains the port the server runs on and the capabilities
// the handlers depend on.
type PortalServer struct {
	port int

	DB          *database.DBinstanceStruct
	Broadcaster broadcast.Broadcaster
	Mailer      mailer.Mailer
	Effects     *placement.Service
}

// NewServer constructs the portal server with its database, live feed and
// mail queue. REDIS_URL and RABBITMQ_URL are optional: without them the
// feed is a no-op and emails go to the log.
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	srv := &PortalServer{
		port:        port,
		DB:          db,
		Broadcaster: newBroadcaster(),
		Mailer:      newMailer(),
	}
	srv.Effects = placement.NewService(db, srv.Broadcaster, srv.Mailer)

	jobs.StartDeadlineCloser(db)

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func newBroadcaster() broadcast.Broadcaster {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		logrus.Info("REDIS_URL not set, placement feed disabled")
		return broadcast.Noop{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b, err := broadcast.NewRedis(ctx, redisURL)
	if err != nil {
		logrus.WithError(err).Warn("Redis unreachable, placement feed disabled")
		return broadcast.Noop{}
	}
	return b
}

func newMailer() mailer.Mailer {
	amqpURL := os.Getenv("RABBITMQ_URL")
	if amqpURL == "" {
		logrus.Info("RABBITMQ_URL not set, emails will be logged")
		return mailer.LogMailer{}
	}

	q, err := mailer.NewQueue(amqpURL)
	if err != nil {
		logrus.WithError(err).Warn("RabbitMQ unreachable, emails will be logged")
		return mailer.LogMailer{}
	}
	return q
}
