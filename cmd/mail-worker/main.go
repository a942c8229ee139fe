// Command mail-worker consumes the notification email queue and delivers
// the messages over SMTP. Run it next to the api server whenever
// RABBITMQ_URL is configured.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/wonder-codes/Placement-Portal-Project/internal/mailer"
)

func main() {
	amqpURL := os.Getenv("RABBITMQ_URL")
	if amqpURL == "" {
		log.Fatal("RABBITMQ_URL is required")
	}

	queue, err := mailer.NewQueue(amqpURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %s", err)
	}
	defer queue.Close()

	sender := mailer.NewSMTPSender()

	err = queue.Consume(func(e mailer.Email) {
		if err := sender.Send(e); err != nil {
			logrus.WithError(err).WithField("to", e.To).Warn("failed to deliver email")
			return
		}
		logrus.WithField("to", e.To).Info("email delivered")
	})
	if err != nil {
		log.Fatalf("Failed to start consumer: %s", err)
	}

	log.Println("Mail worker running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
