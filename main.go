package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"board-service/internal/auth"
	"board-service/internal/db"
	"board-service/internal/handlers"
	"board-service/internal/middleware"
	"board-service/internal/observability"
	"board-service/internal/rabbitmq"
	"board-service/internal/repositories"
	"board-service/internal/service"
	"board-service/internal/telemetry"
)

const serviceName = "board-service"

func main() {
	_ = godotenv.Load()

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), serviceName, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(os.Getenv("AMQP_URL"), getEnv("AMQP_EXCHANGE", "board.events"))
	defer publisher.Close()
	if mode := rabbitmq.PublisherMode(publisher); mode == "noop" {
		log.Printf("event publisher mode=%s reason=%s", mode, rabbitmq.PublisherNoopReason(publisher))
	} else {
		log.Printf("event publisher mode=%s", mode)
	}

	verifier := auth.NewHTTPVerifier(getEnv("AUTH_VERIFY_URL", "http://localhost:8084"))

	messageRepo := repositories.NewMessageRepo(database)
	messageService := service.NewMessageService(messageRepo, verifier)

	emitter := telemetry.NewAuditEmitter(publisher, getEnv("AUDIT_ROUTING_PREFIX", "board.message"), serviceName, getEnv("ENVIRONMENT", "dev"))
	messageHandler := handlers.NewMessageHandler(messageService, emitter)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.BearerToken())

	router.POST("/messages", messageHandler.PostMessage)
	router.GET("/messages", messageHandler.ListMessages)
	router.GET("/messages/:message_id", messageHandler.GetMessage)
	router.POST("/messages/:message_id/reply", messageHandler.PostReply)
	router.PUT("/messages/:message_id/deny", messageHandler.UpdateMessage)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		if err := database.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	port := getEnv("PORT", "8083")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
