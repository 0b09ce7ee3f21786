package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"group-service/internal/crypto"
	"group-service/internal/db"
	"group-service/internal/handlers"
	"group-service/internal/middleware"
	"group-service/internal/observability"
	"group-service/internal/rabbitmq"
	"group-service/internal/repositories"
	"group-service/internal/telemetry"
	"group-service/internal/ws"
)

func main() {
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	amqpURL := getEnv("AMQP_URL", "")
	auditExchange := getEnv("AUDIT_EXCHANGE", "audit_logs")
	auditPublisher := rabbitmq.NewPublisher(amqpURL, auditExchange)
	defer auditPublisher.Close()
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(auditPublisher))

	audit := telemetry.NewAuditEmitter(
		auditPublisher,
		getEnv("AUDIT_ROUTING_KEY", "audit.group-service"),
		"group-service",
		getEnv("ENVIRONMENT", "dev"),
	)

	if eventsPublisher, err := observability.NewAMQPPublisher(amqpURL, getEnv("EVENTS_EXCHANGE", "service_events")); err == nil {
		defer eventsPublisher.Close()
		observability.SetPublisher(eventsPublisher)
	}

	cipher := crypto.NewCipher()
	groupRepo := repositories.NewGroupRepo(database, cipher)
	requestRepo := repositories.NewJoinRequestRepo(database)
	messageRepo := repositories.NewMessageRepo(database, cipher)

	hub := ws.NewHub()

	groupHandler := handlers.NewGroupHandler(groupRepo, audit)
	membershipHandler := handlers.NewMembershipHandler(groupRepo, audit)
	requestHandler := handlers.NewJoinRequestHandler(requestRepo, audit)
	messageHandler := handlers.NewMessageHandler(groupRepo, messageRepo, hub, audit)
	groupWS := ws.NewGroupWebSocketHandler(hub, groupRepo)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware()

	router.POST("/groups", authMiddleware, groupHandler.CreateGroup)
	router.GET("/groups", authMiddleware, groupHandler.ListGroups)
	router.GET("/groups/search", authMiddleware, groupHandler.SearchGroups)
	router.GET("/groups/:group_id", authMiddleware, groupHandler.GetGroup)
	router.DELETE("/groups/:group_id", authMiddleware, groupHandler.DeleteGroup)

	router.POST("/groups/:group_id/join", authMiddleware, membershipHandler.JoinGroup)
	router.POST("/groups/:group_id/leave", authMiddleware, membershipHandler.LeaveGroup)
	router.POST("/groups/:group_id/members", authMiddleware, membershipHandler.AddMember)
	router.DELETE("/groups/:group_id/members/:user_id", authMiddleware, membershipHandler.RemoveMember)
	router.POST("/groups/:group_id/members/:user_id/banish", authMiddleware, membershipHandler.BanishMember)
	router.PUT("/groups/:group_id/members/:user_id/role", authMiddleware, membershipHandler.UpdateRole)
	router.POST("/groups/:group_id/transfer", authMiddleware, membershipHandler.TransferOwnership)

	router.POST("/groups/:group_id/requests", authMiddleware, requestHandler.Submit)
	router.GET("/groups/:group_id/requests", authMiddleware, requestHandler.ListPending)
	router.POST("/groups/:group_id/requests/:user_id/approve", authMiddleware, requestHandler.Approve)
	router.POST("/groups/:group_id/requests/:user_id/decline", authMiddleware, requestHandler.Decline)

	router.POST("/groups/:group_id/messages", authMiddleware, messageHandler.PostMessage)
	router.GET("/groups/:group_id/messages", authMiddleware, messageHandler.ListMessages)

	router.GET("/ws/groups/:group_id", groupWS.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, audit, getEnv("DEBUG_ROUTES", "") == "true")

	port := getEnv("PORT", "8086")
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
