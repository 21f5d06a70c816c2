package main

import (
	"github.com/whdcks5588-jpg/event-kit/internal/config"
	"github.com/whdcks5588-jpg/event-kit/internal/database"
	"github.com/whdcks5588-jpg/event-kit/internal/handlers"
	"github.com/whdcks5588-jpg/event-kit/internal/middleware"
	"github.com/whdcks5588-jpg/event-kit/internal/services"
	"github.com/whdcks5588-jpg/event-kit/internal/tasks"
	"github.com/whdcks5588-jpg/event-kit/internal/worker"
	"github.com/whdcks5588-jpg/event-kit/internal/ws"

	_ "github.com/whdcks5588-jpg/event-kit/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Event Kit API
// @version         1.0
// @description     API for live event rooms with chat, quiz, raffle and poll programs
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	rdb := database.ConnectRedis(cfg)
	defer rdb.Close()

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	roomService := services.NewRoomService(db)
	presenceService := services.NewPresenceService(db)
	chatService := services.NewChatService(db)
	quizService := services.NewQuizService(db)
	raffleService := services.NewRaffleService(db, presenceService)
	pollService := services.NewPollService(db)
	maintenanceService := services.NewMaintenanceService(db)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	asynqServer := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeRoomPurge, worker.NewRoomPurgeHandler(maintenanceService))
	go func() {
		if err := asynqServer.Run(mux); err != nil {
			logrus.Fatalf("asynq server error: %v", err)
		}
	}()

	authHandler := handlers.NewAuthHandler(authService)
	roomHandler := handlers.NewRoomHandler(roomService, hub, asynqClient)
	quizHandler := handlers.NewQuizHandler(quizService, hub)
	raffleHandler := handlers.NewRaffleHandler(raffleService, hub)
	pollHandler := handlers.NewPollHandler(pollService, hub)
	playHandler := handlers.NewPlayHandler(roomService, presenceService, chatService, quizService, pollService, raffleService, hub)
	moderationHandler := handlers.NewModerationHandler(chatService, presenceService, hub)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Static("/uploads", cfg.UploadDir)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/room/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		rooms := api.Group("/rooms")
		rooms.Use(middleware.JWTAuth(authService))
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("", roomHandler.ListRooms)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.PUT("/:id/program", roomHandler.SetProgram)
			rooms.PUT("/:id/status", roomHandler.SetStatus)
			rooms.PUT("/:id/display", roomHandler.SetDisplayFlag)
			rooms.PUT("/:id/logo", roomHandler.SetLogo)
			rooms.DELETE("/:id", roomHandler.DeleteRoom)
			rooms.POST("/:id/purge", roomHandler.PurgeRoom)
			rooms.GET("/:id/participants", moderationHandler.ListParticipants)

			rooms.POST("/:id/quiz/projects", quizHandler.CreateProject)
			rooms.GET("/:id/quiz/projects", quizHandler.ListProjects)
			rooms.POST("/:id/quiz/start", quizHandler.StartProject)
			rooms.POST("/:id/quiz/advance", quizHandler.Advance)
			rooms.POST("/:id/quiz/ranking", quizHandler.ToggleRanking)
			rooms.GET("/:id/quiz/state", quizHandler.GetState)

			rooms.POST("/:id/raffles", raffleHandler.CreateAndStart)
			rooms.POST("/:id/polls", pollHandler.CreateAndStart)
		}

		quiz := api.Group("/quiz")
		quiz.Use(middleware.JWTAuth(authService))
		{
			quiz.DELETE("/projects/:id", quizHandler.DeleteProject)
			quiz.POST("/projects/:id/questions", quizHandler.AddQuestion)
			quiz.GET("/projects/:id/questions", quizHandler.ListQuestions)
			quiz.GET("/projects/:id/ranking", quizHandler.GetRanking)
			quiz.PUT("/questions/:id", quizHandler.UpdateQuestion)
			quiz.DELETE("/questions/:id", quizHandler.DeleteQuestion)
			quiz.POST("/questions/:id/move", quizHandler.MoveQuestion)
		}

		raffles := api.Group("/raffles")
		raffles.Use(middleware.JWTAuth(authService))
		{
			raffles.POST("/:id/draw", raffleHandler.Draw)
		}

		polls := api.Group("/polls")
		polls.Use(middleware.JWTAuth(authService))
		{
			polls.POST("/:id/end", pollHandler.End)
			polls.GET("/:id/tally", pollHandler.GetTally)
		}

		moderation := api.Group("")
		moderation.Use(middleware.JWTAuth(authService))
		{
			moderation.POST("/messages/:id/block", moderationHandler.BlockMessage)
			moderation.POST("/participants/:id/block", moderationHandler.BlockParticipant)
		}

		upload := api.Group("/upload")
		upload.Use(middleware.JWTAuth(authService))
		{
			upload.POST("", uploadHandler.UploadImage)
		}

		play := api.Group("/play")
		{
			play.POST("/join", middleware.RateLimit(rdb, 5), playHandler.Join)
			play.POST("/resume", playHandler.Resume)
			play.POST("/heartbeat/:id", playHandler.Heartbeat)
			play.PUT("/participants/:id/nickname", playHandler.Rename)
			play.POST("/messages", middleware.RateLimit(rdb, 10), playHandler.SendMessage)
			play.POST("/answer", playHandler.SubmitAnswer)
			play.POST("/vote", playHandler.Vote)
		}

		// Read-only room views for participants and the display client.
		api.GET("/rooms/:id/state", playHandler.GetState)
		api.GET("/rooms/:id/messages", playHandler.ListMessages)
		api.GET("/rooms/:id/polls/active", pollHandler.GetActive)
		api.GET("/rooms/:id/raffles/active", raffleHandler.GetActive)
	}

	logrus.Infof("server listening on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
