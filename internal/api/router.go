package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/mbtimate/mbtimate-backend/internal/api/handlers"
	"github.com/mbtimate/mbtimate-backend/internal/api/middleware"
	"github.com/mbtimate/mbtimate-backend/internal/config"
	"github.com/mbtimate/mbtimate-backend/internal/repository"
	"github.com/mbtimate/mbtimate-backend/internal/service"
	"github.com/mbtimate/mbtimate-backend/internal/websocket"
	"github.com/mbtimate/mbtimate-backend/pkg/database"
	jwtutil "github.com/mbtimate/mbtimate-backend/pkg/jwt"
	"github.com/mbtimate/mbtimate-backend/pkg/llm"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

// SetupRouter API 라우터 설정
func SetupRouter(cfg *config.Config, db *database.DB, redisClient *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 전역 미들웨어
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Repository 초기화
	userRepo := repository.NewUserRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.SessionTTL)
	chatRoomRepo := repository.NewChatRoomRepository(db)
	chatMessageRepo := repository.NewChatMessageRepository(db)
	reportRepo := repository.NewReportRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	testSessionRepo := repository.NewTestSessionRepository(db)
	consultRepo := repository.NewConsultRepository(db)
	ticketQueueRepo := repository.NewTicketQueueRepository(redisClient)
	matchStateRepo := repository.NewMatchStateRepository(redisClient)

	// JWT / LLM 클라이언트
	jwtManager := jwtutil.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	llmClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	// MBTI 키워드 분석기 (아호코라식 머신 빌드 실패 시 기동 불가)
	analyzer, err := service.NewMBTIAnalyzer()
	if err != nil {
		panic("Failed to build MBTI analyzer: " + err.Error())
	}

	// Service 초기화
	authService := service.NewAuthService(userRepo, sessionRepo, jwtManager)
	userService := service.NewUserService(userRepo, blockRepo)
	chatService := service.NewChatService(chatRoomRepo, chatMessageRepo, reportRepo, ratingRepo)
	communityService := service.NewCommunityService(postRepo, commentRepo)
	testService := service.NewMBTITestService(testSessionRepo, userRepo, analyzer)
	convertService := service.NewConvertService(llmClient)
	consultService := service.NewConsultService(consultRepo, userRepo, llmClient)

	// WebSocket Hub 초기화 및 시작
	wsHub := websocket.NewHub(chatService, matchStateRepo)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// 매칭 파이프라인: 탐색 서비스 + 오케스트레이터, 매칭 알림은 Hub로 전달
	searchService := service.NewPartnerSearchService(ticketQueueRepo, blockRepo, cfg.RequeueRejected)
	matchService := service.NewMatchOrchestrator(
		ticketQueueRepo,
		matchStateRepo,
		searchService,
		chatService,
		wsHub,
		cfg.MatchStateTTL,
	)

	// Handler 초기화
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	matchHandler := handlers.NewMatchHandler(matchService, userService)
	chatHandler := handlers.NewChatHandler(chatService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	testHandler := handlers.NewMBTITestHandler(testService)
	convertHandler := handlers.NewConvertHandler(convertService, userService)
	consultHandler := handlers.NewConsultHandler(consultService)
	wsHandler := handlers.NewWebSocketHandler(wsHub)

	authRequired := middleware.Auth(jwtManager, authService)

	// Health check
	router.GET("/health", handlers.HealthCheck)
	router.GET("/health/ready", handlers.ReadyCheck(db, redisClient))

	// API v1
	v1 := router.Group("/api/v1")
	{
		// WebSocket endpoints
		v1.GET("/ws", authRequired, wsHandler.HandleWebSocket)
		v1.GET("/ws/chat/:roomId", authRequired, wsHandler.HandleChatWebSocket)

		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.AuthRateLimit(), authHandler.Register)
			auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
			auth.POST("/logout", authRequired, authHandler.Logout)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(authRequired)
		{
			users.GET("/me", userHandler.GetCurrentUser)
			users.PUT("/me", userHandler.UpdateCurrentUser)
			users.GET("/blocks", userHandler.ListBlockedUsers)
			users.POST("/blocks/:userId", userHandler.BlockUser)
			users.DELETE("/blocks/:userId", userHandler.UnblockUser)
			users.GET("/:userId/rating", chatHandler.GetUserRating)
		}

		// Match routes
		matches := v1.Group("/matches")
		matches.Use(authRequired)
		{
			matches.POST("", middleware.MatchRequestRateLimit(), matchHandler.RequestMatch)
			matches.DELETE("", matchHandler.CancelMatch)
			matches.GET("/status", matchHandler.GetMatchStatus)
			matches.GET("/queue/:mbti", matchHandler.GetQueueSize)
		}

		// Chat routes
		chats := v1.Group("/chats")
		chats.Use(authRequired)
		{
			chats.GET("", chatHandler.ListRooms)
			chats.GET("/:roomId", chatHandler.GetRoom)
			chats.GET("/:roomId/messages", chatHandler.GetHistory)
			chats.POST("/:roomId/read", chatHandler.MarkRead)
			chats.POST("/:roomId/leave", chatHandler.LeaveRoom)
			chats.POST("/:roomId/report", chatHandler.ReportPartner)
			chats.POST("/:roomId/rating", chatHandler.RatePartner)
		}

		// Community routes
		posts := v1.Group("/posts")
		{
			posts.GET("", communityHandler.ListPosts)
			posts.GET("/:postId", communityHandler.GetPost)
			posts.POST("", authRequired, communityHandler.CreatePost)
			posts.DELETE("/:postId", authRequired, communityHandler.DeletePost)
			posts.POST("/:postId/comments", authRequired, communityHandler.CreateComment)
			posts.DELETE("/comments/:commentId", authRequired, communityHandler.DeleteComment)
		}

		// MBTI test routes
		tests := v1.Group("/mbti-test")
		tests.Use(authRequired)
		{
			tests.POST("", testHandler.StartTest)
			tests.GET("", testHandler.ResumeTest)
			tests.DELETE("", testHandler.AbandonTest)
			tests.POST("/:sessionId/answers", testHandler.SubmitAnswer)
		}

		// Tone converter (외부 LLM 호출이므로 별도 제한)
		v1.POST("/convert", authRequired, middleware.LLMRateLimit(), convertHandler.ConvertTone)

		// AI counselor routes
		consults := v1.Group("/consults")
		consults.Use(authRequired)
		{
			consults.POST("", middleware.LLMRateLimit(), consultHandler.StartSession)
			consults.POST("/:sessionId/messages", middleware.LLMRateLimit(), consultHandler.SendMessage)
			consults.GET("/:sessionId/messages", consultHandler.GetHistory)
		}
	}

	return router
}
