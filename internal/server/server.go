package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Bhaveshb1986/Image-Optimizer/internal/config"
	"github.com/Bhaveshb1986/Image-Optimizer/internal/handler"
	"github.com/Bhaveshb1986/Image-Optimizer/internal/repository"
	"github.com/Bhaveshb1986/Image-Optimizer/internal/service"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": handler.MsgUnexpected})
	}))
	router.Use(cors.Default())

	router.LoadHTMLGlob("web/templates/*")

	storage, err := repository.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	imageService := service.NewImageService(storage, cfg, log)

	h := handler.NewHandler(imageService, storage, cfg, log)

	router.GET("/", h.GetUI)
	router.GET("/favicon.ico", h.Favicon)
	router.GET("/health", h.HealthCheck)

	router.POST("/upload", h.UploadImage)
	router.GET("/uploads/:filename", h.ServeUpload)

	api := router.Group("/api")
	{
		api.GET("/images", h.ListImages)
	}

	router.Static("/static", "./web/static")

	server := &Server{
		httpServer: &http.Server{
			Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:        router,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("storage_backend", cfg.Storage.Backend))

	return server, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
