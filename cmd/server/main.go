// Copyright 2025 Moodcue Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/moodcue/go-mood-movie-search/internal/core/model"
	"github.com/moodcue/go-mood-movie-search/internal/core/services"
	"github.com/moodcue/go-mood-movie-search/internal/telemetry"
)

// UserIDHeader identifies the requesting user for quota accounting.
const UserIDHeader = "X-User-Id"

// anonymousUserID is the shared quota identity for callers that do not send
// a parseable user header.
var anonymousUserID = uuid.Nil

func main() {
	// Local secrets (like the TMDB bearer token) come from a .env file when
	// present; deployed environments set real environment variables.
	_ = godotenv.Load()

	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()

	// Add OpenTelemetry middleware
	r.Use(otelgin.Middleware("mood-movie-server"))

	// Permissive CORS: the browser frontend is served from a different
	// origin and every endpoint here is already guarded by quota and input
	// validation.
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		GenerationRouter(apiV1)
	}

	port := config.Application.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	// Start the server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready", "port", port)

	// Wait for an interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}

// quoteRequest is the body of the quote generation endpoint.
type quoteRequest struct {
	Emotion string `json:"emotion"`
}

// GenerationRouter sets up the quote, recommendation, and usage routes.
func GenerationRouter(r *gin.RouterGroup) {
	r.POST("/generate_quotes", func(c *gin.Context) {
		var req quoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		quotes, err := state.quoteService.GenerateQuotes(c.Request.Context(), req.Emotion)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidInput):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				slog.ErrorContext(c.Request.Context(), "quote generation failed", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "quote generation failed"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"quotes": quotes})
	})

	r.POST("/generate_movies", func(c *gin.Context) {
		userID := userIdentity(c)

		var req model.RecommendationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		// Pre-check the quota. Concurrent requests can race past this check;
		// the post-generation increment below is the value of record.
		usage, err := state.cloud.QuotaGate.Check(c.Request.Context(), userID, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "quota check failed"})
			return
		}
		if usage.LimitReached {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": services.ErrQuotaExceeded.Error(), "usage": usage})
			return
		}

		result, err := state.recommendationService.Recommend(c.Request.Context(), &req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidInput):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				slog.ErrorContext(c.Request.Context(), "recommendation failed", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "recommendation failed"})
			}
			return
		}

		// Only a completed generation spends quota.
		usage, err = state.cloud.QuotaGate.Increment(c.Request.Context(), userID, time.Now())
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "quota increment failed", "error", err)
		}
		c.JSON(http.StatusOK, gin.H{"movies": result.Movies, "usage": usage})
	})

	r.GET("/usage", func(c *gin.Context) {
		userID := userIdentity(c)
		usage, err := state.cloud.QuotaGate.Check(c.Request.Context(), userID, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "quota check failed"})
			return
		}
		c.JSON(http.StatusOK, usage)
	})
}

// userIdentity resolves the caller's quota identity from the user header.
// A missing or malformed header maps to the shared anonymous identity so the
// endpoints stay usable without client-side identity plumbing.
func userIdentity(c *gin.Context) uuid.UUID {
	raw := c.GetHeader(UserIDHeader)
	if raw == "" {
		return anonymousUserID
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "unparseable user header, using anonymous identity", "header", UserIDHeader)
		return anonymousUserID
	}
	return userID
}
