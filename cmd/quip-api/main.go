package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadapter "github.com/PabloGalante/quip-agent/internal/adapters/http"
	"github.com/PabloGalante/quip-agent/internal/adapters/llm"
	"github.com/PabloGalante/quip-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/quip-agent/internal/app/chat"
	"github.com/PabloGalante/quip-agent/internal/config"
	"github.com/PabloGalante/quip-agent/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	var (
		client        domain.CompletionClient
		clientFactory func(apiKey string) domain.CompletionClient
	)

	switch cfg.Provider {
	case config.ProviderMock:
		log.Println("[LLM] Using mock completion client")
		client = llm.NewMockLLM()

	case config.ProviderGemini:
		log.Println("[LLM] Using Gemini completion client")
		gem, err := llm.NewGeminiClient(ctx, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini client: %v", err)
		}
		client = gem

	default:
		log.Println("[LLM] Using OpenAI completion client")
		if cfg.OpenAIAPIKey == "" {
			log.Println("[LLM] OPENAI_API_KEY not set; sessions must carry their own key")
		}
		client = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)

		// Sessions created with their own key talk through a client
		// built for that key.
		clientFactory = func(apiKey string) domain.CompletionClient {
			return llm.NewOpenAIClient(apiKey, cfg.OpenAIBaseURL)
		}
	}

	log.Println("[STORE] Using in-memory storage")
	sessionStore := memory.NewSessionStore()
	messageStore := memory.NewMessageStore()

	opts := []chat.Option{
		chat.WithModel(cfg.ModelName),
		chat.WithMaxTokens(cfg.MaxTokens),
	}
	if clientFactory != nil {
		opts = append(opts, chat.WithClientFactory(clientFactory))
	}

	svc := chat.NewService(client, sessionStore, messageStore, opts...)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1MB"))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	e.Use(httpadapter.RequestID())

	httpadapter.NewHandler(svc).Register(e)

	addr := ":" + cfg.Port
	log.Println("Quip API listening on", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
