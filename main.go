package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/3marnadates-alt/3marna.art/modules/admin"
	"github.com/3marnadates-alt/3marna.art/modules/api"
	"github.com/3marnadates-alt/3marna.art/modules/assistant"
	"github.com/3marnadates-alt/3marna.art/modules/cart"
	"github.com/3marnadates-alt/3marna.art/modules/catalog"
	"github.com/3marnadates-alt/3marna.art/modules/checkout"
	"github.com/3marnadates-alt/3marna.art/modules/consent"
	"github.com/3marnadates-alt/3marna.art/modules/contact"
	"github.com/3marnadates-alt/3marna.art/modules/formrelay"
	"github.com/3marnadates-alt/3marna.art/modules/kvstore"
	"github.com/3marnadates-alt/3marna.art/modules/orders"
	"github.com/3marnadates-alt/3marna.art/modules/ratelimit"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== 3marna Dates Storefront ===")

	// Configuration from environment
	httpPort := getEnvInt("HTTP_PORT", 3000)
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	kvPrefix := getEnv("KV_PREFIX", "storefront:")
	ordersDBPath := getEnv("ORDERS_DB_PATH", "orders.db")
	relayURL := getEnv("FORM_RELAY_URL", formrelay.DefaultEndpoint)
	relayTimeout := getEnvDuration("FORM_RELAY_TIMEOUT", 15*time.Second)
	geminiKey := getEnv("GEMINI_API_KEY", "")
	geminiModel := getEnv("GEMINI_MODEL", assistant.DefaultModel)
	adminPassword := getEnv("ADMIN_PASSWORD", admin.DefaultPassword)
	adminPasswordHash := getEnv("ADMIN_PASSWORD_HASH", "")
	jwtSecret := getEnv("JWT_SECRET", "")
	jwtTTL := getEnvDuration("JWT_TTL", time.Hour)
	cartTTL := getEnvDuration("CART_TTL", 24*time.Hour)
	rateLimit := ratelimit.Config{
		RequestsPerWindow: getEnvInt("RATE_LIMIT_REQUESTS", 10),
		WindowSize:        getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
	shutdownTimeout := getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)

	logLevel := mono.LogLevelInfo
	if getEnv("LOG_LEVEL", "info") == "error" {
		logLevel = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	// Plugins start before and stop after regular modules.
	kvPlugin := kvstore.NewPluginModule(redisAddr, kvPrefix, logger)
	if err := app.RegisterPlugin(kvPlugin, "kvstore"); err != nil {
		log.Fatalf("Failed to register kvstore plugin: %v", err)
	}

	relay := formrelay.NewClient(formrelay.Config{
		Endpoint: relayURL,
		Timeout:  relayTimeout,
	}, logger)

	catalogModule := catalog.NewModule(logger)

	cartModule := cart.NewModule(cartTTL, logger)
	cartModule.SetCatalogModule(catalogModule)

	checkoutModule := checkout.NewModule(relay, logger)
	checkoutModule.SetCatalogModule(catalogModule)
	checkoutModule.SetCartModule(cartModule)

	contactModule := contact.NewModule(relay, logger)

	assistantModule := assistant.NewModule(assistant.Config{
		APIKey: geminiKey,
		Model:  geminiModel,
	}, logger)
	assistantModule.SetCatalogModule(catalogModule)

	consentModule := consent.NewModule(consent.DefaultTTL, logger)

	adminModule := admin.NewModule(admin.Config{
		PasswordHash: adminPasswordHash,
		Password:     adminPassword,
		JWTSecret:    jwtSecret,
		TokenTTL:     jwtTTL,
	}, logger)

	ordersModule := orders.NewModule(ordersDBPath, logger)

	rateLimitModule := ratelimit.NewModule(redisAddr, kvPrefix+"ratelimit:", logger)

	apiModule := api.NewModule(api.Config{
		Port:      httpPort,
		RateLimit: rateLimit,
	}, logger)
	apiModule.SetCatalogModule(catalogModule)
	apiModule.SetCartModule(cartModule)
	apiModule.SetCheckoutModule(checkoutModule)
	apiModule.SetContactModule(contactModule)
	apiModule.SetAssistantModule(assistantModule)
	apiModule.SetConsentModule(consentModule)
	apiModule.SetOrdersModule(ordersModule)
	apiModule.SetRateLimitModule(rateLimitModule)

	// Order: independent modules first, then modules with dependencies
	app.Register(catalogModule)
	app.Register(cartModule)
	app.Register(checkoutModule)
	app.Register(contactModule)
	app.Register(assistantModule)
	app.Register(consentModule)
	app.Register(adminModule)
	app.Register(ordersModule)
	app.Register(rateLimitModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(httpPort)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	base := "http://localhost:" + strconv.Itoa(port)
	log.Println("")
	log.Println("Storefront started successfully!")
	log.Println("")
	log.Println("Storefront:")
	log.Println("  GET    " + base + "/api/v1/products")
	log.Println("  GET    " + base + "/api/v1/settings")
	log.Println("  GET    " + base + "/api/v1/localities")
	log.Println("  GET    " + base + "/api/v1/cart")
	log.Println("  POST   " + base + "/api/v1/cart/items")
	log.Println("  POST   " + base + "/api/v1/checkout/quote")
	log.Println("  POST   " + base + "/api/v1/checkout")
	log.Println("  POST   " + base + "/api/v1/contact")
	log.Println("  POST   " + base + "/api/v1/assistant/recipe")
	log.Println("  POST   " + base + "/api/v1/assistant/chat")
	log.Println("  WS     ws://localhost:" + strconv.Itoa(port) + "/ws/chat")
	log.Println("")
	log.Println("Admin:")
	log.Println("  POST   " + base + "/api/v1/admin/login")
	log.Println("  PUT    " + base + "/api/v1/admin/settings")
	log.Println("  GET    " + base + "/api/v1/admin/orders")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as a duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
