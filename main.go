// @title           Sahi Daam API
// @version         1.0
// @description     सही दाम marketplace backend - supplier quoting, ranking and procurement exports.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	_ "backend/docs"
	"backend/handlers"
	"backend/repository"
	"backend/storage"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var cronRunning int32

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"https://sahidam.example.com",
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding", "X-XSRF-TOKEN",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

func main() {
	db := storage.InitDB()
	gormDB := storage.InitGormDB()

	marketplace := repository.NewMarketplaceRepository(gormDB)
	if err := marketplace.SeedDemoMarketplace(); err != nil {
		log.Printf("Warning: failed to seed demo marketplace: %v", err)
	}

	// Daily maintenance at 02:30: expire old sessions, restore demo fixtures.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err := c.AddFunc("30 2 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		log.Println("Starting daily maintenance cron job")
		if err := storage.CleanupExpiredSessions(db); err != nil {
			log.Printf("CleanupExpiredSessions failed: %v", err)
		}
		if err := marketplace.SeedDemoMarketplace(); err != nil {
			log.Printf("SeedDemoMarketplace failed: %v", err)
		}
		log.Println("Daily cron cycle completed")
	})
	if err != nil {
		log.Fatalf("Failed to schedule daily maintenance cron job: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	// ==================== 1. AUTH & LOGIN ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.POST("/api/validate-session", handlers.ValidateSession(db))
	r.POST("/api/logout-device", handlers.LogoutDeviceHandler(db))

	// ==================== 2. SUPPLIERS ====================
	r.POST("/api/suppliers", handlers.CreateSupplier(gormDB))
	r.GET("/api/suppliers", handlers.GetAllSuppliers(gormDB))
	r.GET("/api/suppliers/:id", handlers.GetSupplier(gormDB))
	r.PUT("/api/suppliers/:id", handlers.UpdateSupplier(gormDB))
	r.PUT("/api/suppliers/:id/verification", handlers.SetSupplierVerification(gormDB))
	r.PATCH("/api/suppliers/:id/discoverable", handlers.SetSupplierDiscoverability(gormDB))
	r.POST("/api/suppliers/:id/documents", handlers.AddSupplierDocument(gormDB))
	r.GET("/api/suppliers/:id/documents", handlers.GetSupplierDocuments(gormDB))
	r.GET("/api/suppliers/:id/qr", handlers.SupplierQRCodeJPEG(gormDB))

	// ==================== 3. MATERIALS ====================
	r.POST("/api/suppliers/:id/materials", handlers.CreateMaterial(gormDB))
	r.GET("/api/suppliers/:id/materials", handlers.GetSupplierMaterials(gormDB))
	r.PUT("/api/materials/:material_id", handlers.UpdateMaterial(gormDB))
	r.DELETE("/api/materials/:material_id", handlers.DeleteMaterial(gormDB))
	r.GET("/api/materials/search", handlers.SearchMaterials(marketplace))

	// ==================== 4. COMPARISON ====================
	r.POST("/api/compare", handlers.CompareSuppliers(marketplace))
	r.POST("/api/quote", handlers.QuoteSnapshot())

	// ==================== 5. EXPORT ====================
	r.POST("/api/export/comparison/csv", handlers.ExportComparisonCSV(marketplace))
	r.POST("/api/export/comparison/xlsx", handlers.ExportComparisonExcel(marketplace))
	r.POST("/api/export/comparison/pdf", handlers.ExportComparisonPDF(marketplace))

	// ==================== 6. DASHBOARD ====================
	r.GET("/api/dashboard/admin", handlers.AdminDashboard(db))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
