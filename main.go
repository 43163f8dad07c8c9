// @title           EITrack API
// @version         1.0
// @description     Electrical installation progress tracking - completion rollups, tender hours and site reporting.

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
	"backend/storage"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
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
		"https://eitrack.blueinvent.com",
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
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
	gdb := storage.InitGormDB()

	// Nightly maintenance at 02:30: expired sessions are the only thing that
	// accumulates, so the job stays small.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err := c.AddFunc("30 2 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		if err := storage.CleanupExpiredSessions(db); err != nil {
			log.Printf("Session cleanup failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule session cleanup cron job: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	// ==================== 1. AUTH & LOGIN ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/logout", handlers.LogoutHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.POST("/api/validate-session", handlers.ValidateSession(db))

	// ==================== 2. PROJECTS & REVISIONS ====================
	r.POST("/api/projects", handlers.CreateProject(gdb))
	r.GET("/api/projects", handlers.GetProjects(gdb))
	r.GET("/api/projects/:job_no", handlers.GetProject(gdb))
	r.PUT("/api/projects/:job_no", handlers.UpdateProject(gdb))
	r.GET("/api/revisions/:job_no", handlers.GetRevisions(gdb))

	// ==================== 3. COMPONENTS & CODES ====================
	r.POST("/api/components/:job_no", handlers.CreateComponent(db))
	r.GET("/api/components/:job_no", handlers.GetComponents(db))
	r.PUT("/api/components/:job_no/:id", handlers.UpdateComponent(db))
	r.DELETE("/api/components/:job_no/:id", handlers.DeleteComponent(db))
	r.POST("/api/codes/:job_no", handlers.CreateCode(db))
	r.GET("/api/codes/:job_no", handlers.GetCodes(db))

	// ==================== 4. TEMPLATES ====================
	r.POST("/api/templates/:job_no", handlers.CreateTemplateHandler(db))
	r.GET("/api/templates/:job_no", handlers.GetAllTemplatesHandler(db))
	r.GET("/api/templates/:job_no/:temp_name", handlers.GetTemplateHandler(db))
	r.DELETE("/api/templates/:job_no/:temp_name", handlers.DeleteTemplateHandler(db))

	// ==================== 5. EQUIPMENT ====================
	r.POST("/api/equipment/:job_no", handlers.CreateEquipment(db))
	r.GET("/api/equipment/:job_no/:ref", handlers.GetEquipment(db))
	r.PUT("/api/equipment/:job_no/:ref", handlers.UpdateEquipment(db))
	r.PUT("/api/equipment/:job_no/:ref/template", handlers.ChangeEquipmentTemplate(db))
	r.DELETE("/api/equipment/:job_no/:ref", handlers.DeleteEquipment(db))

	// ==================== 6. CABLES ====================
	r.POST("/api/cables/:job_no", handlers.CreateCable(db))
	r.GET("/api/cables/:job_no", handlers.GetCables(db))
	r.PUT("/api/cables/:job_no/:cab_num", handlers.UpdateCable(db))
	r.DELETE("/api/cables/:job_no/:cab_num", handlers.DeleteCable(db))
	r.POST("/api/cables/:job_no/:cab_num/subcon", handlers.ToggleCableSubContractor(db))
	r.GET("/api/cables/:job_no/:cab_num/qr", handlers.GetCableQRLabel(db))

	// ==================== 7. COMPLETION ====================
	r.PUT("/api/completion/:job_no/equip/:id", handlers.UpdateEquipCompletion(db))
	r.PUT("/api/completion/:job_no/cable/:cab_num", handlers.UpdateCableCompletion(db))
	r.POST("/api/completion/:job_no/bulk", handlers.BulkUpdateCompletion(db))
	r.POST("/api/completion/:job_no/by_code", handlers.UpdateCompletionByCode(db))

	// ==================== 8. ROLLUPS & VIEWS ====================
	r.GET("/api/main_table/:job_no", handlers.GetMainTable(db))
	r.GET("/api/tender_hours/:job_no", handlers.GetTenderHours(db))
	r.GET("/api/view/section/:job_no", handlers.GetSectionView(db))
	r.GET("/api/view/area/:job_no", handlers.GetAreaView(db))
	r.GET("/api/view/area_component/:job_no", handlers.GetAreaComponentView(db))
	r.GET("/api/view/area_section_component/:job_no", handlers.GetAreaSectionComponentView(db))

	// ==================== 9. SUMMARY & DASHBOARD ====================
	r.GET("/api/summary/:job_no", handlers.GetJobSummary(db))
	r.GET("/api/dashboard/:job_no", handlers.GetDashboard(db))

	// ==================== 10. EXPORTS ====================
	r.GET("/api/export/main_table/:job_no", handlers.ExportMainTableExcel(db))
	r.GET("/api/export/components/:job_no", handlers.ExportComponentsCSV(db))
	r.GET("/api/export/summary_pdf/:job_no", handlers.GenerateJobPDFSummary(db))

	// ==================== SWAGGER ====================
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

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
