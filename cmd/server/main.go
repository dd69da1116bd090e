// @title           Flash Designer API
// @version         1.0.0
// @description     Backend API for the Flash Designer workflow: brands (marca) request design projects, admins assign designers, designers move projects through the status pipeline, and files are attached via Supabase Storage.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a Supabase JWT.

package main

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"flash-designer-backend/docs"
	"flash-designer-backend/internal/config"
	"flash-designer-backend/internal/database"
	"flash-designer-backend/internal/handlers"
	"flash-designer-backend/internal/middleware"
	"flash-designer-backend/internal/policy"
	"flash-designer-backend/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required; set it to your Supabase PostgreSQL connection string")
	}

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	authClient := supabase.NewAuthClient(supabaseClient)

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	defer migrator.Close()
	if err := migrator.Run(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully")

	authHandler := handlers.NewAuthHandler(authClient, dbClient)
	projectsHandler := handlers.NewProjectsHandler(dbClient, cfg)
	filesHandler := handlers.NewFilesHandler(storageClient)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	authed := middleware.AuthMiddleware(cfg)
	anyKnownRole := middleware.RequireAnyRole(policy.RoleAdmin, policy.RoleMarca, policy.RoleDisenador)

	// Auth
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signout", authed, authHandler.SignOut)
	auth.GET("/me", authed, authHandler.Me)
	auth.PATCH("/role", authed, authHandler.UpdateRole)
	auth.GET("/designers", authed, middleware.RequireRole(policy.RoleAdmin), authHandler.ListDesigners)

	// Projects
	projects := api.Group("/projects")
	projects.Use(authed)
	projects.GET("", anyKnownRole, projectsHandler.ListProjects)
	projects.POST("", middleware.RequireRole(policy.RoleMarca), projectsHandler.CreateProject)
	projects.GET("/:project_id", anyKnownRole, projectsHandler.GetProject)
	projects.PATCH("/:project_id", middleware.RequireAnyRole(policy.RoleMarca, policy.RoleAdmin), projectsHandler.UpdateProject)
	projects.DELETE("/:project_id", middleware.RequireAnyRole(policy.RoleMarca, policy.RoleAdmin), projectsHandler.DeleteProject)
	projects.PATCH("/:project_id/assign", middleware.RequireRole(policy.RoleAdmin), projectsHandler.AssignDesigner)
	projects.PATCH("/:project_id/status", middleware.RequireAnyRole(policy.RoleAdmin, policy.RoleDisenador), projectsHandler.UpdateStatus)
	projects.GET("/:project_id/files", anyKnownRole, projectsHandler.GetProjectFiles)

	// Files
	api.POST("/files", authed, filesHandler.UploadFiles)
	api.DELETE("/files", authed, filesHandler.DeleteFiles)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
