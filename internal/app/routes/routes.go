package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mertdogan/internhub/internal/app/controllers"
	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	personController *controllers.PersonController,
	companyController *controllers.CompanyController,
	siteController *controllers.SiteController,
	internshipController *controllers.InternshipController,
	favouriteController *controllers.FavouriteController,
	trackingController *controllers.TrackingController,
	lookupController *controllers.LookupController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/company/register", authController.RegisterCompany)
		auth.POST("/company/login", authController.LoginCompany)
		auth.GET("/company/verify-email", authController.VerifyCompanyEmail)
	}

	// --- Public browse routes ---
	v1.GET("/internships", internshipController.GetAllInternships)
	v1.GET("/internships/:id", internshipController.GetInternshipByID)
	v1.GET("/companies", companyController.GetAllCompanies)
	v1.GET("/companies/:id", companyController.GetCompanyByID)
	v1.GET("/companies/:id/sites", siteController.GetCompanySites)
	v1.GET("/sites/:id", siteController.GetSiteByID)
	v1.GET("/worktypes", lookupController.GetWorktypes)
	v1.GET("/durations", lookupController.GetDurations)
	v1.GET("/departments", lookupController.GetDepartments)
	v1.GET("/cities", lookupController.GetCities)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Any authenticated subject may log itself out
		authenticated.POST("/auth/logout", authController.Logout)

		// Student routes
		students := authenticated.Group("")
		students.Use(authMiddleware.RoleRequired(models.PersonTypeStudent))
		{
			students.PUT("/favourites", favouriteController.CreateFavourite)
			students.DELETE("/favourites", favouriteController.DeleteFavourite)
			students.GET("/students/:id/favourites", favouriteController.GetStudentFavourites)
			students.PUT("/tracking/viewed", trackingController.TrackViewed)
			students.PUT("/tracking/clicked", trackingController.TrackClicked)
			students.GET("/students/:id/viewed", trackingController.GetStudentViewed)
		}

		// Company routes
		companies := authenticated.Group("")
		companies.Use(authMiddleware.CompanyRequired())
		{
			companies.PUT("/companies/:id", companyController.UpdateCompany)
			companies.POST("/companies/:id/logo", companyController.UploadLogo)
			companies.POST("/sites", siteController.CreateSite)
			companies.PUT("/sites/:id", siteController.UpdateSite)
			companies.DELETE("/sites/:id", siteController.DeleteSite)
			companies.POST("/internships", internshipController.CreateInternship)
			companies.PUT("/internships/:id", internshipController.UpdateInternship)
			companies.DELETE("/internships/:id", internshipController.DeleteInternship)
			companies.POST("/internships/:id/document", internshipController.UploadDocument)
			companies.GET("/internships/:id/clicked-count", internshipController.GetClickedCount)
		}

		// Admin routes
		admins := authenticated.Group("")
		admins.Use(authMiddleware.RoleRequired(models.PersonTypeAdmin))
		{
			admins.GET("/persons", personController.GetAllPersons)
			admins.GET("/persons/:id", personController.GetPersonByID)
			admins.DELETE("/persons/:id", personController.DeletePerson)
			admins.POST("/companies/:id/verify", companyController.VerifyCompany)
			admins.DELETE("/companies/:id", companyController.DeleteCompany)
			admins.POST("/departments", lookupController.CreateDepartment)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", healthController.Health)

	// Swagger routes are set up in bootstrap
}
