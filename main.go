package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sray91/scriib-app-sub003/routes"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint - CRITICAL for Render
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/clerk", routes.ClerkLoginOrSignUp)
		user.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUser)
		user.Patch("/{id}/profile", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserProfile)
		user.Post("/phone/code", accessTokenVerifierMiddleware, routes.SendPhoneCode)
		user.Post("/phone/verify", accessTokenVerifierMiddleware, routes.VerifyPhoneCode)
		user.Get("/notifications", accessTokenVerifierMiddleware, routes.ListNotifications)
		user.Patch("/notifications/{id:uint}/read", accessTokenVerifierMiddleware, routes.MarkNotificationRead)
	}

	posts := app.Party("/api/posts", accessTokenVerifierMiddleware)
	{
		posts.Post("/", routes.CreatePost)
		posts.Get("/", routes.GetUserPosts)
		posts.Get("/{id:uint}", routes.GetPost)
		posts.Patch("/{id:uint}", routes.UpdatePost)
		posts.Delete("/{id:uint}", routes.DeletePost)
		posts.Post("/{id:uint}/submit", routes.SubmitForApproval)
		posts.Post("/{id:uint}/approve", routes.ApprovePost)
		posts.Post("/{id:uint}/reject", routes.RejectPost)
		posts.Post("/{id:uint}/archive", routes.ArchivePost)
		posts.Post("/{id:uint}/unarchive", routes.UnarchivePost)
	}

	ghostwriters := app.Party("/api/ghostwriters", accessTokenVerifierMiddleware)
	{
		ghostwriters.Post("/links", routes.CreateLink)
		ghostwriters.Get("/links", routes.ListLinks)
		ghostwriters.Delete("/links/{id:uint}", routes.RevokeLink)
	}

	campaigns := app.Party("/api/campaigns", accessTokenVerifierMiddleware)
	{
		campaigns.Post("/", routes.CreateCampaign)
		campaigns.Get("/", routes.ListCampaigns)
		campaigns.Get("/{id:uint}", routes.GetCampaign)
		campaigns.Patch("/{id:uint}", routes.UpdateCampaign)
		campaigns.Post("/{id:uint}/start", routes.StartCampaign)
		campaigns.Post("/{id:uint}/pause", routes.PauseCampaign)
		campaigns.Post("/{id:uint}/stop", routes.StopCampaign)
		campaigns.Post("/{id:uint}/contacts", routes.AddCampaignContacts)
		campaigns.Get("/{id:uint}/contacts", routes.ListCampaignContacts)
		campaigns.Patch("/{id:uint}/contacts/{contactID:uint}/status", routes.UpdateCampaignContactStatus)
		campaigns.Post("/{id:uint}/recompute", routes.RecomputeCampaignStats)
		campaigns.Get("/{id:uint}/activity", routes.ListCampaignActivity)
	}

	contacts := app.Party("/api/contacts", accessTokenVerifierMiddleware)
	{
		contacts.Post("/", routes.CreateContact)
		contacts.Get("/", routes.ListContacts)
		contacts.Get("/{id:uint}", routes.GetContact)
		contacts.Patch("/{id:uint}", routes.UpdateContact)
		contacts.Delete("/{id:uint}", routes.DeleteContact)
		contacts.Post("/{id:uint}/notes", routes.CreateContactNote)
		contacts.Post("/{id:uint}/enrich", routes.EnrichContact)
	}

	viral := app.Party("/api/viral", accessTokenVerifierMiddleware)
	{
		viral.Post("/discover", routes.DiscoverViralPosts)
		viral.Get("/", routes.ListViralPosts)
		viral.Delete("/{id:uint}", routes.DeleteViralPost)
	}

	accounts := app.Party("/api/accounts", accessTokenVerifierMiddleware)
	{
		accounts.Get("/", routes.ListSocialAccounts)
		accounts.Post("/linkedin", routes.ConnectLinkedIn)
		accounts.Post("/twitter", routes.ConnectTwitter)
		accounts.Delete("/{id:uint}", routes.DisconnectAccount)
		accounts.Get("/unipile", routes.ListUnipileAccounts)
	}

	ai := app.Party("/api/ai", accessTokenVerifierMiddleware)
	{
		ai.Post("/generate", routes.GenerateContent)
		ai.Post("/personalize", routes.PersonalizeMessage)
		ai.Post("/transcribe", routes.TranscribeAudio)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, routes.AdminChangeUserRole)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/audit", utils.SuperAdminOnlyMiddleware, routes.AdminListAuditLog)
	}

	tasks := app.Party("/api/tasks", routes.TaskSecretMiddleware)
	{
		tasks.Post("/process-scheduled", routes.ProcessScheduledPosts)
		tasks.Post("/run-outreach", routes.RunOutreach)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
