package routes

import (
	"crypto/subtle"
	"log"
	"os"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/services"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/kataras/iris/v12"
)

// TaskSecretMiddleware gates the scheduler-facing endpoints. The external
// cron caller authenticates with a shared secret instead of a user token.
func TaskSecretMiddleware(ctx iris.Context) {
	secret := os.Getenv("TASKS_SECRET")
	given := ctx.GetHeader("X-Task-Secret")
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(given)) != 1 {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid task secret.", ctx)
		return
	}
	ctx.Next()
}

// ProcessScheduledPosts sweeps due posts out to their platforms. Safe to
// invoke from overlapping cron ticks; each post is claimed before publishing.
func ProcessScheduledPosts(ctx iris.Context) {
	published, failed, err := services.ProcessScheduledPosts(services.DefaultPublishers())
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	log.Printf("⏰ Sweep finished: %d published, %d failed", published, failed)
	ctx.JSON(iris.Map{"success": true, "published": published, "failed": failed})
}

// RunOutreach advances every active campaign by one batch of sends.
func RunOutreach(ctx iris.Context) {
	var campaigns []models.Campaign
	if err := storage.DB.Where("status = ?", models.CampaignStatusActive).Find(&campaigns).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	runner := services.NewOutreachRunner()
	totalSent := 0
	for i := range campaigns {
		sent, err := runner.ProcessCampaign(&campaigns[i])
		if err != nil {
			log.Printf("❌ Outreach run for campaign %d: %v", campaigns[i].ID, err)
			continue
		}
		totalSent += sent
	}

	ctx.JSON(iris.Map{"success": true, "campaigns": len(campaigns), "sent": totalSent})
}
