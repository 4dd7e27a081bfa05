package routes

import (
	"os"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/services"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

type DiscoverViralPostsInput struct {
	Topic    string `json:"topic" validate:"required,max=256"`
	Platform string `json:"platform" validate:"omitempty,oneof=linkedin twitter"`
	Limit    int    `json:"limit" validate:"omitempty,gte=1,lte=50"`
}

type scrapedPost struct {
	AuthorName   string `json:"authorName"`
	AuthorURL    string `json:"authorUrl"`
	Text         string `json:"text"`
	URL          string `json:"url"`
	LikeCount    int    `json:"likeCount"`
	CommentCount int    `json:"commentCount"`
	ShareCount   int    `json:"shareCount"`
}

// DiscoverViralPosts runs an Apify scrape for high-engagement posts on a
// topic and stores the results. The scrape is awaited inline (poll with
// ceiling), so the request returns with the stored posts or a timeout error.
func DiscoverViralPosts(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input DiscoverViralPostsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	platform := input.Platform
	if platform == "" {
		platform = "linkedin"
	}
	limit := input.Limit
	if limit == 0 {
		limit = 20
	}

	apify := services.NewApifyService()

	actorID := os.Getenv("APIFY_POSTS_ACTOR_ID")
	if actorID == "" {
		actorID = "curious_coder~linkedin-post-search-scraper"
	}

	run, err := apify.StartRun(actorID, map[string]interface{}{
		"searchQuery": input.Topic,
		"maxPosts":    limit,
	})
	if err == nil {
		run, err = apify.WaitForRun(run.ID)
	}

	var scraped []scrapedPost
	if err == nil {
		err = apify.GetDatasetItems(run.DefaultDatasetID, &scraped)
	}
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Error", err.Error(), ctx)
		return
	}

	stored := make([]models.ViralPost, 0, len(scraped))
	for _, sp := range scraped {
		viral := models.ViralPost{
			UserID:       claims.ID,
			Platform:     platform,
			AuthorName:   sp.AuthorName,
			AuthorURL:    sp.AuthorURL,
			Content:      sp.Text,
			PostURL:      sp.URL,
			LikeCount:    sp.LikeCount,
			CommentCount: sp.CommentCount,
			ShareCount:   sp.ShareCount,
			Topic:        input.Topic,
		}
		if err := storage.DB.Create(&viral).Error; err == nil {
			stored = append(stored, viral)
		}
	}

	ctx.JSON(iris.Map{"success": true, "posts": stored})
}

func ListViralPosts(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	query := storage.DB.Where("user_id = ?", claims.ID)
	if topic := ctx.URLParamDefault("topic", ""); topic != "" {
		query = query.Where("topic = ?", topic)
	}

	var posts []models.ViralPost
	if err := query.Order("like_count DESC").Limit(200).Find(&posts).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(posts)
}

func DeleteViralPost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	postID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(iris.StatusBadRequest)
		return
	}

	res := storage.DB.Where("id = ? AND user_id = ?", postID, claims.ID).Delete(&models.ViralPost{})
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}
