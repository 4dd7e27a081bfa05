package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/services"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
)

var supportedPlatforms = []string{"linkedin", "twitter"}

type CreatePostInput struct {
	Content       string          `json:"content" validate:"required"`
	Platforms     map[string]bool `json:"platforms"`
	ApproverID    *uint           `json:"approverID"`
	GhostwriterID *uint           `json:"ghostwriterID"`
	OwnerID       *uint           `json:"ownerID"` // set by a ghostwriter drafting on someone's behalf
}

// CreatePost creates a draft. A ghostwriter may draft for an approver-linked
// owner; otherwise the authenticated user owns the post.
func CreatePost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input CreatePostInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	platforms, platformsErr := marshalPlatforms(input.Platforms)
	if platformsErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", platformsErr.Error(), ctx)
		return
	}

	post := models.Post{
		UserID:        claims.ID,
		Content:       input.Content,
		Status:        models.PostStatusDraft,
		Platforms:     platforms,
		ApproverID:    input.ApproverID,
		GhostwriterID: input.GhostwriterID,
	}

	// Drafting on behalf of another user requires an active ghostwriter link
	if input.OwnerID != nil && *input.OwnerID != claims.ID {
		var link models.GhostwriterLink
		linkErr := storage.DB.
			Where("ghostwriter_id = ? AND approver_id = ? AND active = ?", claims.ID, *input.OwnerID, true).
			First(&link).Error
		if linkErr != nil {
			utils.CreateError(iris.StatusForbidden, "Permission Error", "No active ghostwriter link with that user.", ctx)
			return
		}
		post.UserID = *input.OwnerID
		ghostwriterID := claims.ID
		post.GhostwriterID = &ghostwriterID
	}

	if err := storage.DB.Create(&post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(post)
}

func GetPost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	post, ok := loadPostForActor(ctx, claims.ID)
	if !ok {
		return
	}

	ctx.JSON(post)
}

// GetUserPosts lists posts the user can see: ones they own, approve, or ghostwrite.
func GetUserPosts(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	status := ctx.URLParamDefault("status", "")
	archived := ctx.URLParamBoolDefault("archived", false)

	query := storage.DB.
		Preload("Approver").
		Preload("Ghostwriter").
		Where("(user_id = ? OR approver_id = ? OR ghostwriter_id = ?)", claims.ID, claims.ID, claims.ID).
		Where("archived = ?", archived)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var posts []models.Post
	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(posts)
}

type UpdatePostInput struct {
	Content       string          `json:"content"`
	Platforms     map[string]bool `json:"platforms"`
	ApproverID    *uint           `json:"approverID"`
	ScheduledTime *time.Time      `json:"scheduledTime"`
}

func UpdatePost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	post, ok := loadPostForActor(ctx, claims.ID)
	if !ok {
		return
	}

	if post.Status == models.PostStatusPublished || post.Status == models.PostStatusPublishing {
		utils.CreateError(iris.StatusBadRequest, "Status Error", "Published posts cannot be edited.", ctx)
		return
	}

	var input UpdatePostInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Content != "" {
		post.Content = input.Content
	}
	if input.Platforms != nil {
		platforms, platformsErr := marshalPlatforms(input.Platforms)
		if platformsErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", platformsErr.Error(), ctx)
			return
		}
		post.Platforms = platforms
	}
	if input.ApproverID != nil {
		post.ApproverID = input.ApproverID
	}
	if input.ScheduledTime != nil {
		post.ScheduledTime = input.ScheduledTime
	}
	if next := statusAfterEdit(post.Status, input.ScheduledTime != nil); next != post.Status {
		post.Status = next
		post.ErrorMessage = ""
	}
	now := time.Now()
	post.EditedAt = &now

	if err := storage.DB.Save(post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(post)
}

func DeletePost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	post, ok := loadPostForActor(ctx, claims.ID)
	if !ok {
		return
	}

	if err := storage.DB.Delete(post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

// SubmitForApproval moves a draft to pending_approval and notifies the approver.
func SubmitForApproval(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	post, ok := loadPostForActor(ctx, claims.ID)
	if !ok {
		return
	}

	if post.Status != models.PostStatusDraft {
		utils.CreateError(iris.StatusBadRequest, "Status Error", "Only drafts can be submitted for approval.", ctx)
		return
	}
	if post.ApproverID == nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Post has no approver assigned.", ctx)
		return
	}

	post.Status = models.PostStatusPendingApproval
	if err := storage.DB.Save(post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	notificationService := services.NewNotificationService()
	go notificationService.Notify(*post.ApproverID, "Post awaiting review",
		"A post was submitted for your approval.", "approval_request", post.ID, "post")

	ctx.JSON(post)
}

type ApprovePostInput struct {
	ScheduledTime time.Time `json:"scheduledTime" validate:"required"`
}

// ApprovePost moves pending_approval to scheduled, recording the scheduled
// time. A time in the past is accepted and publishes on the next sweep.
func ApprovePost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	post, ok := loadPostForActor(ctx, claims.ID)
	if !ok {
		return
	}

	if post.ApproverID == nil || *post.ApproverID != claims.ID {
		utils.CreateError(iris.StatusForbidden, "Permission Error", "Only the assigned approver can approve this post.", ctx)
		return
	}
	if post.Status != models.PostStatusPendingApproval {
		utils.CreateError(iris.StatusBadRequest, "Status Error", "Only posts pending approval can be scheduled.", ctx)
		return
	}

	var input ApprovePostInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	post.Status = models.PostStatusScheduled
	post.ScheduledTime = &input.ScheduledTime
	if err := storage.DB.Save(post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	notificationService := services.NewNotificationService()
	go notificationService.Notify(post.UserID, "Post approved",
		fmt.Sprintf("Your post was approved and scheduled for %s.", input.ScheduledTime.Format("Jan 2, 2006 15:04")),
		"post_approved", post.ID, "post")

	ctx.JSON(post)
}

type RejectPostInput struct {
	Reason string `json:"reason"`
}

func RejectPost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	post, ok := loadPostForActor(ctx, claims.ID)
	if !ok {
		return
	}

	if post.ApproverID == nil || *post.ApproverID != claims.ID {
		utils.CreateError(iris.StatusForbidden, "Permission Error", "Only the assigned approver can reject this post.", ctx)
		return
	}
	if post.Status != models.PostStatusPendingApproval {
		utils.CreateError(iris.StatusBadRequest, "Status Error", "Only posts pending approval can be rejected.", ctx)
		return
	}

	var input RejectPostInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	post.Status = models.PostStatusRejected
	post.ErrorMessage = input.Reason
	if err := storage.DB.Save(post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	notificationService := services.NewNotificationService()
	go notificationService.Notify(post.UserID, "Post rejected", input.Reason, "post_rejected", post.ID, "post")

	ctx.JSON(post)
}

// ArchivePost soft-archives any non-published post; reversible via UnarchivePost.
func ArchivePost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	post, ok := loadPostForActor(ctx, claims.ID)
	if !ok {
		return
	}

	if post.Status == models.PostStatusPublishing {
		utils.CreateError(iris.StatusBadRequest, "Status Error", "Post is being published right now.", ctx)
		return
	}

	post.Archived = true
	post.Status = models.PostStatusArchived
	if err := storage.DB.Save(post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(post)
}

func UnarchivePost(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	post, ok := loadPostForActor(ctx, claims.ID)
	if !ok {
		return
	}

	if !post.Archived {
		utils.CreateError(iris.StatusBadRequest, "Status Error", "Post is not archived.", ctx)
		return
	}

	post.Archived = false
	post.Status = models.PostStatusDraft
	if err := storage.DB.Save(post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(post)
}

// loadPostForActor fetches the post and enforces the permission invariant:
// the acting identity must be the owner, approver, or ghostwriter. Writes the
// error response itself when the check fails.
func loadPostForActor(ctx iris.Context, actorID uint) (*models.Post, bool) {
	postID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return nil, false
	}

	var post models.Post
	if err := storage.DB.First(&post, postID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}

	if !post.CanBeActedOnBy(actorID) {
		utils.CreateForbidden(ctx)
		return nil, false
	}

	return &post, true
}

// statusAfterEdit lets an edit that sets a new schedule time pull a failed
// post back into the sweep's scope. Every other status is left alone.
func statusAfterEdit(current string, rescheduled bool) string {
	if current == models.PostStatusFailed && rescheduled {
		return models.PostStatusScheduled
	}
	return current
}

func marshalPlatforms(platforms map[string]bool) (datatypes.JSON, error) {
	if platforms == nil {
		platforms = map[string]bool{}
	}
	for name := range platforms {
		if !slices.Contains(supportedPlatforms, name) {
			return nil, fmt.Errorf("unsupported platform %q", name)
		}
	}
	data, err := json.Marshal(platforms)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
