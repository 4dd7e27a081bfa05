package routes

import (
	"time"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type CreateLinkInput struct {
	GhostwriterID uint `json:"ghostwriterID" validate:"required"`
	ApproverID    uint `json:"approverID" validate:"required"`
}

// What CreateLink does with the row a pair already has.
const (
	linkCreateNew = iota
	linkReactivate
	linkConflict
)

// linkCreateAction decides what creating a link does given the existing row
// for the pair (nil when none exists). A pair never ends up with more than
// one row.
func linkCreateAction(existing *models.GhostwriterLink) int {
	if existing == nil {
		return linkCreateNew
	}
	if existing.Active {
		return linkConflict
	}
	return linkReactivate
}

// reactivateLink clears the revocation on the pair's existing row.
func reactivateLink(link *models.GhostwriterLink) {
	link.Active = true
	link.RevokedAt = nil
}

// CreateLink establishes a ghostwriter-approver relationship. Re-creating a
// revoked pair reactivates the existing row instead of duplicating it;
// re-creating an active pair is a conflict.
func CreateLink(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input CreateLinkInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.GhostwriterID == input.ApproverID {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "A user cannot be their own approver.", ctx)
		return
	}

	// The requester must be one side of the link
	if claims.ID != input.GhostwriterID && claims.ID != input.ApproverID {
		utils.CreateForbidden(ctx)
		return
	}

	// Both users must exist
	var count int64
	storage.DB.Model(&models.User{}).Where("id IN ?", []uint{input.GhostwriterID, input.ApproverID}).Count(&count)
	if count != 2 {
		utils.CreateNotFound(ctx)
		return
	}

	var link models.GhostwriterLink
	findErr := storage.DB.
		Where("ghostwriter_id = ? AND approver_id = ?", input.GhostwriterID, input.ApproverID).
		First(&link).Error

	if findErr == nil {
		switch linkCreateAction(&link) {
		case linkConflict:
			utils.CreateError(iris.StatusConflict, "Conflict", "Link already exists.", ctx)
			return
		case linkReactivate:
			reactivateLink(&link)
			if err := storage.DB.Save(&link).Error; err != nil {
				utils.CreateInternalServerError(ctx)
				return
			}
			ctx.JSON(link)
			return
		}
	}
	if findErr != gorm.ErrRecordNotFound {
		utils.CreateInternalServerError(ctx)
		return
	}

	link = models.GhostwriterLink{
		GhostwriterID: input.GhostwriterID,
		ApproverID:    input.ApproverID,
		Active:        true,
	}
	if err := storage.DB.Create(&link).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(link)
}

// ListLinks returns the user's links from both sides of the relationship.
func ListLinks(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	includeRevoked := ctx.URLParamBoolDefault("include_revoked", false)

	query := storage.DB.
		Preload("Ghostwriter").
		Preload("Approver").
		Where("ghostwriter_id = ? OR approver_id = ?", claims.ID, claims.ID)
	if !includeRevoked {
		query = query.Where("active = ?", true)
	}

	var links []models.GhostwriterLink
	if err := query.Order("created_at DESC").Find(&links).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(links)
}

// RevokeLink soft-revokes a link. The row is kept for the audit trail and can
// be reactivated later by CreateLink.
func RevokeLink(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	linkID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(iris.StatusBadRequest)
		return
	}

	var link models.GhostwriterLink
	if err := storage.DB.First(&link, linkID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if claims.ID != link.GhostwriterID && claims.ID != link.ApproverID {
		utils.CreateForbidden(ctx)
		return
	}

	if !link.Active {
		utils.CreateError(iris.StatusBadRequest, "Status Error", "Link is already revoked.", ctx)
		return
	}

	now := time.Now()
	link.Active = false
	link.RevokedAt = &now
	if err := storage.DB.Save(&link).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(link)
}
