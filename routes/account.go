package routes

import (
	"time"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/services"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm/clause"
)

func ListSocialAccounts(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var accounts []models.SocialAccount
	if err := storage.DB.Where("user_id = ?", claims.ID).Find(&accounts).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(accounts)
}

type ConnectLinkedInInput struct {
	Code        string `json:"code" validate:"required"`
	RedirectURI string `json:"redirectURI" validate:"required"`
}

// ConnectLinkedIn exchanges the OAuth code and upserts the stored credential
// for the user's LinkedIn publishing account.
func ConnectLinkedIn(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input ConnectLinkedInInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	linkedin := services.NewLinkedInService()
	token, tokenErr := linkedin.ExchangeCode(input.Code, input.RedirectURI)
	if tokenErr != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Error", tokenErr.Error(), ctx)
		return
	}

	memberID, name, profileErr := linkedin.GetProfile(token.AccessToken)
	if profileErr != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Error", profileErr.Error(), ctx)
		return
	}

	expiresAt := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	account := models.SocialAccount{
		UserID:       claims.ID,
		Platform:     "linkedin",
		AccountID:    memberID,
		ScreenName:   name,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    &expiresAt,
		Active:       true,
	}

	if err := upsertSocialAccount(&account); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(account)
}

type ConnectTwitterInput struct {
	Code         string `json:"code" validate:"required"`
	RedirectURI  string `json:"redirectURI" validate:"required"`
	CodeVerifier string `json:"codeVerifier" validate:"required"`
}

func ConnectTwitter(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input ConnectTwitterInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	twitter := services.NewTwitterService()
	token, tokenErr := twitter.ExchangeCode(input.Code, input.RedirectURI, input.CodeVerifier)
	if tokenErr != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Error", tokenErr.Error(), ctx)
		return
	}

	userID, username, profileErr := twitter.GetProfile(token.AccessToken)
	if profileErr != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Error", profileErr.Error(), ctx)
		return
	}

	expiresAt := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	account := models.SocialAccount{
		UserID:       claims.ID,
		Platform:     "twitter",
		AccountID:    userID,
		ScreenName:   username,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    &expiresAt,
		Active:       true,
	}

	if err := upsertSocialAccount(&account); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(account)
}

// DisconnectAccount deactivates the credential; the row is kept so history
// stays attributable.
func DisconnectAccount(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	accountID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(iris.StatusBadRequest)
		return
	}

	res := storage.DB.Model(&models.SocialAccount{}).
		Where("id = ? AND user_id = ?", accountID, claims.ID).
		Update("active", false)
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

// ListUnipileAccounts proxies the workspace's Unipile accounts for the
// campaign setup screen.
func ListUnipileAccounts(ctx iris.Context) {
	unipile := services.NewUnipileService()
	accounts, err := unipile.ListAccounts()
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Error", err.Error(), ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "accounts": accounts})
}

// One credential per user+platform; reconnecting overwrites the token
func upsertSocialAccount(account *models.SocialAccount) error {
	return storage.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"account_id", "screen_name", "access_token", "refresh_token", "expires_at", "active",
		}),
	}).Create(account).Error
}
