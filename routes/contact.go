package routes

import (
	"log"
	"os"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/services"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

type CreateContactInput struct {
	Name           string `json:"name" validate:"required,max=256"`
	ProfileURL     string `json:"profileURL" validate:"max=1024"`
	JobTitle       string `json:"jobTitle" validate:"max=256"`
	Company        string `json:"company" validate:"max=256"`
	Email          string `json:"email" validate:"omitempty,email"`
	EngagementType string `json:"engagementType" validate:"omitempty,oneof=liked commented shared connection manual"`
	PostURL        string `json:"postURL" validate:"max=1024"`
}

func CreateContact(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input CreateContactInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	engagementType := input.EngagementType
	if engagementType == "" {
		engagementType = "manual"
	}

	contact := models.Contact{
		UserID:         claims.ID,
		Name:           input.Name,
		ProfileURL:     input.ProfileURL,
		JobTitle:       input.JobTitle,
		Company:        input.Company,
		Email:          input.Email,
		EngagementType: engagementType,
		PostURL:        input.PostURL,
	}
	if err := storage.DB.Create(&contact).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(contact)
}

func ListContacts(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Contact{}).Where("user_id = ?", claims.ID)
	if engagement := ctx.URLParamDefault("engagement", ""); engagement != "" {
		query = query.Where("engagement_type = ?", engagement)
	}
	if q := ctx.URLParamDefault("q", ""); q != "" {
		like := "%" + q + "%"
		query = query.Where("lower(name) LIKE lower(?) OR lower(company) LIKE lower(?)", like, like)
	}

	var total int64
	query.Count(&total)

	var contacts []models.Contact
	if err := query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&contacts).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	utils.JSONPage(ctx, contacts, page, perPage, total)
}

func GetContact(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	contact, ok := loadOwnContact(ctx, claims.ID)
	if !ok {
		return
	}

	storage.DB.Preload("Notes").First(contact, contact.ID)
	ctx.JSON(contact)
}

type UpdateContactInput struct {
	Name     string `json:"name" validate:"max=256"`
	JobTitle string `json:"jobTitle" validate:"max=256"`
	Company  string `json:"company" validate:"max=256"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func UpdateContact(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	contact, ok := loadOwnContact(ctx, claims.ID)
	if !ok {
		return
	}

	var input UpdateContactInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Name != "" {
		contact.Name = input.Name
	}
	if input.JobTitle != "" {
		contact.JobTitle = input.JobTitle
	}
	if input.Company != "" {
		contact.Company = input.Company
	}
	if input.Email != "" {
		contact.Email = input.Email
	}

	if err := storage.DB.Save(contact).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(contact)
}

func DeleteContact(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	contact, ok := loadOwnContact(ctx, claims.ID)
	if !ok {
		return
	}

	if err := storage.DB.Delete(contact).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

type CreateContactNoteInput struct {
	Body string `json:"body" validate:"required,max=4000"`
}

func CreateContactNote(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	contact, ok := loadOwnContact(ctx, claims.ID)
	if !ok {
		return
	}

	var input CreateContactNoteInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	note := models.ContactNote{
		ContactID: contact.ID,
		UserID:    claims.ID,
		Body:      input.Body,
	}
	if err := storage.DB.Create(&note).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(note)
}

type enrichedProfile struct {
	Headline string `json:"headline"`
	JobTitle string `json:"jobTitle"`
	Company  string `json:"companyName"`
}

// EnrichContact kicks off an Apify profile scrape and overwrites
// JobTitle/Company when it completes. The handler responds immediately; the
// poll loop runs in the background with the adapter's attempt ceiling.
func EnrichContact(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	contact, ok := loadOwnContact(ctx, claims.ID)
	if !ok {
		return
	}

	if contact.ProfileURL == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Contact has no profile URL.", ctx)
		return
	}
	if contact.EnrichmentStatus == models.EnrichmentPending {
		utils.CreateError(iris.StatusConflict, "Conflict", "Enrichment already in progress.", ctx)
		return
	}

	storage.DB.Model(contact).Update("enrichment_status", models.EnrichmentPending)

	go runEnrichment(contact.ID, contact.ProfileURL)

	ctx.StatusCode(iris.StatusAccepted)
	ctx.JSON(iris.Map{"success": true, "status": models.EnrichmentPending})
}

func runEnrichment(contactID uint, profileURL string) {
	apify := services.NewApifyService()

	actorID := os.Getenv("APIFY_PROFILE_ACTOR_ID")
	if actorID == "" {
		actorID = "curious_coder~linkedin-profile-scraper"
	}

	run, err := apify.StartRun(actorID, map[string]interface{}{
		"profileUrls": []string{profileURL},
	})
	if err == nil {
		run, err = apify.WaitForRun(run.ID)
	}

	var profiles []enrichedProfile
	if err == nil {
		err = apify.GetDatasetItems(run.DefaultDatasetID, &profiles)
	}

	if err != nil || len(profiles) == 0 {
		log.Printf("enrichment failed for contact %d: %v", contactID, err)
		storage.DB.Model(&models.Contact{}).Where("id = ?", contactID).
			Update("enrichment_status", models.EnrichmentFailed)
		return
	}

	updates := map[string]interface{}{"enrichment_status": models.EnrichmentCompleted}
	if profiles[0].JobTitle != "" {
		updates["job_title"] = profiles[0].JobTitle
	} else if profiles[0].Headline != "" {
		updates["job_title"] = profiles[0].Headline
	}
	if profiles[0].Company != "" {
		updates["company"] = profiles[0].Company
	}
	storage.DB.Model(&models.Contact{}).Where("id = ?", contactID).Updates(updates)
}

func loadOwnContact(ctx iris.Context, userID uint) (*models.Contact, bool) {
	contactID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(iris.StatusBadRequest)
		return nil, false
	}

	var contact models.Contact
	if err := storage.DB.Where("id = ? AND user_id = ?", contactID, userID).First(&contact).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}

	return &contact, true
}
