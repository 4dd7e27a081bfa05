package routes

import (
	"fmt"
	"io"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/services"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

type GenerateContentInput struct {
	Prompt   string `json:"prompt" validate:"required,max=4000"`
	Tone     string `json:"tone" validate:"max=100"`
	Platform string `json:"platform" validate:"omitempty,oneof=linkedin twitter"`
	Provider string `json:"provider" validate:"omitempty,oneof=openai anthropic"`
}

// GenerateContent drafts post copy with the selected model, seasoned with
// the user's saved content pillars.
func GenerateContent(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input GenerateContentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	systemPrompt := buildWriterPrompt(&user, input.Tone, input.Platform)

	var text string
	var genErr error
	if input.Provider == "anthropic" {
		text, genErr = services.NewAnthropicService().GenerateText(systemPrompt, input.Prompt)
	} else {
		text, genErr = services.NewOpenAIService().GenerateText(systemPrompt, input.Prompt)
	}
	if genErr != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Error", genErr.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"content": text})
}

type PersonalizeMessageInput struct {
	ContactID uint   `json:"contactID" validate:"required"`
	Template  string `json:"template" validate:"required,max=2000"`
}

// PersonalizeMessage rewrites an outreach template around one contact's
// profile details.
func PersonalizeMessage(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input PersonalizeMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var contact models.Contact
	if err := storage.DB.Where("id = ? AND user_id = ?", input.ContactID, claims.ID).First(&contact).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	systemPrompt := "You personalize outreach messages. Keep the sender's intent and length, " +
		"swap in specifics about the recipient, and return only the message text."
	userPrompt := fmt.Sprintf("Template:\n%s\n\nRecipient: %s, %s at %s.",
		input.Template, contact.Name, contact.JobTitle, contact.Company)

	text, err := services.NewAnthropicService().GenerateText(systemPrompt, userPrompt)
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Error", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"message": text})
}

// TranscribeAudio turns an uploaded voice memo into draft text.
func TranscribeAudio(ctx iris.Context) {
	ctx.SetMaxRequestBodySize(25 << 20) // 25 MB cap on uploads

	file, header, err := ctx.FormFile("audio")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "An audio file is required.", ctx)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	text, err := services.NewOpenAIService().Transcribe(header.Filename, audio)
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Error", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"text": text})
}

func buildWriterPrompt(user *models.User, tone, platform string) string {
	prompt := "You are a ghostwriter drafting social media posts. Return only the post text."
	if platform == "twitter" {
		prompt += " Keep it under 280 characters."
	} else if platform == "linkedin" {
		prompt += " Write for a professional LinkedIn audience."
	}
	if tone != "" {
		prompt += " Tone: " + tone + "."
	}
	if len(user.ContentPillars) > 0 {
		prompt += " The author's content pillars: " + string(user.ContentPillars) + "."
	}
	return prompt
}
