package routes

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/services"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RegisterUserInput struct {
	FirstName string `json:"firstName" validate:"required,max=256"`
	LastName  string `json:"lastName" validate:"required,max=256"`
	Email     string `json:"email" validate:"required,max=256,email"`
	Password  string `json:"password" validate:"required,min=8,max=256"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ClerkUserInput struct {
	IdentityToken string `json:"identityToken" validate:"required"`
}

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists == true {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser = models.User{
		FirstName:   userInput.FirstName,
		LastName:    userInput.LastName,
		Email:       strings.ToLower(userInput.Email),
		Password:    hashedPassword,
		SocialLogin: false}

	storage.DB.Create(&newUser)

	returnUser(newUser, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existingUser models.User
	errorMsg := "Invalid email or password."
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists == false {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	if existingUser.SocialLogin == true {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Social Login Account", ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	returnUser(existingUser, ctx)
}

// ClerkLoginOrSignUp is the identity bridge: it verifies a Clerk-issued
// session token against the instance JWKS and resolves (or creates, on first
// sign-in) the internal user row mapped to the external subject. The mapping
// is never mutated afterwards.
func ClerkLoginOrSignUp(ctx iris.Context) {
	var userInput ClerkUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	jwksURL := os.Getenv("CLERK_JWKS_URL")
	if jwksURL == "" {
		utils.CreateError(iris.StatusInternalServerError, "Configuration Error", "CLERK_JWKS_URL is not set.", ctx)
		return
	}

	res, httpErr := http.Get(jwksURL)
	if httpErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	defer res.Body.Close()

	body, bodyErr := io.ReadAll(res.Body)
	if bodyErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	jwks, jwksErr := keyfunc.NewJSON(body)
	if jwksErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Could not verify identity token.", ctx)
		return
	}

	// Keyfunc selects the key matching the token's kid and returns its public key
	token, tokenErr := jwt.Parse(userInput.IdentityToken, jwks.Keyfunc)
	if tokenErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Could not verify identity token.", ctx)
		return
	}

	if !token.Valid {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid identity token.", ctx)
		return
	}

	claims := token.Claims.(jwt.MapClaims)
	subject := fmt.Sprint(claims["sub"])
	if subject == "" || subject == "<nil>" {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Identity token has no subject.", ctx)
		return
	}

	var user models.User
	findErr := storage.DB.Where("clerk_id = ?", subject).First(&user).Error
	if findErr == nil {
		returnUser(user, ctx)
		return
	}
	if findErr != gorm.ErrRecordNotFound {
		utils.CreateInternalServerError(ctx)
		return
	}

	// First sign-in: create the mapping row
	email := strings.ToLower(fmt.Sprint(claims["email"]))
	if email == "<nil>" {
		email = ""
	}
	user = models.User{
		ClerkID:     subject,
		Email:       email,
		FirstName:   stringClaim(claims, "first_name"),
		LastName:    stringClaim(claims, "last_name"),
		AvatarURL:   stringClaim(claims, "image_url"),
		SocialLogin: true,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnUser(user, ctx)
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

func GetUser(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(user)
}

type UpdateProfileInput struct {
	FirstName      string   `json:"firstName" validate:"max=256"`
	LastName       string   `json:"lastName" validate:"max=256"`
	Bio            string   `json:"bio" validate:"max=2000"`
	Headline       string   `json:"headline" validate:"max=256"`
	Timezone       string   `json:"timezone" validate:"max=64"`
	AvatarURL      string   `json:"avatarURL" validate:"max=1024"`
	ContentPillars []string `json:"contentPillars"`
}

func UpdateUserProfile(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Headline != "" {
		user.Headline = input.Headline
	}
	if input.Timezone != "" {
		user.Timezone = input.Timezone
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	if input.ContentPillars != nil {
		pillars, marshalErr := json.Marshal(input.ContentPillars)
		if marshalErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		user.ContentPillars = datatypes.JSON(pillars)
	}

	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(user)
}

type SendPhoneCodeInput struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// SendPhoneCode stores a 6-digit code in Redis and texts it via Twilio.
func SendPhoneCode(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input SendPhoneCodeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !utils.ValidatePhoneNumber(input.PhoneNumber) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid phone number format.", ctx)
		return
	}

	phone := utils.NormalizePhoneNumber(input.PhoneNumber)
	code := generateVerificationCode()

	key := fmt.Sprintf("phone_code:%d", userID)
	if err := storage.Redis.Set(ctx.Request().Context(), key, phone+":"+code, 10*time.Minute).Err(); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	twilio := services.NewTwilioService()
	if err := twilio.SendSMS(phone, "Your Scriib verification code is "+code); err != nil {
		utils.CreateError(iris.StatusInternalServerError, "SMS Error", "Could not send verification code.", ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

type VerifyPhoneCodeInput struct {
	Code string `json:"code" validate:"required,len=6"`
}

func VerifyPhoneCode(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input VerifyPhoneCodeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	key := fmt.Sprintf("phone_code:%d", userID)
	stored, redisErr := storage.Redis.Get(ctx.Request().Context(), key).Result()
	if redisErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Verification Error", "Code expired or not requested.", ctx)
		return
	}

	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 || parts[1] != input.Code {
		utils.CreateError(iris.StatusBadRequest, "Verification Error", "Incorrect code.", ctx)
		return
	}

	verified := true
	if err := storage.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"phone_number":   parts[0],
		"phone_verified": &verified,
	}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.Redis.Del(ctx.Request().Context(), key)
	ctx.JSON(iris.Map{"success": true})
}

func ListNotifications(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	userToken := tok.(*utils.AccessToken)

	var notifications []models.Notification
	storage.DB.Where("user_id = ?", userToken.ID).Order("created_at DESC").Limit(100).Find(&notifications)
	ctx.JSON(iris.Map{"success": true, "notifications": notifications})
}

func MarkNotificationRead(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(http.StatusUnauthorized)
		return
	}
	userToken := tok.(*utils.AccessToken)

	notificationID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	storage.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userToken.ID).
		Update("is_read", true)
	ctx.JSON(iris.Map{"success": true})
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)

	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	userExists := userExistsQuery.RowsAffected > 0

	if userExists == true {
		return true, nil
	}

	return false, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

func generateVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":           user.ID,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"email":        user.Email,
		"role":         user.Role,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
