package routes

import (
	"strings"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

var assignableRoles = []string{"user", "admin", "super_admin"}

// AdminListUsers pages through all accounts with optional text and role
// filters.
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("perPage", 25)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.User{})
	if q := strings.TrimSpace(ctx.URLParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}
	if role := ctx.URLParam("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var users []models.User
	if err := query.Order("id").Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

type ChangeUserRoleInput struct {
	Role string `json:"role" validate:"required"`
}

// AdminChangeUserRole assigns a role to an account. Restricted to
// super admins; every change lands in the audit log.
func AdminChangeUserRole(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(iris.StatusBadRequest)
		return
	}

	var input ChangeUserRoleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !slices.Contains(assignableRoles, input.Role) {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Unknown role: "+input.Role, ctx)
		return
	}

	var user models.User
	if dbErr := storage.DB.First(&user, userID).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}

	previousRole := user.Role
	if previousRole == input.Role {
		ctx.JSON(user)
		return
	}

	user.Role = input.Role
	if dbErr := storage.DB.Model(&user).Update("role", input.Role).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.role_changed", "user", user.ID,
		iris.Map{"role": previousRole}, iris.Map{"role": input.Role})

	ctx.JSON(user)
}

// AdminStats reports workspace-wide counts for the dashboard.
func AdminStats(ctx iris.Context) {
	var stats struct {
		Users           int64 `json:"users"`
		Posts           int64 `json:"posts"`
		PublishedPosts  int64 `json:"publishedPosts"`
		ScheduledPosts  int64 `json:"scheduledPosts"`
		ActiveCampaigns int64 `json:"activeCampaigns"`
		Contacts        int64 `json:"contacts"`
	}

	counts := []struct {
		model interface{}
		conds []interface{}
		dest  *int64
	}{
		{&models.User{}, nil, &stats.Users},
		{&models.Post{}, nil, &stats.Posts},
		{&models.Post{}, []interface{}{"status = ?", models.PostStatusPublished}, &stats.PublishedPosts},
		{&models.Post{}, []interface{}{"status = ?", models.PostStatusScheduled}, &stats.ScheduledPosts},
		{&models.Campaign{}, []interface{}{"status = ?", models.CampaignStatusActive}, &stats.ActiveCampaigns},
		{&models.Contact{}, nil, &stats.Contacts},
	}
	for _, c := range counts {
		query := storage.DB.Model(c.model)
		if c.conds != nil {
			query = query.Where(c.conds[0], c.conds[1:]...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(stats)
}

// AdminListAuditLog pages through recorded admin actions, newest first.
func AdminListAuditLog(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("perPage", 50)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	query := storage.DB.Model(&models.AuditLog{})
	if action := ctx.URLParam("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var entries []models.AuditLog
	if err := query.Order("id DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&entries).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, entries, page, perPage, total)
}
