package routes

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DreamGlimmer/movinin-sub000/models"
	"github.com/DreamGlimmer/movinin-sub000/services"
	"github.com/DreamGlimmer/movinin-sub000/storage"
	"github.com/DreamGlimmer/movinin-sub000/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

type SignUpRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Language string `json:"language"`
}

// SignUp registers a renter account: hashed password, unverified until
// the activation link is followed.
func SignUp(ctx iris.Context) {
	signUp(ctx, models.UserTypeUser)
}

// AdminSignUp registers a backend account.
func AdminSignUp(ctx iris.Context) {
	signUp(ctx, models.UserTypeAdmin)
}

func signUp(ctx iris.Context, userType string) {
	var req SignUpRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.BadRequest(ctx, "failed to hash password", err)
		return
	}

	active := true
	verified := false
	user := models.User{
		Type:     userType,
		FullName: req.FullName,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hash),
		Phone:    req.Phone,
		Language: language(req.Language),
		Active:   &active,
		Verified: &verified,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		utils.BadRequest(ctx, "failed to create account", err)
		return
	}

	token := models.Token{
		UserID:   user.ID,
		Value:    utils.GenerateShortToken(16),
		ExpireAt: time.Now().Add(storage.TokenExpireAfter()),
	}
	if err := storage.DB.Create(&token).Error; err != nil {
		utils.BadRequest(ctx, "failed to create activation token", err)
		return
	}

	activationLink := fmt.Sprintf("%s/activate/%d/%s", os.Getenv("FRONTEND_HOST"), user.ID, token.Value)
	body := utils.T(user.Language, utils.MsgAccountActivation, activationLink)
	if err := services.SendMail(user.Email, "Account activation", body, ""); err != nil {
		log.Printf("sign-up: activation email to %s failed: %v", user.Email, err)
	}

	ctx.JSON(iris.Map{"id": user.ID})
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignIn checks credentials and answers a token pair. Unknown emails and
// wrong passwords both answer 204; blacklisted or deactivated accounts
// answer 403.
func SignIn(ctx iris.Context) {
	var req SignInRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	err := storage.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if err != nil {
		utils.NoContent(ctx)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.NoContent(ctx)
		return
	}

	if user.Blacklisted || (user.Active != nil && !*user.Active) {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "account is not allowed to sign in"})
		return
	}

	tokenPair, err := utils.CreateTokenPair(user.ID)
	if err != nil {
		utils.BadRequest(ctx, "failed to create session", err)
		return
	}

	ctx.JSON(iris.Map{
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
		"user":         user,
	})
}

// Activate marks the account verified when the presented token matches a
// live activation token, then consumes it.
func Activate(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("userId")
	if err != nil {
		utils.BadRequest(ctx, "invalid user id", err)
		return
	}
	value := ctx.Params().Get("token")

	var token models.Token
	err = storage.DB.Where("user_id = ? AND value = ? AND expire_at > ?",
		userID, value, time.Now()).First(&token).Error
	if err != nil {
		utils.NoContent(ctx)
		return
	}

	if err := storage.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("verified", true).Error; err != nil {
		utils.BadRequest(ctx, "failed to activate account", err)
		return
	}

	storage.DB.Delete(&token)

	ctx.JSON(iris.Map{"verified": true})
}

// GetUser fetches one account by id.
func GetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.BadRequest(ctx, "invalid user id", err)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.NoContent(ctx)
		return
	}

	ctx.JSON(user)
}

type UsersFilter struct {
	Types   []string `json:"types"`
	Keyword string   `json:"keyword"`
}

// GetUsers lists accounts by type with an optional name/email keyword.
func GetUsers(ctx iris.Context) {
	page := ctx.Params().GetIntDefault("page", 1)
	size := ctx.Params().GetIntDefault("size", 10)

	var filter UsersFilter
	if err := ctx.ReadJSON(&filter); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	query := storage.DB.Model(&models.User{})
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.BadRequest(ctx, "failed to count users", err)
		return
	}

	var users []models.User
	if err := query.
		Order("full_name ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		utils.BadRequest(ctx, "failed to load users", err)
		return
	}

	utils.JSONPage(ctx, users, page, size, total)
}

// DeleteUsers removes accounts with their owned records: an agency loses
// its bookings, properties and property image files; every user loses
// their bookings, notifications, unread counter and tokens. The cascade
// is explicit code, matching the ownership rules of the data model.
func DeleteUsers(ctx iris.Context) {
	var ids []uint
	if err := ctx.ReadJSON(&ids); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	for _, id := range ids {
		var user models.User
		if err := storage.DB.First(&user, id).Error; err != nil {
			continue
		}

		if user.Type == models.UserTypeAgency {
			var properties []models.Property
			storage.DB.Where("agency_id = ?", user.ID).Find(&properties)
			for _, p := range properties {
				if p.Image != "" {
					imagePath := filepath.Join(os.Getenv("IMAGES_DIR"), p.Image)
					if err := os.Remove(imagePath); err != nil && !os.IsNotExist(err) {
						log.Printf("delete users: removing image %s failed: %v", imagePath, err)
					}
				}
			}
			storage.DB.Unscoped().Where("agency_id = ?", user.ID).Delete(&models.Booking{})
			storage.DB.Unscoped().Where("agency_id = ?", user.ID).Delete(&models.Property{})
		}

		storage.DB.Unscoped().Where("renter_id = ?", user.ID).Delete(&models.Booking{})
		storage.DB.Where("user_id = ?", user.ID).Delete(&models.Notification{})
		storage.DB.Where("user_id = ?", user.ID).Delete(&models.NotificationCounter{})
		storage.DB.Where("user_id = ?", user.ID).Delete(&models.Token{})

		if err := storage.DB.Unscoped().Delete(&user).Error; err != nil {
			utils.BadRequest(ctx, "failed to delete user", err)
			return
		}
	}

	ctx.JSON(iris.Map{"deleted": len(ids)})
}
