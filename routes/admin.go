package routes

import (
	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

// AdminListProperties is public; owner contact info is denormalized
// onto each property for the dashboard.
func AdminListProperties(ctx iris.Context) {
	var properties []models.Property
	res := storage.DB.Preload("Owner").Order("created_at DESC").Find(&properties)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	out := make([]iris.Map, 0, len(properties))
	for i := range properties {
		property := &properties[i]
		ownerName := "Unknown"
		ownerPhone := "Unknown"
		if property.Owner != nil {
			ownerName = property.Owner.Username
			ownerPhone = property.Owner.PhoneNumber
		}
		out = append(out, iris.Map{
			"property":         property,
			"ownerName":        ownerName,
			"ownerPhoneNumber": ownerPhone,
		})
	}

	ctx.JSON(out)
}

func AdminListUsers(ctx iris.Context) {
	var users []models.User
	if err := storage.DB.Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(users)
}

func AdminListUsersByRole(ctx iris.Context) {
	role := ctx.Params().Get("role")

	if !slices.Contains([]string{"student", "owner", "admin"}, role) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid role. Must be student, owner, or admin.", ctx)
		return
	}

	var users []models.User
	if err := storage.DB.Where("role = ?", role).Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(users)
}

type AdminCreateUserInput struct {
	Email       string `json:"email" validate:"required,email,max=256"`
	Username    string `json:"username" validate:"required,max=256"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=32"`
	Password    string `json:"password" validate:"required,min=8,max=256"`
	Role        string `json:"role" validate:"required,oneof=admin owner"`
}

// AdminCreateUser provisions admin or owner accounts.
func AdminCreateUser(ctx iris.Context) {
	var input AdminCreateUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.User
	userExists, existsErr := getAndHandleUserExists(&existing, input.Email)
	if existsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user := models.User{
		Email:       input.Email,
		Username:    input.Username,
		PhoneNumber: input.PhoneNumber,
		Password:    hashedPassword,
		Role:        input.Role,
	}

	if err := storage.DB.Create(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"message": input.Role + " account created successfully",
		"user":    user,
	})
}

func AdminDeleteUser(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := storage.DB.Delete(&models.User{}, "id = ?", id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "User deleted"})
}

func AdminDeleteProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := storage.DB.Delete(&models.Property{}, "id = ?", id).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Property deleted"})
}

// AdminAnalytics reports entity counts plus the most recent signups.
func AdminAnalytics(ctx iris.Context) {
	var userCount, propertyCount, bookingCount int64
	storage.DB.Model(&models.User{}).Count(&userCount)
	storage.DB.Model(&models.Property{}).Count(&propertyCount)
	storage.DB.Model(&models.Booking{}).Count(&bookingCount)

	var recentSignups []models.User
	storage.DB.Order("created_at DESC").Limit(5).Find(&recentSignups)

	ctx.JSON(iris.Map{
		"userCount":     userCount,
		"propertyCount": propertyCount,
		"bookingCount":  bookingCount,
		"recentSignups": recentSignups,
	})
}
