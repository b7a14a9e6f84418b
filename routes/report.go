package routes

import (
	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
)

type CreateReportInput struct {
	ReportedUserID     *uint  `json:"reportedUser"`
	ReportedPropertyID *uint  `json:"reportedProperty"`
	Reason             string `json:"reason" validate:"required,max=256"`
	Message            string `json:"message" validate:"max=1000"`
}

// CreateReport files a report against a user or a property.
func CreateReport(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateReportInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.ReportedUserID == nil && input.ReportedPropertyID == nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Must report a user or property.", ctx)
		return
	}

	report := models.Report{
		ReporterID:         userID,
		ReportedUserID:     input.ReportedUserID,
		ReportedPropertyID: input.ReportedPropertyID,
		Reason:             input.Reason,
		Message:            input.Message,
	}

	if err := storage.DB.Create(&report).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"message": "Report submitted."})
}

// ListReports is admin only.
func ListReports(ctx iris.Context) {
	var reports []models.Report
	res := storage.DB.
		Preload("Reporter").
		Preload("ReportedUser").
		Preload("ReportedProperty").
		Order("created_at DESC").
		Find(&reports)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(reports)
}
