package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/sessions"
	"go.uber.org/zap"

	"MediBook/internal/form"
	"MediBook/internal/middleware"
	"MediBook/internal/service"
	"MediBook/pkg/errors"
	"MediBook/pkg/logger"
)

// 提交端点的响应不走统一包裹格式，错误形状是对外契约的一部分：
// 200 {message, files} / 400 {error, details?} / 401 {error} / 500 {error, details?}

// SubmitDoctorProfile 医生档案提交，multipart 表单
// POST /v1/doctor-profile
func SubmitDoctorProfile(ctx context.Context, c *app.RequestContext) {
	idStr, exists := middleware.GetUserID(ctx, c)
	if !exists {
		c.JSON(http.StatusUnauthorized, map[string]interface{}{"error": "Unauthorized"})
		return
	}
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusUnauthorized, map[string]interface{}{"error": "Unauthorized"})
		return
	}

	mf, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "Invalid form data"})
		return
	}

	var data form.Data
	if values := mf.Value["data"]; len(values) == 0 || json.Unmarshal([]byte(values[0]), &data) != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "Invalid form data"})
		return
	}

	sub := service.Submission{Data: data}
	if sub.IdentityProof, err = filePart(mf, "identityProof"); err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "Invalid form data"})
		return
	}
	if sub.MedicalLicense, err = filePart(mf, "medicalLicense"); err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "Invalid form data"})
		return
	}
	if sub.ProfileImage, err = filePart(mf, "profileImage"); err != nil {
		c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "Invalid form data"})
		return
	}

	// 附加文件按 additionalDocument0..N 约定编号，遇缺即止
	for i := 0; ; i++ {
		doc, err := filePart(mf, fmt.Sprintf("additionalDocument%d", i))
		if err != nil {
			c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "Invalid form data"})
			return
		}
		if doc == nil {
			break
		}
		sub.AdditionalDocuments = append(sub.AdditionalDocuments, *doc)
	}

	result, fieldErrs, err := service.Profile().Submit(ctx, userID, sub)
	if err != nil {
		writeSubmitError(ctx, c, err, fieldErrs)
		markSubmissionOutcome(ctx, c, false, err.Error())
		return
	}

	markSubmissionOutcome(ctx, c, true, "")
	c.JSON(http.StatusOK, result)
}

// filePart 读出一个文件部分，缺席返回 nil。
func filePart(mf *multipart.Form, name string) (*service.Document, error) {
	headers := mf.File[name]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &service.Document{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func writeSubmitError(ctx context.Context, c *app.RequestContext, err error, fieldErrs form.Errors) {
	switch {
	case errors.Is(err, errors.ValidationFailed):
		c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "Validation failed",
			"details": fieldErrs,
		})
	case errors.Is(err, errors.UploadFailed):
		c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": errors.UploadFailed.Message,
		})
	case errors.Is(err, errors.DatabaseError):
		c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": errors.DatabaseError.Message,
		})
	default:
		c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "Internal server error",
			"details": err.Error(),
		})
	}
}

// markSubmissionOutcome 把结果同步回引导会话状态，尽力而为。
// 没有会话（纯 API 调用方）时什么都不做。
func markSubmissionOutcome(ctx context.Context, c *app.RequestContext, ok bool, reason string) {
	s := sessions.Default(c)
	sessionID, valid := s.Get(onboardingSessionKey).(string)
	if !valid || sessionID == "" {
		return
	}

	var err error
	if ok {
		err = service.Onboarding().MarkSubmitted(ctx, sessionID)
	} else {
		err = service.Onboarding().MarkSubmissionFailed(ctx, sessionID, reason)
	}
	if err != nil {
		logger.Logger.Warn("Failed to sync submission outcome to onboarding state",
			zap.String("session_id", sessionID),
			zap.Bool("submitted", ok),
			zap.Error(err),
		)
	}
}
