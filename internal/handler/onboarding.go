package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MediBook/internal/form"
	"MediBook/internal/model/dto"
	"MediBook/internal/service"
	"MediBook/pkg/response"
)

func sessionResponseOf(state *form.State, fieldErrs form.Errors) dto.SessionResponse {
	return dto.SessionResponse{
		StepIndex:   state.StepIndex,
		Step:        state.CurrentStep(),
		Phase:       string(state.Phase),
		StepCount:   len(form.Steps),
		Data:        state.Data,
		FieldErrors: fieldErrs,
		LastError:   state.LastError,
	}
}

// GetOnboardingSession 当前引导会话快照，首次访问时创建
// GET /v1/onboarding/session
func GetOnboardingSession(ctx context.Context, c *app.RequestContext) {
	sessionID, err := onboardingSessionID(c)
	if err != nil {
		internalError(ctx, c, err)
		return
	}

	state, err := service.Onboarding().Session(ctx, sessionID)
	if err != nil {
		internalError(ctx, c, err)
		return
	}
	response.Success(ctx, c, sessionResponseOf(state, nil))
}

// NextOnboardingStep 用当前步的实时值推进状态机。
// 校验失败返回 200 + field_errors，停留在原步。
// POST /v1/onboarding/steps/next
func NextOnboardingStep(ctx context.Context, c *app.RequestContext) {
	sessionID, err := onboardingSessionID(c)
	if err != nil {
		internalError(ctx, c, err)
		return
	}

	var live form.Data
	if err := c.BindAndValidate(&live); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	state, fieldErrs, err := service.Onboarding().Next(ctx, sessionID, live)
	if err != nil {
		internalError(ctx, c, err)
		return
	}
	response.Success(ctx, c, sessionResponseOf(state, fieldErrs))
}

// PrevOnboardingStep 无条件回退一步，已填内容保留
// POST /v1/onboarding/steps/back
func PrevOnboardingStep(ctx context.Context, c *app.RequestContext) {
	sessionID, err := onboardingSessionID(c)
	if err != nil {
		internalError(ctx, c, err)
		return
	}

	state, err := service.Onboarding().Back(ctx, sessionID)
	if err != nil {
		internalError(ctx, c, err)
		return
	}
	response.Success(ctx, c, sessionResponseOf(state, nil))
}

// EditOnboardingAddress 地址文本变更，按需正向编码
// POST /v1/onboarding/address/forward
func EditOnboardingAddress(ctx context.Context, c *app.RequestContext) {
	sessionID, err := onboardingSessionID(c)
	if err != nil {
		internalError(ctx, c, err)
		return
	}

	var req dto.ForwardGeocodeRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	state, err := service.Onboarding().ApplyAddressEdit(ctx, sessionID, req.Address)
	if err != nil {
		internalError(ctx, c, err)
		return
	}
	response.Success(ctx, c, sessionResponseOf(state, nil))
}

// PickOnboardingLocation 地图选点，反向编码并反写地址字段
// POST /v1/onboarding/address/reverse
func PickOnboardingLocation(ctx context.Context, c *app.RequestContext) {
	sessionID, err := onboardingSessionID(c)
	if err != nil {
		internalError(ctx, c, err)
		return
	}

	var req dto.ReverseGeocodeRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	state, err := service.Onboarding().ApplyMapClick(ctx, sessionID, req.Lat, req.Lng)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, sessionResponseOf(state, nil))
}
