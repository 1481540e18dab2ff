package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"MediBook/config"
	"MediBook/internal/cache"
	"MediBook/internal/form"
	"MediBook/pkg/errors"
	"MediBook/pkg/geocode"
	"MediBook/pkg/logger"
)

// 服务端驱动的表单状态机：状态存 Redis，按会话隔离，
// 每次操作都是 读取 -> 变更 -> 写回。

var (
	onboardingService *OnboardingService
	onboardingOnce    sync.Once
)

func Onboarding() *OnboardingService {
	onboardingOnce.Do(func() {
		onboardingService = &OnboardingService{geo: deps.Geo}
	})
	return onboardingService
}

type OnboardingService struct {
	geo geocode.Client
}

// Session 取当前会话状态，首次访问时创建。
func (s *OnboardingService) Session(ctx context.Context, sessionID string) (*form.State, error) {
	state, err := cache.GetOnboardingState(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding state: %w", err)
	}
	if state == nil {
		state = form.NewState()
		if err := cache.SetOnboardingState(ctx, sessionID, state); err != nil {
			return nil, fmt.Errorf("failed to create onboarding state: %w", err)
		}
	}
	return state, nil
}

// Next 用当前步的实时值推进状态机
func (s *OnboardingService) Next(ctx context.Context, sessionID string, live form.Data) (*form.State, form.Errors, error) {
	state, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	fieldErrs := state.Next(live)
	if err := cache.SetOnboardingState(ctx, sessionID, state); err != nil {
		return nil, nil, fmt.Errorf("failed to save onboarding state: %w", err)
	}
	return state, fieldErrs, nil
}

// Back 回退一步
func (s *OnboardingService) Back(ctx context.Context, sessionID string) (*form.State, error) {
	state, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Back()
	if err := cache.SetOnboardingState(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to save onboarding state: %w", err)
	}
	return state, nil
}

// ApplyAddressEdit 地址文本变更：合并进累积状态并按需正向编码。
func (s *OnboardingService) ApplyAddressEdit(ctx context.Context, sessionID string, addr form.Address) (*form.State, error) {
	state, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	fallback := form.Location{
		Lat: config.Cfg.DefaultLocationLat,
		Lng: config.Cfg.DefaultLocationLng,
	}

	if _, geoErr := state.Sync.ApplyTextEdit(ctx, s.geo, &addr, fallback); geoErr != nil {
		// 查询失败只是少了坐标，地址本身照常保留
		logger.Logger.Warn("Forward geocode failed",
			zap.String("session_id", sessionID),
			zap.Error(geoErr),
		)
	}

	state.Data.PracticeDetails.Address = addr
	if err := cache.SetOnboardingState(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to save onboarding state: %w", err)
	}
	return state, nil
}

// ApplyMapClick 地图选点：反向编码并反写地址字段。
func (s *OnboardingService) ApplyMapClick(ctx context.Context, sessionID string, lat, lng float64) (*form.State, error) {
	state, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	addr := state.Data.PracticeDetails.Address
	if err := state.Sync.ApplyMapClick(ctx, s.geo, &addr, lat, lng); err != nil {
		if errors.Is(err, errors.GeocodeNoResult) {
			return nil, errors.GeocodeNoResult
		}
		return nil, errors.NetworkError
	}

	state.Data.PracticeDetails.Address = addr
	if err := cache.SetOnboardingState(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to save onboarding state: %w", err)
	}
	return state, nil
}

// MarkSubmitted 提交成功，会话状态直接丢弃。
func (s *OnboardingService) MarkSubmitted(ctx context.Context, sessionID string) error {
	return cache.DeleteOnboardingState(ctx, sessionID)
}

// MarkSubmissionFailed 提交失败，回到最后一步并保留数据。
func (s *OnboardingService) MarkSubmissionFailed(ctx context.Context, sessionID, reason string) error {
	state, err := s.Session(ctx, sessionID)
	if err != nil {
		return err
	}
	state.MarkSubmissionFailed(reason)
	if err := cache.SetOnboardingState(ctx, sessionID, state); err != nil {
		return fmt.Errorf("failed to save onboarding state: %w", err)
	}
	return nil
}
