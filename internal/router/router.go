package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"MediBook/internal/handler"
	"MediBook/internal/middleware"
)

func Register(h *server.Hertz) error {
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	sessionMW, err := middleware.SessionMiddleware()
	if err != nil {
		return err
	}

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/signup", handler.Signup)
		auth.POST("/login", handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)

		auth.GET("/email/confirm", handler.ConfirmEmail)
		auth.POST("/email/resend", middleware.ResendRateLimitMiddleware(), handler.ResendConfirmation)

		auth.POST("/password/reset", handler.RequestPasswordReset)
		auth.POST("/password/reset/confirm", handler.ConfirmPasswordReset)
	}

	// 需要登录的认证路由
	authed := v1.Group("/auth")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("/logout", handler.Logout)
		authed.GET("/email/status", handler.EmailStatus)
		authed.GET("/email/wait", handler.WaitEmailConfirmation)
	}

	// 用户相关路由
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", handler.Me)
	}

	// 引导表单路由。状态绑在 cookie 会话上，不要求登录
	onboarding := v1.Group("/onboarding")
	onboarding.Use(sessionMW, middleware.CSRFMiddleware(), middleware.GeneralRateLimitMiddleware())
	{
		onboarding.GET("/session", handler.GetOnboardingSession)
		onboarding.POST("/steps/next", handler.NextOnboardingStep)
		onboarding.POST("/steps/back", handler.PrevOnboardingStep)

		address := onboarding.Group("/address", middleware.GeocodeRateLimitMiddleware())
		{
			address.POST("/forward", handler.EditOnboardingAddress)
			address.POST("/reverse", handler.PickOnboardingLocation)
		}
	}

	// 档案提交端点。错误响应形状是对外契约，认证失败也走裸格式
	profile := v1.Group("/doctor-profile")
	profile.Use(sessionMW, middleware.ProfileAuthMiddleware(), middleware.SubmitRateLimitMiddleware())
	{
		profile.POST("", handler.SubmitDoctorProfile)
	}

	return nil
}
