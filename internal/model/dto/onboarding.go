package dto

import "MediBook/internal/form"

// SessionResponse 引导会话快照
type SessionResponse struct {
	StepIndex   int          `json:"step_index"`
	Step        form.Step    `json:"step"`
	Phase       string       `json:"phase"`
	StepCount   int          `json:"step_count"`
	Data        form.Data    `json:"data"`
	FieldErrors form.Errors  `json:"field_errors,omitempty"`
	LastError   string       `json:"last_error,omitempty"`
}

// ForwardGeocodeRequest 地址文本变更
type ForwardGeocodeRequest struct {
	Address form.Address `json:"address"`
}

// ReverseGeocodeRequest 地图选点
type ReverseGeocodeRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
