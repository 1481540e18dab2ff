package geocode

import "context"

// 地理编码协作方的薄接口：正向（地址 -> 坐标）和反向（坐标 -> 地址）。
// 真实实现走 Nominatim，测试用 mock。

// Components 反向解析出的地址组成部分
type Components struct {
	Road        string `json:"road"`
	HouseNumber string `json:"houseNumber"`
	Suburb      string `json:"suburb"`
	City        string `json:"city"`
	County      string `json:"county"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
}

// Result 一次地理编码的结果
type Result struct {
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	DisplayName string     `json:"displayName"`
	Components  Components `json:"components"`
}

// Client 地理编码客户端
type Client interface {
	// Forward 地址查坐标，无结果时返回 errors.GeocodeNoResult
	Forward(ctx context.Context, query string) (*Result, error)
	// Reverse 坐标查地址
	Reverse(ctx context.Context, lat, lng float64) (*Result, error)
}
