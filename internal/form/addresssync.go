package form

import (
	"context"
	"strings"

	"MediBook/pkg/errors"
	"MediBook/pkg/geocode"
)

// 地址输入和地图选点的双向同步。
// 两边互相触发对方的查询，用一个来源标记压掉回声：
// 地图选点反写地址字段后，紧跟着到达的一次文本变更是反写本身的回声，
// 消费标记、跳过正向编码即可，不需要定时器。

// Source 最近一次地址变更的来源
type Source string

const (
	SourceNone Source = "none"
	SourceText Source = "text"
	SourceMap  Source = "map"
)

// AddressSync 同步状态，随引导会话一起存取。
type AddressSync struct {
	Token Source `json:"token"`
}

// ApplyMapClick 地图选点：反向解析坐标并反写地址字段。
// 标记置为 map，等下一次文本变更把它当回声消费掉。
func (a *AddressSync) ApplyMapClick(ctx context.Context, gc geocode.Client, addr *Address, lat, lng float64) error {
	res, err := gc.Reverse(ctx, lat, lng)
	if err != nil {
		a.Token = SourceNone
		return err
	}

	street := strings.TrimSpace(res.Components.HouseNumber + " " + res.Components.Road)
	if street != "" {
		addr.StreetAddress = street
	}
	if res.Components.City != "" {
		addr.City = res.Components.City
	}
	if res.Components.State != "" {
		addr.State = res.Components.State
	}
	if res.Components.Postcode != "" {
		addr.PostalCode = res.Components.Postcode
	}
	if res.Components.Country != "" {
		addr.Country = res.Components.Country
	}
	addr.Location = &Location{Lat: lat, Lng: lng}

	a.Token = SourceMap
	return nil
}

// ApplyTextEdit 地址字段文本变更：正向编码刷新坐标。
// 若标记是 map，这次变更是反写回声，消费标记后直接返回；
// 街道或城市为空时不查询；查询无结果时落到默认坐标。
// 返回值表示坐标是否被更新。
func (a *AddressSync) ApplyTextEdit(ctx context.Context, gc geocode.Client, addr *Address, fallback Location) (bool, error) {
	if a.Token == SourceMap {
		a.Token = SourceNone
		return false, nil
	}

	if strings.TrimSpace(addr.StreetAddress) == "" || strings.TrimSpace(addr.City) == "" {
		a.Token = SourceNone
		return false, nil
	}

	a.Token = SourceText
	res, err := gc.Forward(ctx, forwardQuery(addr))
	a.Token = SourceNone
	if err != nil {
		if errors.Is(err, errors.GeocodeNoResult) {
			addr.Location = &Location{Lat: fallback.Lat, Lng: fallback.Lng}
			return true, nil
		}
		return false, err
	}

	addr.Location = &Location{Lat: res.Lat, Lng: res.Lng}
	return true, nil
}

func forwardQuery(addr *Address) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{addr.StreetAddress, addr.City, addr.State, addr.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
