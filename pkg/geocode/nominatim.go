package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"MediBook/pkg/errors"
	"MediBook/pkg/metrics"
)

// NominatimClient 基于 OSM Nominatim 的实现。
// Nominatim 要求带可联系的 User-Agent，联系方式从配置注入。
type NominatimClient struct {
	baseURL string
	contact string
	cli     *client.Client
}

func NewNominatimClient(baseURL, contact string) (*NominatimClient, error) {
	c, err := client.NewClient(
		client.WithDialTimeout(3*time.Second),
		client.WithClientReadTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	return &NominatimClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		contact: contact,
		cli:     c,
	}, nil
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Road        string `json:"road"`
		HouseNumber string `json:"house_number"`
		Suburb      string `json:"suburb"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		County      string `json:"county"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
		Country     string `json:"country"`
	} `json:"address"`
}

// Forward 地址查坐标，取第一条结果
func (n *NominatimClient) Forward(ctx context.Context, query string) (*Result, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")

	body, err := n.get(ctx, "/search?"+q.Encode())
	if err != nil {
		metrics.RecordGeocodeRequest("forward", "failure")
		return nil, err
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		metrics.RecordGeocodeRequest("forward", "failure")
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(places) == 0 {
		metrics.RecordGeocodeRequest("forward", "no_result")
		return nil, errors.GeocodeNoResult
	}
	metrics.RecordGeocodeRequest("forward", "success")
	return n.toResult(places[0])
}

// Reverse 坐标查地址
func (n *NominatimClient) Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.7f", lat))
	q.Set("lon", fmt.Sprintf("%.7f", lng))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	body, err := n.get(ctx, "/reverse?"+q.Encode())
	if err != nil {
		metrics.RecordGeocodeRequest("reverse", "failure")
		return nil, err
	}

	var place nominatimPlace
	if err := json.Unmarshal(body, &place); err != nil {
		metrics.RecordGeocodeRequest("reverse", "failure")
		return nil, fmt.Errorf("decode reverse geocode response: %w", err)
	}
	if place.DisplayName == "" {
		metrics.RecordGeocodeRequest("reverse", "no_result")
		return nil, errors.GeocodeNoResult
	}
	metrics.RecordGeocodeRequest("reverse", "success")
	return n.toResult(place)
}

func (n *NominatimClient) get(ctx context.Context, path string) ([]byte, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(n.baseURL + path)
	req.SetHeader("User-Agent", "MediBook/1.0 ("+n.contact+")")

	if err := n.cli.Do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	if resp.StatusCode() != consts.StatusOK {
		return nil, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func (n *NominatimClient) toResult(p nominatimPlace) (*Result, error) {
	var lat, lng float64
	if _, err := fmt.Sscanf(p.Lat, "%f", &lat); err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", p.Lat, err)
	}
	if _, err := fmt.Sscanf(p.Lon, "%f", &lng); err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", p.Lon, err)
	}

	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	if city == "" {
		city = p.Address.Village
	}

	return &Result{
		Lat:         lat,
		Lng:         lng,
		DisplayName: p.DisplayName,
		Components: Components{
			Road:        p.Address.Road,
			HouseNumber: p.Address.HouseNumber,
			Suburb:      p.Address.Suburb,
			City:        city,
			County:      p.Address.County,
			State:       p.Address.State,
			Postcode:    p.Address.Postcode,
			Country:     p.Address.Country,
		},
	}, nil
}
