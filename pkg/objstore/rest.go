package objstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// RESTStore 走存储服务 HTTP API 的实现。
// 对象路径形如 doctor-documents/identity_proof/1724800000000-uuid.pdf，
// 公开 URL 由 baseURL + /object/public/ + bucket 拼出。
type RESTStore struct {
	baseURL    string
	serviceKey string
	bucket     string
	cli        *client.Client
}

func NewRESTStore(baseURL, serviceKey, bucket string) (*RESTStore, error) {
	c, err := client.NewClient(
		client.WithDialTimeout(3*time.Second),
		client.WithClientReadTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	return &RESTStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		cli:        c,
	}, nil
}

func (s *RESTStore) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(s.baseURL + "/object/" + s.bucket + "/" + path)
	req.SetHeader("Authorization", "Bearer "+s.serviceKey)
	req.SetHeader("Content-Type", contentType)
	req.SetBody(data)

	if err := s.cli.Do(ctx, req, resp); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if resp.StatusCode() != consts.StatusOK {
		return "", fmt.Errorf("upload %s: unexpected status %d: %s", path, resp.StatusCode(), resp.Body())
	}
	return s.PublicURL(path), nil
}

type listRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
}

type listEntry struct {
	Name     string `json:"name"`
	Metadata struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *RESTStore) List(ctx context.Context, prefix string) ([]Object, error) {
	body, err := json.Marshal(listRequest{Prefix: prefix, Limit: 1000})
	if err != nil {
		return nil, err
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(s.baseURL + "/object/list/" + s.bucket)
	req.SetHeader("Authorization", "Bearer "+s.serviceKey)
	req.SetHeader("Content-Type", "application/json")
	req.SetBody(body)

	if err := s.cli.Do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	if resp.StatusCode() != consts.StatusOK {
		return nil, fmt.Errorf("list %s: unexpected status %d", prefix, resp.StatusCode())
	}

	var entries []listEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	out := make([]Object, 0, len(entries))
	for _, e := range entries {
		out = append(out, Object{
			Name:      strings.TrimRight(prefix, "/") + "/" + e.Name,
			Size:      e.Metadata.Size,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return out, nil
}

type removeRequest struct {
	Prefixes []string `json:"prefixes"`
}

func (s *RESTStore) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	body, err := json.Marshal(removeRequest{Prefixes: paths})
	if err != nil {
		return err
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodDelete)
	req.SetRequestURI(s.baseURL + "/object/" + s.bucket)
	req.SetHeader("Authorization", "Bearer "+s.serviceKey)
	req.SetHeader("Content-Type", "application/json")
	req.SetBody(body)

	if err := s.cli.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("remove objects: %w", err)
	}
	if resp.StatusCode() != consts.StatusOK {
		return fmt.Errorf("remove objects: unexpected status %d", resp.StatusCode())
	}
	return nil
}

func (s *RESTStore) PublicURL(path string) string {
	return s.baseURL + "/object/public/" + s.bucket + "/" + path
}
