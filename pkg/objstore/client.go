package objstore

import (
	"context"
	"time"
)

// 对象存储的薄接口。提交管线只需要上传、按前缀列举和删除，
// 真实实现走存储服务的 REST API，测试用 mock。

// Object 桶内一个对象的元信息
type Object struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store 对象存储客户端
type Store interface {
	// Upload 上传对象并返回公开访问 URL
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
	// List 列举指定前缀下的对象
	List(ctx context.Context, prefix string) ([]Object, error)
	// Remove 批量删除对象
	Remove(ctx context.Context, paths []string) error
	// PublicURL 对象的公开访问 URL
	PublicURL(path string) string
}
