package service

import (
	"gorm.io/gorm"

	"MediBook/internal/realtime"
	"MediBook/pkg/geocode"
	"MediBook/pkg/objstore"
)

// 服务层的外部协作方在进程启动时一次性注入。
// realtime.Hub 不做包级单例，谁持有谁负责生命周期。

type Dependencies struct {
	DB    *gorm.DB
	Store objstore.Store
	Geo   geocode.Client
	Hub   *realtime.Hub
}

var deps Dependencies

// Setup 注入协作方，必须在任何服务单例被取用前调用。
func Setup(d Dependencies) {
	deps = d
}
