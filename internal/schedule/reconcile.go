package schedule

// 对象存储对账清理：提交管线在部分失败时不回滚已上传对象，
// 孤儿对象在这里按周期扫描。对照档案表引用的 URL，
// 超过最小年龄且无人引用的对象删除。

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"MediBook/config"
	"MediBook/internal/model"
	"MediBook/internal/repository"
	"MediBook/pkg/logger"
	"MediBook/pkg/objstore"
	"MediBook/storage/database"
)

// 提交管线会写入的所有类别前缀
var documentPrefixes = []string{
	"identity_proof/",
	"medical_license/",
	"profile_image/",
	"additional/",
}

var (
	reconcilerOnce sync.Once
	reconcilerInst *Reconciler
)

type profileLister interface {
	ListDocumentURLs(ctx context.Context) ([]model.ProfileDocuments, error)
}

type Reconciler struct {
	logger   *zap.Logger
	store    objstore.Store
	profiles profileLister
	minAge   time.Duration

	runMu   sync.Mutex
	running bool
	lastRun time.Time
}

func GetReconciler(store objstore.Store) *Reconciler {
	reconcilerOnce.Do(func() {
		reconcilerInst = &Reconciler{
			logger:   logger.Logger,
			store:    store,
			profiles: repository.NewProfileRepo(database.DB()),
			minAge:   time.Duration(config.Cfg.ReconcileMinAgeMinutes) * time.Minute,
		}
	})
	return reconcilerInst
}

// Run 执行一轮对账。上一轮还没结束时直接跳过。
func (r *Reconciler) Run(ctx context.Context) error {
	r.runMu.Lock()
	if r.running {
		r.runMu.Unlock()
		r.logger.Info("Reconcile sweep already running, skipping")
		return nil
	}
	r.running = true
	r.runMu.Unlock()

	defer func() {
		r.runMu.Lock()
		r.running = false
		r.runMu.Unlock()
	}()

	start := time.Now()
	r.lastRun = start

	referenced, err := r.referencedURLs(ctx)
	if err != nil {
		r.logger.Error("Failed to load referenced document URLs", zap.Error(err))
		return err
	}

	cutoff := start.Add(-r.minAge)
	var scanned, removed int

	for _, prefix := range documentPrefixes {
		objects, err := r.store.List(ctx, prefix)
		if err != nil {
			// 单个前缀失败不中断整轮，下一轮还会扫到
			r.logger.Warn("Failed to list objects",
				zap.String("prefix", prefix),
				zap.Error(err),
			)
			continue
		}

		var orphans []string
		for _, obj := range objects {
			scanned++
			if obj.UpdatedAt.After(cutoff) {
				continue
			}
			if referenced[r.store.PublicURL(obj.Name)] {
				continue
			}
			orphans = append(orphans, obj.Name)
		}

		if len(orphans) == 0 {
			continue
		}

		if err := r.store.Remove(ctx, orphans); err != nil {
			r.logger.Warn("Failed to remove orphan objects",
				zap.String("prefix", prefix),
				zap.Int("count", len(orphans)),
				zap.Error(err),
			)
			continue
		}
		removed += len(orphans)
	}

	r.logger.Info("Reconcile sweep finished",
		zap.Int("scanned", scanned),
		zap.Int("removed", removed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// referencedURLs 档案表里仍被引用的全部文档 URL 集合
func (r *Reconciler) referencedURLs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.profiles.ListDocumentURLs(ctx)
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]bool)
	add := func(u string) {
		if u = strings.TrimSpace(u); u != "" {
			referenced[u] = true
		}
	}

	for _, row := range rows {
		add(row.IdentityProof)
		add(row.MedicalLicense)
		if row.ProfilePicture != nil {
			add(*row.ProfilePicture)
		}
		for _, u := range model.DecodeDocumentList(row.AdditionalDocuments) {
			add(u)
		}
	}
	return referenced, nil
}
