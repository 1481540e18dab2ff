package metrics

import "context"

// 包级入口做了 nil 保护，指标未初始化时调用是空操作，
// 业务代码不需要关心 InitMetrics 是否执行过。

// RecordSubmission 记录一次档案提交
func RecordSubmission(outcome string, duration float64) {
	if m := GetMetrics(); m != nil {
		m.RecordSubmission(context.Background(), outcome, duration)
	}
}

// RecordDocumentUpload 记录一次文档上传
func RecordDocumentUpload(category, status string, size int64) {
	if m := GetMetrics(); m != nil {
		m.RecordDocumentUpload(context.Background(), category, status, size)
	}
}

// RecordMailDelivered 记录一次邮件投递
func RecordMailDelivered(kind, status string) {
	if m := GetMetrics(); m != nil {
		m.RecordMailDelivered(context.Background(), kind, status)
	}
}

// RecordGeocodeRequest 记录一次地理编码请求
func RecordGeocodeRequest(direction, status string) {
	if m := GetMetrics(); m != nil {
		m.RecordGeocodeRequest(context.Background(), direction, status)
	}
}
