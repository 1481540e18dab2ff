package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 档案提交相关指标
	SubmissionTotal    metric.Int64Counter
	SubmissionDuration metric.Float64Histogram

	// 文档上传相关指标
	DocumentUploadTotal metric.Int64Counter
	DocumentUploadBytes metric.Int64Counter

	// 邮件投递相关指标
	MailDeliveredTotal metric.Int64Counter

	// 地理编码相关指标
	GeocodeRequestTotal metric.Int64Counter
}

var (
	metrics *OTelMetrics

	meter = otel.Meter("medibook")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.SubmissionTotal, err = meter.Int64Counter(
		"profile_submission_total",
		metric.WithDescription("Total number of doctor profile submissions"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return err
	}

	metrics.SubmissionDuration, err = meter.Float64Histogram(
		"profile_submission_duration_seconds",
		metric.WithDescription("Time spent processing a profile submission"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.DocumentUploadTotal, err = meter.Int64Counter(
		"document_upload_total",
		metric.WithDescription("Total number of document uploads"),
		metric.WithUnit("{upload}"),
	)
	if err != nil {
		return err
	}

	metrics.DocumentUploadBytes, err = meter.Int64Counter(
		"document_upload_bytes_total",
		metric.WithDescription("Total bytes uploaded to object storage"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return err
	}

	metrics.MailDeliveredTotal, err = meter.Int64Counter(
		"mail_delivered_total",
		metric.WithDescription("Total number of mails delivered by the worker"),
		metric.WithUnit("{mail}"),
	)
	if err != nil {
		return err
	}

	metrics.GeocodeRequestTotal, err = meter.Int64Counter(
		"geocode_request_total",
		metric.WithDescription("Total number of geocoding requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

func (m *OTelMetrics) RecordSubmission(ctx context.Context, outcome string, duration float64) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.SubmissionTotal.Add(ctx, 1, attrs)
	m.SubmissionDuration.Record(ctx, duration, attrs)
}

func (m *OTelMetrics) RecordDocumentUpload(ctx context.Context, category, status string, size int64) {
	attrs := metric.WithAttributes(
		attribute.String("category", category),
		attribute.String("status", status),
	)
	m.DocumentUploadTotal.Add(ctx, 1, attrs)
	if status == "success" {
		m.DocumentUploadBytes.Add(ctx, size, attrs)
	}
}

func (m *OTelMetrics) RecordMailDelivered(ctx context.Context, kind, status string) {
	m.MailDeliveredTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
}

func (m *OTelMetrics) RecordGeocodeRequest(ctx context.Context, direction, status string) {
	m.GeocodeRequestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", direction),
		attribute.String("status", status),
	))
}
