package utils

import (
	"path"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// 上传文件只接受这三种 MIME 类型
var allowedDocumentMIMEs = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

func ValidateDocumentMIME(contentType string) bool {
	return allowedDocumentMIMEs[strings.ToLower(strings.TrimSpace(contentType))]
}

// FileExtension 取不带点的扩展名，没有扩展名时返回 "bin"
func FileExtension(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		return "bin"
	}
	return strings.ToLower(ext)
}
