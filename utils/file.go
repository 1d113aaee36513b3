package utils

import (
	"os"
	"path/filepath"
)

// UploadsRoot is the on-disk root of the tenant upload tree, served at
// /uploads. Overridable for tests.
var UploadsRoot = "uploads"

// EnsureUploadDir creates the uploads directory if it doesn't exist
func EnsureUploadDir() error {
	return os.MkdirAll(UploadsRoot, os.ModePerm)
}

// TenantUploadPath returns uploads/{tenantID}/{parts...}, creating nothing.
func TenantUploadPath(tenantID string, parts ...string) string {
	elems := append([]string{UploadsRoot, tenantID}, parts...)
	return filepath.Join(elems...)
}

// WriteFile writes raw bytes to destPath, creating parent directories.
func WriteFile(destPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}
