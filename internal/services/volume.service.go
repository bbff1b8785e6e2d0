package services

import (
	"fsgraph/internal/models"

	"github.com/shirou/gopsutil/v3/disk"
)

const GB = 1024 * 1024 * 1024

// GetVolumeUsage returns usage of the filesystem that holds path
func GetVolumeUsage(path string) (*models.VolumeStatus, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return nil, &AccessError{Path: path, Err: err}
	}

	return &models.VolumeStatus{
		Path:         path,
		TotalGB:      float64(usage.Total) / GB,
		UsedGB:       float64(usage.Used) / GB,
		FreeGB:       float64(usage.Free) / GB,
		UsagePercent: usage.UsedPercent,
		Filesystem:   usage.Fstype,
	}, nil
}
