package utils

import "time"

func Uint64Ptr(v uint64) *uint64 {
	return &v
}

func TimePtr(t time.Time) *time.Time {
	return &t
}
